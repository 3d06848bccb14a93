package console

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/fitpay/fitpay-admin/internal/enrollment"
	"github.com/fitpay/fitpay-admin/internal/forms"
	"github.com/fitpay/fitpay-admin/internal/pkg/cpf"
	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/fitpay/fitpay-admin/pkg/cep"
	"github.com/fitpay/fitpay-admin/pkg/client"
	"github.com/go-chi/chi/v5"
)

func addressFields(prefix string) []formField {
	return []formField{
		{Name: prefix + "cep", Label: "CEP", Type: "text", Hint: "00000-000", CEP: true},
		{Name: prefix + "logradouro", Label: "Logradouro", Type: "text"},
		{Name: prefix + "numero", Label: "Número", Type: "text"},
		{Name: prefix + "complemento", Label: "Complemento", Type: "text"},
		{Name: prefix + "bairro", Label: "Bairro", Type: "text"},
		{Name: prefix + "cidade", Label: "Cidade", Type: "text"},
		{Name: prefix + "uf", Label: "UF", Type: "text", Hint: "SP"},
	}
}

func methodOptions(methods []client.PaymentMethod) []option {
	out := make([]option, 0, len(methods))
	for _, m := range methods {
		out = append(out, option{Value: string(m), Label: m.Label()})
	}
	return out
}

func (s *Server) buildResources() []*resource {
	return []*resource{
		s.studentResource(),
		s.planResource(),
		s.addressResource(),
		s.enrollmentResource(),
		s.paymentResource(),
		s.cashFlowResource(),
	}
}

func (s *Server) studentResource() *resource {
	res := &resource{
		path:       "/alunos",
		title:      "Alunos",
		singular:   "aluno",
		searchHint: "Buscar por nome, CPF ou e-mail",
	}
	res.list = table[client.Student]{
		config:  screen.StudentsConfig,
		headers: []string{"ID", "Nome", "CPF", "E-mail", "Telefone", "Ativo"},
		row: func(st client.Student) []cell {
			active := cell{Text: "Não", Badge: "secondary"}
			if st.Active {
				active = cell{Text: "Sim", Badge: "success"}
			}
			return []cell{txt(fmt.Sprint(st.ID)), txt(st.Name), txt(cpf.Format(st.CPF)), txt(st.Email), txt(st.Phone), active}
		},
		id: func(st client.Student) int64 { return st.ID },
		actions: func(st client.Student) []action {
			return []action{
				{Label: "Matricular", URL: fmt.Sprintf("/alunos/%d/matricular", st.ID), Variant: "success"},
				{Label: "Matrículas", URL: fmt.Sprintf("/alunos/%d/matriculas", st.ID), Variant: "secondary"},
			}
		},
		edit: true,
	}.spec(res)

	res.form = newFormSpec(forms.StudentForm, forms.StudentFromValues, forms.StudentInput.Values,
		fieldset{Legend: "Dados do aluno", Fields: []formField{
			{Name: "nome", Label: "Nome", Type: "text", Required: true},
			{Name: "cpf", Label: "CPF", Type: "text", Required: true, Hint: "000.000.000-00"},
			{Name: "email", Label: "E-mail", Type: "email", Required: true},
			{Name: "telefone", Label: "Telefone", Type: "text"},
			{Name: "data_matricula", Label: "Data de matrícula", Type: "date"},
			{Name: "ativo", Label: "Ativo", Type: "checkbox"},
		}},
		fieldset{Legend: "Endereço", Fields: append(addressFields("endereco."), formField{Name: "endereco.id", Type: "hidden"})},
	)
	res.form.defaults = url.Values{"ativo": {"true"}}
	res.form.cepPrefix = prefix("endereco.")

	res.routes = func(r chi.Router) {
		r.Get("/{id}/matricular", s.handleEnrollPage)
		r.Post("/{id}/matricular", s.handleEnroll)
		r.Get("/{id}/matriculas", s.handleHistory)
	}
	return res
}

func (s *Server) planResource() *resource {
	res := &resource{path: "/planos", title: "Planos", singular: "plano", searchHint: "Buscar por nome"}
	res.list = table[client.Plan]{
		config:  screen.PlansConfig,
		headers: []string{"ID", "Nome", "Valor", "Duração", "Descrição"},
		row: func(p client.Plan) []cell {
			return []cell{txt(fmt.Sprint(p.ID)), txt(p.Name), txt(brl(p.Price)), txt(fmt.Sprintf("%d dias", p.DurationDays)), txt(p.Description)}
		},
		id:   func(p client.Plan) int64 { return p.ID },
		edit: true,
	}.spec(res)

	res.form = newFormSpec(forms.PlanForm, forms.PlanFromValues, forms.PlanInput.Values,
		fieldset{Fields: []formField{
			{Name: "nome", Label: "Nome", Type: "text", Required: true},
			{Name: "valor", Label: "Valor (R$)", Type: "text", Required: true, Hint: "89,90"},
			{Name: "duracao_dias", Label: "Duração (dias)", Type: "number", Required: true},
			{Name: "descricao", Label: "Descrição", Type: "textarea"},
		}},
	)
	return res
}

func (s *Server) addressResource() *resource {
	res := &resource{path: "/enderecos", title: "Endereços", singular: "endereço", searchHint: "Buscar por logradouro, bairro ou cidade"}
	res.list = table[client.Address]{
		config:  screen.AddressesConfig,
		headers: []string{"ID", "CEP", "Logradouro", "Número", "Bairro", "Cidade", "UF"},
		row: func(a client.Address) []cell {
			return []cell{txt(fmt.Sprint(a.ID)), txt(cep.Format(a.CEP)), txt(a.Street), txt(a.Number), txt(a.District), txt(a.City), txt(a.State)}
		},
		id:   func(a client.Address) int64 { return a.ID },
		edit: true,
	}.spec(res)

	res.form = newFormSpec(forms.AddressForm,
		func(v url.Values) forms.AddressInput { return forms.AddressFromValues(v, "") },
		func(in forms.AddressInput) url.Values { return in.Values("") },
		fieldset{Fields: addressFields("")},
	)
	res.form.cepPrefix = prefix("")
	return res
}

func (s *Server) enrollmentResource() *resource {
	res := &resource{
		path:        "/matriculas",
		title:       "Matrículas",
		singular:    "matrícula",
		searchHint:  "Buscar por aluno ou plano",
		filterLabel: "Status",
	}
	for _, st := range client.EnrollmentStatuses {
		res.filter = append(res.filter, option{Value: string(st), Label: string(st)})
	}

	res.list = table[client.Enrollment]{
		config:  screen.EnrollmentsConfig,
		headers: []string{"ID", "Aluno", "Plano", "Início", "Fim", "Pagamento", "Status"},
		row: func(e client.Enrollment) []cell {
			return []cell{
				txt(fmt.Sprint(e.ID)),
				txt(e.StudentName()),
				txt(e.PlanName()),
				txt(e.StartDate.BR()),
				txt(e.EndDate.BR()),
				txt(e.PaymentMethod.Label()),
				{Text: string(e.Status), Badge: enrollment.BadgeVariant(e.Status)},
			}
		},
		id: func(e client.Enrollment) int64 { return e.ID },
		actions: func(e client.Enrollment) []action {
			label := enrollment.ToggleLabel(e.Status)
			if label == "" {
				return nil
			}
			return []action{{Label: label, URL: fmt.Sprintf("/matriculas/%d/status?voltar=%s", e.ID, url.QueryEscape("/matriculas")), Variant: "warning"}}
		},
	}.spec(res)

	res.routes = func(r chi.Router) {
		r.Get("/{id}/status", s.handleStatusPage)
		r.Post("/{id}/status", s.handleStatus)
	}
	return res
}

func (s *Server) paymentResource() *resource {
	res := &resource{
		path:        "/financeiro",
		title:       "Pagamentos",
		singular:    "pagamento",
		searchHint:  "Buscar por nome do aluno",
		filterLabel: "Método",
		filter:      methodOptions(client.PaymentMethods),
	}
	res.list = table[client.Payment]{
		config:  screen.PaymentsConfig,
		headers: []string{"ID", "Matrícula", "Período", "Valor", "Método", "Data"},
		row: func(p client.Payment) []cell {
			paid := "-"
			if p.PaidAt != nil {
				paid = p.PaidAt.BR()
			}
			return []cell{
				txt(fmt.Sprint(p.ID)),
				txt(strconv.FormatInt(p.EnrollmentRef(), 10)),
				txt(p.Period),
				txt(brl(p.AmountPaid)),
				txt(p.PaymentMethod.Label()),
				txt(paid),
			}
		},
		id:   func(p client.Payment) int64 { return p.ID },
		edit: true,
	}.spec(res)

	res.form = newFormSpec(forms.PaymentForm, forms.PaymentFromValues, forms.PaymentInput.Values,
		fieldset{Fields: []formField{
			{Name: "contrato_aluno", Label: "Matrícula (ID)", Type: "number", Required: true},
			{Name: "referencia_periodo", Label: "Período de referência", Type: "month", Required: true, Hint: "2026-01"},
			{Name: "valor_pago", Label: "Valor pago (R$)", Type: "text", Required: true},
			{Name: "metodo_pagamento", Label: "Método de pagamento", Type: "select", Required: true, Options: methodOptions(client.PaymentMethods)},
		}},
	)
	return res
}

func (s *Server) cashFlowResource() *resource {
	res := &resource{
		path:        "/movimentacoes",
		title:       "Movimentações",
		singular:    "movimentação",
		searchHint:  "Buscar por descrição",
		filterLabel: "Tipo",
		filter: []option{
			{Value: string(client.EntryIncome), Label: "Entrada"},
			{Value: string(client.EntryExpense), Label: "Saída"},
		},
	}

	categories := make([]option, 0, len(client.ManualCategories))
	for _, c := range client.ManualCategories {
		categories = append(categories, option{Value: string(c), Label: c.Label()})
	}

	res.list = table[client.CashFlowEntry]{
		config:  screen.CashFlowConfig,
		headers: []string{"ID", "Data", "Descrição", "Categoria", "Tipo", "Valor"},
		row: func(e client.CashFlowEntry) []cell {
			ts := "-"
			if e.Timestamp != nil {
				ts = e.Timestamp.BR()
			}
			kind := cell{Text: "Entrada", Badge: "success"}
			if e.Type == client.EntryExpense {
				kind = cell{Text: "Saída", Badge: "danger"}
			}
			return []cell{txt(fmt.Sprint(e.ID)), txt(ts), txt(e.Description), txt(e.Category.Label()), kind, txt(brl(e.Signed()))}
		},
		id: func(e client.CashFlowEntry) int64 { return e.ID },
		footer: func(items []client.CashFlowEntry) string {
			var total float64
			for _, e := range items {
				total += e.Signed()
			}
			return "Saldo da página: " + brl(total)
		},
		edit: true,
	}.spec(res)

	res.form = newFormSpec(forms.CashFlowForm, forms.CashFlowFromValues, forms.CashFlowInput.Values,
		fieldset{Fields: []formField{
			{Name: "descricao", Label: "Descrição", Type: "text", Required: true},
			{Name: "valor", Label: "Valor (R$)", Type: "text", Required: true},
			{Name: "tipo_movimentacao", Label: "Tipo", Type: "select", Required: true, Options: res.filter},
			{Name: "categoria_movimentacao", Label: "Categoria", Type: "select", Required: true, Options: categories},
			{Name: "data_hora", Label: "Data e hora", Type: "datetime-local", Hint: "vazio usa o horário do servidor"},
		}},
	)
	return res
}
