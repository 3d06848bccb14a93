package forms

import (
	"net/url"
	"strconv"
)

// Values methods are the inverse of the FromValues readers: they render an
// input back to form fields, to pre-fill an HTML form or to overlay flags.

// Values renders the address fields, each name prefixed with prefix.
func (in AddressInput) Values(prefix string) url.Values {
	v := url.Values{}
	if in.ID > 0 {
		v.Set(prefix+"id", strconv.FormatInt(in.ID, 10))
	}
	v.Set(prefix+"cep", in.CEP)
	v.Set(prefix+"logradouro", in.Street)
	v.Set(prefix+"numero", in.Number)
	v.Set(prefix+"complemento", in.Complement)
	v.Set(prefix+"bairro", in.District)
	v.Set(prefix+"cidade", in.City)
	v.Set(prefix+"uf", in.State)
	return v
}

func (in StudentInput) Values() url.Values {
	v := url.Values{}
	v.Set("nome", in.Name)
	v.Set("cpf", in.CPF)
	v.Set("email", in.Email)
	v.Set("telefone", in.Phone)
	v.Set("data_matricula", in.EnrollmentDate)
	if in.Active {
		v.Set("ativo", "true")
	}
	if in.Address != nil {
		for key, vals := range in.Address.Values("endereco.") {
			v[key] = vals
		}
	}
	return v
}

func (in PlanInput) Values() url.Values {
	v := url.Values{}
	v.Set("nome", in.Name)
	v.Set("valor", in.Price)
	v.Set("duracao_dias", in.DurationDays)
	v.Set("descricao", in.Description)
	return v
}

func (in PaymentInput) Values() url.Values {
	v := url.Values{}
	v.Set("contrato_aluno", in.EnrollmentID)
	v.Set("referencia_periodo", in.Period)
	v.Set("valor_pago", in.Amount)
	v.Set("metodo_pagamento", in.Method)
	return v
}

func (in CashFlowInput) Values() url.Values {
	v := url.Values{}
	v.Set("descricao", in.Description)
	v.Set("valor", in.Amount)
	v.Set("tipo_movimentacao", in.Type)
	v.Set("categoria_movimentacao", in.Category)
	v.Set("data_hora", in.Timestamp)
	return v
}
