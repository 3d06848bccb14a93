package forms

import (
	"net/url"
	"strings"

	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

// datetimeLocalLayout is the value format of an HTML datetime-local input.
const datetimeLocalLayout = "2006-01-02T15:04"

// CashFlowInput is the movimentacao form. MENSALIDADE is not selectable: those
// entries come from payments.
type CashFlowInput struct {
	Description string `json:"descricao" validate:"required"`
	Amount      string `json:"valor" validate:"required,decimal"`
	Type        string `json:"tipo_movimentacao" validate:"required,oneof=ENTRADA SAIDA"`
	Category    string `json:"categoria_movimentacao" validate:"required,oneof=ALUGUEL SALARIO COMPRA_MATERIAL CONTA_LUZ CONTA_AGUA INTERNET MANUTENCAO OUTROS"`
	Timestamp   string `json:"data_hora" validate:"omitempty,datetime=2006-01-02T15:04"`
}

// Parse validates the input and builds the entry. The datetime-local value
// gets ":00" seconds; an empty one is sent as null so the backend stamps it.
func (in CashFlowInput) Parse() (client.CashFlowEntry, error) {
	in.Timestamp = strings.TrimSpace(in.Timestamp)
	if len(in.Timestamp) > len(datetimeLocalLayout) {
		in.Timestamp = in.Timestamp[:len(datetimeLocalLayout)]
	}
	if err := check(in); err != nil {
		return client.CashFlowEntry{}, err
	}

	e := client.CashFlowEntry{
		Description: in.Description,
		Amount:      parseDecimal(in.Amount),
		Type:        client.EntryType(in.Type),
		Category:    client.EntryCategory(in.Category),
	}
	if in.Timestamp != "" {
		ts, err := client.ParseDateTime(in.Timestamp + ":00")
		if err != nil {
			return client.CashFlowEntry{}, err
		}
		e.Timestamp = &ts
	}
	return e, nil
}

// FromCashFlowEntry pre-fills the input from a stored entry.
func FromCashFlowEntry(e client.CashFlowEntry) CashFlowInput {
	in := CashFlowInput{
		Description: e.Description,
		Amount:      formatDecimal(e.Amount),
		Type:        string(e.Type),
		Category:    string(e.Category),
	}
	if e.Timestamp != nil && !e.Timestamp.IsZero() {
		in.Timestamp = e.Timestamp.Time().Format(datetimeLocalLayout)
	}
	return in
}

// CashFlowFromValues reads the movimentacao form.
func CashFlowFromValues(v url.Values) CashFlowInput {
	return CashFlowInput{
		Description: value(v, "descricao"),
		Amount:      value(v, "valor"),
		Type:        value(v, "tipo_movimentacao"),
		Category:    value(v, "categoria_movimentacao"),
		Timestamp:   value(v, "data_hora"),
	}
}

// CashFlowForm is the movimentacao form.
func CashFlowForm(c *client.Client, id int64, log *logger.Logger) *screen.Form[CashFlowInput, client.CashFlowEntry] {
	return screen.NewForm(screen.FormConfig[CashFlowInput, client.CashFlowEntry]{
		Entity:     "movimentacoes_financeiras",
		Get:        c.CashFlow().Get,
		Create:     c.CashFlow().Create,
		Update:     c.CashFlow().Update,
		Parse:      CashFlowInput.Parse,
		FromEntity: FromCashFlowEntry,
		SetID:      func(e *client.CashFlowEntry, id int64) { e.ID = id },
		SaveError:  "Erro ao salvar movimentação.",
		LoadError:  "Erro ao carregar movimentação.",
		Logger:     log,
	}, id)
}
