package forms

import (
	"net/url"
	"strconv"

	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

// PlanInput is the plano form
type PlanInput struct {
	Name         string `json:"nome" validate:"required"`
	Price        string `json:"valor" validate:"required,decimal"`
	DurationDays string `json:"duracao_dias" validate:"required,posint"`
	Description  string `json:"descricao"`
}

// Parse validates the input and builds the plan.
func (in PlanInput) Parse() (client.Plan, error) {
	if err := check(in); err != nil {
		return client.Plan{}, err
	}
	days, _ := strconv.Atoi(in.DurationDays)
	return client.Plan{
		Name:         in.Name,
		Price:        parseDecimal(in.Price),
		DurationDays: days,
		Description:  in.Description,
	}, nil
}

// FromPlan pre-fills the input from a stored plan.
func FromPlan(p client.Plan) PlanInput {
	return PlanInput{
		Name:         p.Name,
		Price:        formatDecimal(p.Price),
		DurationDays: strconv.Itoa(p.DurationDays),
		Description:  p.Description,
	}
}

// PlanFromValues reads the plano form.
func PlanFromValues(v url.Values) PlanInput {
	return PlanInput{
		Name:         value(v, "nome"),
		Price:        value(v, "valor"),
		DurationDays: value(v, "duracao_dias"),
		Description:  value(v, "descricao"),
	}
}

// PlanForm is the plano form.
func PlanForm(c *client.Client, id int64, log *logger.Logger) *screen.Form[PlanInput, client.Plan] {
	return screen.NewForm(screen.FormConfig[PlanInput, client.Plan]{
		Entity:     "planos",
		Get:        c.Plans().Get,
		Create:     c.Plans().Create,
		Update:     c.Plans().Update,
		Parse:      PlanInput.Parse,
		FromEntity: FromPlan,
		SetID:      func(p *client.Plan, id int64) { p.ID = id },
		SaveError:  "Erro ao salvar plano.",
		LoadError:  "Erro ao carregar plano.",
		Logger:     log,
	}, id)
}
