package enrollment

import (
	"strconv"
	"time"

	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

// Draft is an enrollment being prepared for one student
type Draft struct {
	Student   client.Student
	Plans     []client.Plan
	PlanID    int64
	StartDate client.Date
	Method    client.PaymentMethod
	Banner    string

	loc *time.Location
}

// Plan returns the selected plan, if any.
func (d *Draft) Plan() (client.Plan, bool) {
	if d.PlanID == 0 {
		return client.Plan{}, false
	}
	for _, p := range d.Plans {
		if p.ID == d.PlanID {
			return p, true
		}
	}
	return client.Plan{}, false
}

// SelectPlan picks one of the offered plans. An id of 0 clears the selection.
func (d *Draft) SelectPlan(id int64) error {
	if id == 0 {
		d.PlanID = 0
		return nil
	}
	for _, p := range d.Plans {
		if p.ID == id {
			d.PlanID = id
			return nil
		}
	}
	return apperrors.Validation(MsgPlanRequired, map[string]string{"plano": "plano não encontrado"})
}

// SelectPlanString is SelectPlan for a raw form or flag value.
func (d *Draft) SelectPlanString(s string) error {
	if s == "" {
		return d.SelectPlan(0)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return apperrors.Validation(MsgPlanRequired, map[string]string{"plano": "plano inválido"})
	}
	return d.SelectPlan(id)
}

// SetStartDate sets the start date from "YYYY-MM-DD".
func (d *Draft) SetStartDate(s string) error {
	date, err := client.ParseDate(s)
	if err != nil {
		return apperrors.Validation("Data de início inválida.", map[string]string{"data_inicio": "data inválida"})
	}
	d.StartDate = date
	return nil
}

// SetPaymentMethod sets the activation payment method. An empty value clears it.
func (d *Draft) SetPaymentMethod(m string) error {
	method := client.PaymentMethod(m)
	if method == "" || isEnrollmentMethod(method) {
		d.Method = method
		return nil
	}
	return apperrors.Validation(MsgPaymentRequired, map[string]string{"metodo_pagamento": "método inválido"})
}

// EndDate is the start date plus the plan duration. The start is taken at noon
// local time so a zone offset never shifts it to the previous day.
func (d *Draft) EndDate() (client.Date, bool) {
	plan, ok := d.Plan()
	if !ok || plan.DurationDays <= 0 || d.StartDate.IsZero() {
		return client.Date{}, false
	}
	loc := d.loc
	if loc == nil {
		loc = time.Local
	}
	end := d.StartDate.In(loc, 12).AddDate(0, 0, plan.DurationDays)
	return client.DateOf(end), true
}

// Request builds the activation payload, refusing an incomplete draft.
func (d *Draft) Request() (client.EnrollmentRequest, error) {
	plan, ok := d.Plan()
	if !ok {
		return client.EnrollmentRequest{}, apperrors.Validation(MsgPlanRequired, map[string]string{"plano": "obrigatório"})
	}
	if d.Method == "" {
		return client.EnrollmentRequest{}, apperrors.Validation(MsgPaymentRequired, map[string]string{"metodo_pagamento": "obrigatório"})
	}
	end, ok := d.EndDate()
	if !ok {
		return client.EnrollmentRequest{}, apperrors.Validation(MsgEndDateMissing, map[string]string{"data_fim": "não calculada"})
	}

	method := d.Method
	return client.EnrollmentRequest{
		Student:       client.Ref{ID: d.Student.ID},
		Plan:          client.Ref{ID: plan.ID},
		StartDate:     d.StartDate,
		EndDate:       end,
		PaymentMethod: &method,
		Status:        client.StatusActive,
	}, nil
}

func isEnrollmentMethod(m client.PaymentMethod) bool {
	for _, known := range client.EnrollmentMethods {
		if m == known {
			return true
		}
	}
	return false
}
