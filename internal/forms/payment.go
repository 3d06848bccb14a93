package forms

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

// PaymentInput is the pagamento form
type PaymentInput struct {
	EnrollmentID string `json:"contrato_aluno" validate:"required,posint"`
	Period       string `json:"referencia_periodo" validate:"required"`
	Amount       string `json:"valor_pago" validate:"required,decimal"`
	Method       string `json:"metodo_pagamento" validate:"required,oneof=PIX DINHEIRO CARTAO_CREDITO CARTAO_DEBITO BOLETO"`
}

// Parse validates the input and builds the payment request.
func (in PaymentInput) Parse() (client.PaymentRequest, error) {
	if err := check(in); err != nil {
		return client.PaymentRequest{}, err
	}
	id, _ := strconv.ParseInt(in.EnrollmentID, 10, 64)
	return client.PaymentRequest{
		AmountPaid:    parseDecimal(in.Amount),
		Period:        in.Period,
		PaymentMethod: client.PaymentMethod(in.Method),
		Enrollment:    client.Ref{ID: id},
	}, nil
}

// FromPaymentRequest pre-fills the input.
func FromPaymentRequest(p client.PaymentRequest) PaymentInput {
	in := PaymentInput{
		Period: p.Period,
		Amount: formatDecimal(p.AmountPaid),
		Method: string(p.PaymentMethod),
	}
	if p.Enrollment.ID > 0 {
		in.EnrollmentID = strconv.FormatInt(p.Enrollment.ID, 10)
	}
	return in
}

// RequestOf rebuilds the request of a stored payment.
func RequestOf(p client.Payment) client.PaymentRequest {
	return client.PaymentRequest{
		ID:            p.ID,
		AmountPaid:    p.AmountPaid,
		Period:        p.Period,
		PaymentMethod: p.PaymentMethod,
		Enrollment:    client.Ref{ID: p.EnrollmentRef()},
	}
}

// PaymentFromValues reads the pagamento form.
func PaymentFromValues(v url.Values) PaymentInput {
	return PaymentInput{
		EnrollmentID: value(v, "contrato_aluno"),
		Period:       value(v, "referencia_periodo"),
		Amount:       value(v, "valor_pago"),
		Method:       value(v, "metodo_pagamento"),
	}
}

// PaymentForm is the pagamento form.
func PaymentForm(c *client.Client, id int64, log *logger.Logger) *screen.Form[PaymentInput, client.PaymentRequest] {
	svc := c.Payments()
	return screen.NewForm(screen.FormConfig[PaymentInput, client.PaymentRequest]{
		Entity: "pagamentos",
		Get: func(ctx context.Context, id int64) (*client.PaymentRequest, error) {
			p, err := svc.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			req := RequestOf(*p)
			return &req, nil
		},
		Create: func(ctx context.Context, req client.PaymentRequest) (*client.PaymentRequest, error) {
			p, err := svc.Create(ctx, req)
			if err != nil {
				return nil, err
			}
			req.ID = p.ID
			return &req, nil
		},
		Update:     svc.Update,
		Parse:      PaymentInput.Parse,
		FromEntity: FromPaymentRequest,
		SetID:      func(p *client.PaymentRequest, id int64) { p.ID = id },
		SaveError:  "Erro ao registrar pagamento.",
		LoadError:  "Erro ao carregar pagamento.",
		Logger:     log,
	}, id)
}
