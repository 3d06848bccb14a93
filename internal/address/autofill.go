// Package address fills address fields from the postal code.
package address

import (
	"context"
	"errors"

	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/fitpay/fitpay-admin/internal/pkg/metrics"
	"github.com/fitpay/fitpay-admin/pkg/cep"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

// Operator messages
const (
	MsgNotFound    = "CEP não encontrado."
	MsgLookupError = "Erro ao consultar ViaCEP."
)

// Outcome is what a postal-code lookup did to the address
type Outcome string

const (
	Skipped  Outcome = "skipped"
	Filled   Outcome = "found"
	NotFound Outcome = "not_found"
	Failed   Outcome = "error"
)

// Fill is the result of one autofill attempt. Message is empty unless the
// operator has to be told something.
type Fill struct {
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message,omitempty"`
}

// Looker resolves a postal code
type Looker interface {
	Lookup(ctx context.Context, code string) (*cep.Result, error)
}

// Autofill completes an address once its postal code loses focus
type Autofill struct {
	cep Looker
	log *logger.Logger
}

// NewAutofill creates an autofill backed by l.
func NewAutofill(l Looker, log *logger.Logger) *Autofill {
	if log == nil {
		log = logger.Nop()
	}
	return &Autofill{cep: l, log: log.With("component", "cep")}
}

// OnBlur looks the postal code of addr up and, when found, overwrites street,
// district, city and state. Codes that do not clean to 8 digits are skipped
// without a lookup. On any failure addr is left untouched; the outcome never
// blocks saving the form.
func (a *Autofill) OnBlur(ctx context.Context, addr *client.Address) Fill {
	if addr == nil || !cep.Valid(addr.CEP) {
		return Fill{Outcome: Skipped}
	}

	res, err := a.cep.Lookup(ctx, addr.CEP)
	switch {
	case err == nil:
		addr.CEP = cep.Clean(addr.CEP)
		addr.Street = res.Street
		addr.District = res.District
		addr.City = res.City
		addr.State = res.State
		metrics.RecordCEPLookup(string(Filled))
		return Fill{Outcome: Filled}
	case errors.Is(err, cep.ErrNotFound):
		metrics.RecordCEPLookup(string(NotFound))
		return Fill{Outcome: NotFound, Message: MsgNotFound}
	case errors.Is(err, cep.ErrInvalidCEP):
		return Fill{Outcome: Skipped}
	default:
		a.log.WithError(err).Warn("cep lookup failed")
		metrics.RecordCEPLookup(string(Failed))
		return Fill{Outcome: Failed, Message: MsgLookupError}
	}
}
