package enrollment

import (
	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

// ErrTransitionNotAllowed is returned for any status change other than
// ATIVO to TRANCADO and back.
var ErrTransitionNotAllowed = apperrors.New(apperrors.KindValidation, "Só é possível trancar uma matrícula ativa ou reativar uma trancada.")

// Transition checks that an enrollment may move from one status to another.
func Transition(from, to client.EnrollmentStatus) error {
	if next, ok := Toggled(from); ok && next == to {
		return nil
	}
	return ErrTransitionNotAllowed
}

// Toggled returns the status a lock/unlock action leads to.
func Toggled(s client.EnrollmentStatus) (client.EnrollmentStatus, bool) {
	switch s {
	case client.StatusActive:
		return client.StatusLocked, true
	case client.StatusLocked:
		return client.StatusActive, true
	default:
		return "", false
	}
}

// ToggleLabel names the action offered for an enrollment in status s.
func ToggleLabel(s client.EnrollmentStatus) string {
	switch s {
	case client.StatusActive:
		return "Trancar"
	case client.StatusLocked:
		return "Destrancar"
	default:
		return ""
	}
}

// BadgeVariant maps a status to the badge color of the history table.
func BadgeVariant(s client.EnrollmentStatus) string {
	switch s {
	case client.StatusActive:
		return "success"
	case client.StatusPending:
		return "warning"
	case client.StatusCancelled:
		return "danger"
	case client.StatusExpired:
		return "secondary"
	default:
		return "primary"
	}
}
