// Package enrollment implements the enrollment workflow: activating a plan for
// a student, the student's enrollment history and the lock/unlock transitions.
package enrollment

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/fitpay/fitpay-admin/internal/pkg/metrics"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

const entity = "matriculas"

// PlanPageSize is how many plans the enrollment draft offers.
const PlanPageSize = 100

// Operator messages
const (
	MsgPlanRequired    = "Por favor, selecione um plano."
	MsgPaymentRequired = "O pagamento é obrigatório para confirmar a matrícula."
	MsgEndDateMissing  = "Erro ao calcular data de término. Verifique o plano."
	MsgSaveError       = "Ocorreu um erro ao salvar a matrícula. Tente novamente."
	MsgPlansError      = "Erro ao carregar lista de planos."
	MsgHistoryError    = "Não foi possível carregar os dados."
	MsgNoHistory       = "Nenhuma matrícula encontrada para este aluno."
	MsgStatusError     = "Erro ao alterar o status da matrícula."
)

// Workflow runs enrollment operations against the backend
type Workflow struct {
	client *client.Client
	log    *logger.Logger

	// Now and Location define "today" for new drafts.
	Now      func() time.Time
	Location *time.Location
}

// NewWorkflow creates a workflow using the local time zone.
func NewWorkflow(c *client.Client, log *logger.Logger) *Workflow {
	if log == nil {
		log = logger.Nop()
	}
	return &Workflow{
		client:   c,
		log:      log.With("entity", entity),
		Now:      time.Now,
		Location: time.Local,
	}
}

// Open starts a draft for a student. The student must exist; a failure to load
// the plans still returns the draft with its banner set.
func (w *Workflow) Open(ctx context.Context, studentID int64) (*Draft, error) {
	student, err := w.client.Students().Get(ctx, studentID)
	if err != nil {
		w.fail("open", err)
		return nil, err
	}

	today := w.Now().In(w.Location)
	d := &Draft{
		Student:   *student,
		StartDate: client.DateOf(today),
		loc:       w.Location,
	}

	page, err := w.client.Plans().List(ctx, &client.ListOptions{Page: 0, Size: PlanPageSize})
	if err != nil {
		w.fail("plans", err)
		d.Banner = MsgPlansError
		return d, err
	}
	d.Plans = page.Content
	return d, nil
}

// Confirm activates the draft. A draft without plan, payment method or end
// date is refused before any request is sent.
func (w *Workflow) Confirm(ctx context.Context, d *Draft) (*client.Enrollment, error) {
	d.Banner = ""
	req, err := d.Request()
	if err != nil {
		d.Banner = apperrors.UserMessage(err, MsgSaveError)
		return nil, err
	}

	created, err := w.client.Enrollments().Create(ctx, req)
	if err != nil {
		w.fail("create", err)
		d.Banner = apperrors.UserMessage(err, MsgSaveError)
		return nil, err
	}

	metrics.RecordEnrollmentActivated(string(*req.PaymentMethod))
	w.log.WithFields(map[string]interface{}{
		"student": d.Student.ID,
		"plan":    req.Plan.ID,
		"until":   req.EndDate.String(),
	}).Info("enrollment activated")
	return created, nil
}

// SuccessMessage is shown once an enrollment was activated.
func SuccessMessage(studentName string) string {
	return fmt.Sprintf("Matrícula de %s realizada com sucesso!", studentName)
}

// SetStatus moves an enrollment to status to and persists it.
func (w *Workflow) SetStatus(ctx context.Context, e client.Enrollment, to client.EnrollmentStatus) (*client.Enrollment, error) {
	from := e.Status
	if err := Transition(from, to); err != nil {
		return nil, err
	}

	req := client.RequestFor(e)
	req.Status = to
	if err := w.client.Enrollments().Update(ctx, req); err != nil {
		w.fail("update", err)
		return nil, err
	}

	metrics.RecordEnrollmentTransition(string(from), string(to))
	w.log.WithFields(map[string]interface{}{"id": e.ID, "from": from, "to": to}).Info("enrollment status changed")

	e.Status = to
	return &e, nil
}

// Lock moves an active enrollment to TRANCADO.
func (w *Workflow) Lock(ctx context.Context, id int64) (*client.Enrollment, error) {
	return w.setStatusByID(ctx, id, client.StatusLocked)
}

// Unlock moves a locked enrollment back to ATIVO.
func (w *Workflow) Unlock(ctx context.Context, id int64) (*client.Enrollment, error) {
	return w.setStatusByID(ctx, id, client.StatusActive)
}

func (w *Workflow) setStatusByID(ctx context.Context, id int64, to client.EnrollmentStatus) (*client.Enrollment, error) {
	e, err := w.client.Enrollments().Get(ctx, id)
	if err != nil {
		w.fail("get", err)
		return nil, err
	}
	return w.SetStatus(ctx, *e, to)
}

func (w *Workflow) fail(op string, err error) {
	w.log.CallFailed(op, err)
	metrics.RecordScreenFailure(entity, op, string(apperrors.KindOf(err)))
}
