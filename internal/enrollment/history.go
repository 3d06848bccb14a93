package enrollment

import (
	"context"
	"sync"

	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

// Change is a pending status change of one enrollment
type Change struct {
	Enrollment client.Enrollment
	To         client.EnrollmentStatus
}

// History is the enrollment history of one student with lock/unlock actions
type History struct {
	wf        *Workflow
	studentID int64
	confirm   screen.Confirmation[Change]

	mu     sync.Mutex
	items  []client.Enrollment
	banner string
}

// History loads the enrollment history of a student. On failure the history is
// returned empty with its banner set.
func (w *Workflow) History(ctx context.Context, studentID int64) (*History, error) {
	h := &History{wf: w, studentID: studentID}
	return h, h.Reload(ctx)
}

// Reload fetches the history again.
func (h *History) Reload(ctx context.Context) error {
	items, err := h.wf.client.Enrollments().ByStudent(ctx, h.studentID)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.wf.fail("history", err)
		h.items = nil
		h.banner = MsgHistoryError
		return err
	}
	h.items = items
	h.banner = ""
	return nil
}

// Items returns the loaded enrollments.
func (h *History) Items() []client.Enrollment {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]client.Enrollment, len(h.items))
	copy(out, h.items)
	return out
}

// Banner returns the message of the last failure.
func (h *History) Banner() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.banner
}

// EmptyMessage is shown when the student has no enrollments.
func (h *History) EmptyMessage() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.items) == 0 && h.banner == "" {
		return MsgNoHistory
	}
	return ""
}

// RequestToggle opens the confirmation for locking an active enrollment or
// unlocking a locked one.
func (h *History) RequestToggle(id int64) (Change, error) {
	e, ok := h.find(id)
	if !ok {
		return Change{}, apperrors.NotFound("Matrícula")
	}
	to, ok := Toggled(e.Status)
	if !ok {
		return Change{}, ErrTransitionNotAllowed
	}
	c := Change{Enrollment: e, To: to}
	if err := h.confirm.Open(c); err != nil {
		return Change{}, err
	}
	return c, nil
}

// Pending returns the change awaiting confirmation.
func (h *History) Pending() (Change, bool) {
	return h.confirm.Target()
}

// CancelChange drops the pending change.
func (h *History) CancelChange() error {
	return h.confirm.Cancel()
}

// ConfirmChange persists the pending change and updates the loaded row.
func (h *History) ConfirmChange(ctx context.Context) (*client.Enrollment, error) {
	c, err := h.confirm.Confirm()
	if err != nil {
		return nil, err
	}

	updated, err := h.wf.SetStatus(ctx, c.Enrollment, c.To)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.banner = apperrors.UserMessage(err, MsgStatusError)
		return nil, err
	}
	for i := range h.items {
		if h.items[i].ID == updated.ID {
			h.items[i].Status = updated.Status
		}
	}
	h.banner = ""
	return updated, nil
}

func (h *History) find(id int64) (client.Enrollment, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, e := range h.items {
		if e.ID == id {
			return e, true
		}
	}
	return client.Enrollment{}, false
}
