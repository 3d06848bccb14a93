package screen

import (
	"context"
	stderrors "errors"
	"sync"

	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/fitpay/fitpay-admin/internal/pkg/metrics"
)

// Mode tells whether a form creates or edits
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// FormConfig wires a form screen to one entity. In is the raw operator input,
// T the entity sent to the backend.
type FormConfig[In any, T any] struct {
	Entity     string
	Get        func(ctx context.Context, id int64) (*T, error)
	Create     func(ctx context.Context, item T) (*T, error)
	Update     func(ctx context.Context, item T) error
	Parse      func(in In) (T, error)
	FromEntity func(item T) In
	SetID      func(item *T, id int64)
	SaveError  string
	LoadError  string
	Logger     *logger.Logger
}

// Form is a create-or-edit screen. An id of 0 creates, any other id edits.
type Form[In any, T any] struct {
	cfg FormConfig[In, T]
	id  int64
	log *logger.Logger

	mu     sync.Mutex
	banner string
	fields map[string]string
}

// NewForm creates a form for id (0 for a new entity).
func NewForm[In any, T any](cfg FormConfig[In, T], id int64) *Form[In, T] {
	if cfg.SaveError == "" {
		cfg.SaveError = "Erro ao salvar."
	}
	if cfg.LoadError == "" {
		cfg.LoadError = "Erro ao carregar dados."
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	if id < 0 {
		id = 0
	}
	return &Form[In, T]{
		cfg: cfg,
		id:  id,
		log: log.WithFields(map[string]interface{}{"entity": cfg.Entity, "id": id}),
	}
}

// Mode returns ModeEdit when the form was opened for an existing entity.
func (f *Form[In, T]) Mode() Mode {
	if f.id > 0 {
		return ModeEdit
	}
	return ModeCreate
}

// ID returns the edited id, 0 in create mode.
func (f *Form[In, T]) ID() int64 {
	return f.id
}

// Load returns the input to pre-fill: empty when creating, the stored entity
// when editing.
func (f *Form[In, T]) Load(ctx context.Context) (In, error) {
	var in In
	if f.Mode() == ModeCreate {
		return in, nil
	}

	item, err := f.cfg.Get(ctx, f.id)
	if err != nil {
		f.fail("get", err, f.cfg.LoadError)
		return in, err
	}
	return f.cfg.FromEntity(*item), nil
}

// Submit validates in and saves it. A validation failure blocks the request.
func (f *Form[In, T]) Submit(ctx context.Context, in In) (*T, error) {
	f.mu.Lock()
	f.banner = ""
	f.fields = nil
	f.mu.Unlock()

	item, err := f.cfg.Parse(in)
	if err != nil {
		f.mu.Lock()
		f.banner = apperrors.UserMessage(err, f.cfg.SaveError)
		var appErr *apperrors.AppError
		if stderrors.As(err, &appErr) {
			f.fields = appErr.Fields
		}
		f.mu.Unlock()
		return nil, err
	}

	if f.Mode() == ModeCreate {
		f.cfg.SetID(&item, 0)
		saved, err := f.cfg.Create(ctx, item)
		if err != nil {
			f.fail("create", err, f.cfg.SaveError)
			return nil, err
		}
		return saved, nil
	}

	f.cfg.SetID(&item, f.id)
	if err := f.cfg.Update(ctx, item); err != nil {
		f.fail("update", err, f.cfg.SaveError)
		return nil, err
	}
	return &item, nil
}

// Banner returns the message of the last failure.
func (f *Form[In, T]) Banner() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.banner
}

// FieldErrors returns per-field validation messages of the last submit.
func (f *Form[In, T]) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

func (f *Form[In, T]) fail(op string, err error, fallback string) {
	f.log.CallFailed(op, err)
	metrics.RecordScreenFailure(f.cfg.Entity, op, string(apperrors.KindOf(err)))

	f.mu.Lock()
	f.banner = apperrors.UserMessage(err, fallback)
	f.mu.Unlock()
}
