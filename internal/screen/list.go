package screen

import (
	"context"
	"sync"
	"time"

	"github.com/fitpay/fitpay-admin/internal/pkg/debounce"
	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/fitpay/fitpay-admin/internal/pkg/metrics"
	"github.com/fitpay/fitpay-admin/internal/pkg/utils"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

// DefaultDebounce is the quiet period before a search or filter change is fetched.
const DefaultDebounce = 400 * time.Millisecond

// NoResultsMessage is shown when a search or filter matches nothing.
const NoResultsMessage = "Nenhum resultado encontrado."

// Query is the list state sent to the backend
type Query struct {
	Page   int
	Size   int
	Search string
	Status string
}

// Filtered reports whether a search term or status filter is active.
func (q Query) Filtered() bool {
	return q.Search != "" || q.Status != ""
}

// Fetcher loads one page for a query
type Fetcher[T any] func(ctx context.Context, q Query) (*client.Page[T], error)

// Deleter deletes one entity
type Deleter func(ctx context.Context, id int64) error

// ListConfig wires a list screen to one entity
type ListConfig[T any] struct {
	Entity       string // resource name used in logs and metrics
	Fetch        Fetcher[T]
	Delete       Deleter
	PageSize     int
	Debounce     time.Duration // zero fetches inline
	EmptyMessage string        // shown when nothing is registered
	LoadError    string
	DeleteError  string
	Logger       *logger.Logger
	OnChange     func(ListView[T])
}

// ListView is a snapshot of the list screen for rendering
type ListView[T any] struct {
	Entity        string
	Items         []T
	Query         Query
	TotalPages    int
	TotalElements int64
	Loading       bool
	Loaded        bool
	Banner        string
	Empty         bool
	EmptyMessage  string
	Pages         []int
	HasPrev       bool
	HasNext       bool
	Confirming    bool
	DeleteTarget  int64
}

// List is a paginated, searchable list of entities with delete confirmation
type List[T any] struct {
	cfg       ListConfig[T]
	log       *logger.Logger
	debouncer *debounce.Debouncer
	confirm   Confirmation[int64]

	mu            sync.Mutex
	query         Query
	items         []T
	totalPages    int
	totalElements int64
	loading       bool
	loaded        bool
	banner        string
	gen           uint64
}

// NewList creates a list screen. Nothing is fetched until Load.
func NewList[T any](cfg ListConfig[T]) *List[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = utils.DefaultPageSize
	}
	if cfg.LoadError == "" {
		cfg.LoadError = "Erro ao carregar a lista."
	}
	if cfg.DeleteError == "" {
		cfg.DeleteError = "Erro ao excluir o registro."
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &List[T]{
		cfg:       cfg,
		log:       log.With("entity", cfg.Entity),
		debouncer: debounce.New(cfg.Debounce),
		query:     Query{Page: 0, Size: cfg.PageSize},
	}
}

// SetQuery replaces the whole query without fetching, as when a console request
// carries the state in its URL.
func (l *List[T]) SetQuery(q Query) {
	if q.Size <= 0 {
		q.Size = l.cfg.PageSize
	}
	if q.Page < 0 {
		q.Page = 0
	}
	l.mu.Lock()
	l.query = q
	l.mu.Unlock()
}

// Query returns the current query.
func (l *List[T]) Query() Query {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

// Load fetches the current page immediately.
func (l *List[T]) Load(ctx context.Context) error {
	return l.fetch(ctx)
}

// SetSearch changes the search term, goes back to the first page and schedules
// a debounced fetch.
func (l *List[T]) SetSearch(ctx context.Context, term string) {
	l.mu.Lock()
	l.query.Search = term
	l.query.Page = 0
	l.mu.Unlock()
	l.schedule(ctx)
}

// SetStatus changes the status filter, goes back to the first page and schedules
// a debounced fetch.
func (l *List[T]) SetStatus(ctx context.Context, status string) {
	l.mu.Lock()
	l.query.Status = status
	l.query.Page = 0
	l.mu.Unlock()
	l.schedule(ctx)
}

func (l *List[T]) schedule(ctx context.Context) {
	l.notify()
	l.debouncer.Schedule(func() {
		// Failures land in the banner.
		_ = l.fetch(ctx)
	})
}

// GoToPage fetches page n at once, clamped to the known pages.
func (l *List[T]) GoToPage(ctx context.Context, n int) error {
	l.mu.Lock()
	if l.loaded {
		n = utils.ClampPage(n, l.totalPages)
	} else if n < 0 {
		n = 0
	}
	l.query.Page = n
	l.mu.Unlock()
	return l.fetch(ctx)
}

// Next goes to the following page, if any.
func (l *List[T]) Next(ctx context.Context) error {
	q := l.Query()
	return l.GoToPage(ctx, q.Page+1)
}

// Prev goes to the previous page, if any.
func (l *List[T]) Prev(ctx context.Context) error {
	q := l.Query()
	return l.GoToPage(ctx, q.Page-1)
}

// RequestDelete opens the delete confirmation for id.
func (l *List[T]) RequestDelete(id int64) error {
	err := l.confirm.Open(id)
	l.notify()
	return err
}

// CancelDelete closes the confirmation without deleting.
func (l *List[T]) CancelDelete() error {
	err := l.confirm.Cancel()
	l.notify()
	return err
}

// ConfirmDelete deletes the pending target and refetches the current page,
// stepping back one page when it became empty. On failure the items are kept
// and the banner carries the reason.
func (l *List[T]) ConfirmDelete(ctx context.Context) error {
	id, err := l.confirm.Confirm()
	if err != nil {
		return err
	}

	if err := l.cfg.Delete(ctx, id); err != nil {
		l.fail("delete", err, l.cfg.DeleteError)
		l.notify()
		return err
	}

	if err := l.fetch(ctx); err != nil {
		return err
	}

	l.mu.Lock()
	stepBack := len(l.items) == 0 && l.query.Page > 0
	if stepBack {
		l.query.Page = utils.ClampPage(l.query.Page-1, l.totalPages)
	}
	l.mu.Unlock()

	if stepBack {
		return l.fetch(ctx)
	}
	return nil
}

// DismissError clears the banner.
func (l *List[T]) DismissError() {
	l.mu.Lock()
	l.banner = ""
	l.mu.Unlock()
	l.notify()
}

// Close drops any pending debounced fetch.
func (l *List[T]) Close() {
	l.debouncer.Cancel()
}

// View returns a snapshot for rendering.
func (l *List[T]) View() ListView[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]T, len(l.items))
	copy(items, l.items)

	target, confirming := l.confirm.Target()
	empty := l.loaded && !l.loading && len(items) == 0

	v := ListView[T]{
		Entity:        l.cfg.Entity,
		Items:         items,
		Query:         l.query,
		TotalPages:    l.totalPages,
		TotalElements: l.totalElements,
		Loading:       l.loading,
		Loaded:        l.loaded,
		Banner:        l.banner,
		Empty:         empty,
		Pages:         utils.PageWindow(l.query.Page, l.totalPages, utils.MaxPageButtons),
		HasPrev:       l.query.Page > 0,
		HasNext:       l.query.Page < l.totalPages-1,
		Confirming:    confirming,
		DeleteTarget:  target,
	}
	if empty {
		v.EmptyMessage = EmptyMessage(l.query.Filtered(), l.cfg.EmptyMessage)
	}
	return v
}

// fetch loads the current query. A response that arrives after a newer fetch
// started is discarded.
func (l *List[T]) fetch(ctx context.Context) error {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	q := l.query
	l.loading = true
	l.mu.Unlock()
	l.notify()

	page, err := l.cfg.Fetch(ctx, q)

	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		l.log.Debugf("discarding stale response for page %d", q.Page)
		return nil
	}
	l.loading = false
	if err == nil {
		l.items = page.Content
		l.totalPages = page.TotalPages
		l.totalElements = page.TotalElements
		l.loaded = true
		l.banner = ""
	}
	l.mu.Unlock()

	if err != nil {
		l.fail("list", err, l.cfg.LoadError)
	}
	l.notify()
	return err
}

func (l *List[T]) fail(op string, err error, fallback string) {
	l.log.CallFailed(op, err)
	metrics.RecordScreenFailure(l.cfg.Entity, op, string(apperrors.KindOf(err)))

	l.mu.Lock()
	l.banner = apperrors.UserMessage(err, fallback)
	l.mu.Unlock()
}

func (l *List[T]) notify() {
	if l.cfg.OnChange != nil {
		l.cfg.OnChange(l.View())
	}
}

// EmptyMessage picks the empty-state text of a list.
func EmptyMessage(filtered bool, entityMessage string) string {
	if filtered || entityMessage == "" {
		return NoResultsMessage
	}
	return entityMessage
}
