// Package dashboard aggregates the counters of the administrative home page.
package dashboard

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/fitpay/fitpay-admin/internal/pkg/metrics"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

// Card keys, also used as metric labels.
const (
	CardStudents      = "students"
	CardDueForRenewal = "due_for_renewal"
	CardNewThisMonth  = "new_this_month"
)

// MsgCardError replaces the value of a card whose counter failed.
const MsgCardError = "Indisponível"

// Card is one counter of the dashboard
type Card struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Caption string `json:"caption"`
	Variant string `json:"variant"`
	Value   int64  `json:"value"`
	Err     error  `json:"-"`
	Error   string `json:"error,omitempty"`
}

// Summary holds every dashboard card
type Summary struct {
	Students      Card      `json:"students"`
	DueForRenewal Card      `json:"due_for_renewal"`
	NewThisMonth  Card      `json:"new_this_month"`
	LoadedAt      time.Time `json:"loaded_at"`
}

// Cards returns the cards in display order.
func (s Summary) Cards() []Card {
	return []Card{s.Students, s.DueForRenewal, s.NewThisMonth}
}

// Failed reports whether any counter failed.
func (s Summary) Failed() bool {
	for _, c := range s.Cards() {
		if c.Err != nil {
			return true
		}
	}
	return false
}

// Service loads dashboard summaries
type Service struct {
	client *client.Client
	log    *logger.Logger
}

// NewService creates a dashboard service.
func NewService(c *client.Client, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{client: c, log: log.With("component", "dashboard")}
}

// Load fetches the three counters concurrently. A failing counter only marks
// its own card.
func (s *Service) Load(ctx context.Context) Summary {
	start := time.Now()
	sum := Summary{
		Students:      Card{Key: CardStudents, Title: "Alunos Ativos", Caption: "Base Total", Variant: "primary"},
		DueForRenewal: Card{Key: CardDueForRenewal, Title: "A Renovar (7 dias)", Caption: "Risco de bloqueio", Variant: "warning"},
		NewThisMonth:  Card{Key: CardNewThisMonth, Title: "Novas Matrículas (Mês)", Caption: "Crescimento", Variant: "success"},
	}

	var wg sync.WaitGroup
	load := func(card *Card, fetch func(context.Context) (int64, error)) {
		defer wg.Done()
		n, err := fetch(ctx)
		if err != nil {
			s.log.With("card", card.Key).ErrorWithErr(err, "dashboard counter failed")
			metrics.RecordScreenFailure("dashboard", card.Key, string(apperrors.KindOf(err)))
			card.Err = err
			card.Error = MsgCardError
			return
		}
		card.Value = n
	}

	wg.Add(3)
	go load(&sum.Students, s.studentCount)
	go load(&sum.DueForRenewal, s.client.Enrollments().DueForRenewal)
	go load(&sum.NewThisMonth, s.client.Enrollments().NewThisMonth)
	wg.Wait()

	sum.LoadedAt = time.Now()
	metrics.RecordDashboardRefresh(time.Since(start))
	return sum
}

// studentCount reads the total from a one-item page.
func (s *Service) studentCount(ctx context.Context) (int64, error) {
	page, err := s.client.Students().List(ctx, &client.ListOptions{Page: 0, Size: 1})
	if err != nil {
		return 0, err
	}
	return page.TotalElements, nil
}

// Publish exports the successful counters of sum as gauges.
func Publish(sum Summary) {
	for _, c := range sum.Cards() {
		if c.Err == nil {
			metrics.SetDashboardCount(c.Key, float64(c.Value))
		}
	}
}
