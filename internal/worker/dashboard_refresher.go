package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/fitpay/fitpay-admin/internal/dashboard"
	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/robfig/cron/v3"
)

// DashboardRefresher periodically reloads the dashboard counters, exports them
// as gauges and warns when enrollments are about to expire.
type DashboardRefresher struct {
	service  *dashboard.Service
	schedule string
	logger   *logger.Logger

	scheduler    *cron.Cron
	isRunning    bool
	runningMutex sync.Mutex
}

// NewDashboardRefresher creates a refresher running on a standard cron
// schedule (e.g. "*/5 * * * *" or "@every 5m").
func NewDashboardRefresher(service *dashboard.Service, schedule string, log *logger.Logger) *DashboardRefresher {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardRefresher{
		service:  service,
		schedule: schedule,
		logger:   log.With("worker", "dashboard_refresher"),
	}
}

// Start runs one refresh at once and schedules the rest. The scheduler stops
// when ctx is done.
func (r *DashboardRefresher) Start(ctx context.Context) error {
	r.runningMutex.Lock()
	defer r.runningMutex.Unlock()

	if r.isRunning {
		return fmt.Errorf("dashboard refresher already running")
	}

	sched, err := cron.ParseStandard(r.schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule: %w", err)
	}

	r.scheduler = cron.New()
	r.scheduler.Schedule(sched, cron.FuncJob(func() { r.RunOnce(ctx) }))

	r.logger.WithFields(map[string]interface{}{
		"schedule": r.schedule,
	}).Info("Starting dashboard refresher")

	r.RunOnce(ctx)
	r.scheduler.Start()
	r.isRunning = true

	go func() {
		<-ctx.Done()
		r.Stop()
	}()
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (r *DashboardRefresher) Stop() {
	r.runningMutex.Lock()
	defer r.runningMutex.Unlock()

	if !r.isRunning {
		return
	}
	<-r.scheduler.Stop().Done()
	r.isRunning = false
	r.logger.Info("Dashboard refresher stopped")
}

// IsRunning reports whether the scheduler is active.
func (r *DashboardRefresher) IsRunning() bool {
	r.runningMutex.Lock()
	defer r.runningMutex.Unlock()
	return r.isRunning
}

// RunOnce performs a single refresh and returns the loaded summary.
func (r *DashboardRefresher) RunOnce(ctx context.Context) dashboard.Summary {
	sum := r.service.Load(ctx)
	dashboard.Publish(sum)

	fields := map[string]interface{}{
		"students":        sum.Students.Value,
		"due_for_renewal": sum.DueForRenewal.Value,
		"new_this_month":  sum.NewThisMonth.Value,
	}
	if sum.Failed() {
		r.logger.WithFields(fields).Warn("Dashboard refresh incomplete")
	} else {
		r.logger.WithFields(fields).Debug("Dashboard refreshed")
	}

	if sum.DueForRenewal.Err == nil && sum.DueForRenewal.Value > 0 {
		r.logger.WithFields(map[string]interface{}{
			"count": sum.DueForRenewal.Value,
		}).Warn("Enrollments due for renewal within 7 days")
	}
	return sum
}
