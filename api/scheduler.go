/*
scheduler.go - Automated reconciliation scheduler

PURPOSE:
  Periodically reconciles pay periods that have ended: once the employer
  statement for a period has been stored, the worker gets a reconciliation
  run without asking for one.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Detects pay periods whose last day is before today
  - Skips periods without stored employer days
  - Skips periods that already have a run (manual or automatic)
  - Records reconciliation runs for audit and UI display

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewReconciliationScheduler(store, handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: Reconcile endpoint (manual reconciliation)
  - reconcile/matcher.go: Match
*/
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/payroll"
	"github.com/warp/shiftlock/reconcile"
	"github.com/warp/shiftlock/store/sqlite"
)

// ReconciliationScheduler handles automated end-of-period reconciliation.
type ReconciliationScheduler struct {
	Store         *sqlite.Store
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	// Now is the clock; tests pin it.
	Now func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	// lastCheck has its own lock: Stop holds mu while a check finishes.
	lastCheck time.Time
	lastMu    sync.Mutex
}

// NewReconciliationScheduler creates a new scheduler.
func NewReconciliationScheduler(store *sqlite.Store, handler *Handler) *ReconciliationScheduler {
	return &ReconciliationScheduler{
		Store:         store,
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		Now:           time.Now,
	}
}

// Start begins the scheduler.
func (rs *ReconciliationScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	log := rs.Handler.Logger.With("component", "scheduler")
	if !rs.Enabled {
		log.Info("disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	// A fresh stop channel per start so the scheduler can be restarted.
	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)

	go rs.run(rs.ticker, rs.stop)

	log.Info("started", "interval", rs.CheckInterval)
}

// Stop stops the scheduler and waits for an in-flight check.
func (rs *ReconciliationScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.Handler.Logger.Info("stopped", "component", "scheduler")
	}
}

func (rs *ReconciliationScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer rs.wg.Done()

	// Run immediately on start
	rs.checkAndProcess(context.Background())

	for {
		select {
		case <-ticker.C:
			rs.checkAndProcess(context.Background())
		case <-stop:
			return
		}
	}
}

// CheckResult counts what one pass did.
type CheckResult struct {
	Processed int
	Skipped   int
	Failed    int
}

func (rs *ReconciliationScheduler) checkAndProcess(ctx context.Context) CheckResult {
	log := rs.Handler.Logger.With("component", "scheduler")
	today := generic.FromTime(rs.Now())
	ruleset := rs.Handler.Ruleset()

	var res CheckResult
	for _, pp := range ruleset.Calendar.Periods() {
		// Current period not ended yet
		if !pp.Period.End.Before(today) {
			continue
		}

		runs, err := rs.Store.ListReconciliationRuns(ctx, pp.ID)
		if err != nil {
			log.Error("listing runs", "pay_period", pp.ID, "error", err)
			res.Failed++
			continue
		}
		if len(runs) > 0 {
			res.Skipped++
			continue
		}

		run, err := rs.processReconciliation(ctx, pp, ruleset.Tolerance)
		switch {
		case err != nil:
			log.Error("reconciling", "pay_period", pp.ID, "error", err)
			res.Failed++
		case run == nil:
			// No statement stored for this period yet.
		default:
			log.Info("reconciled",
				"pay_period", pp.ID,
				"run_id", run.ID,
				"total", run.Result.Total,
				"errors", run.Result.Errors(),
			)
			res.Processed++
		}
	}

	rs.lastMu.Lock()
	rs.lastCheck = rs.Now()
	rs.lastMu.Unlock()

	if res.Processed > 0 || res.Failed > 0 {
		log.Info("check completed",
			"processed", res.Processed,
			"skipped", res.Skipped,
			"failed", res.Failed,
			"next_run", rs.GetNextRunTime(),
		)
	}
	return res
}

// processReconciliation matches the stored employer days of pp. It returns
// a nil run when none are stored.
func (rs *ReconciliationScheduler) processReconciliation(ctx context.Context, pp payroll.PayPeriod, tol reconcile.Tolerance) (*sqlite.ReconciliationRun, error) {
	days, err := rs.Store.ListEmployerDays(ctx, pp.Period)
	if err != nil {
		return nil, fmt.Errorf("loading employer days: %w", err)
	}
	if len(days) == 0 {
		return nil, nil
	}

	shifts, err := rs.Store.LoadRange(ctx, pp.Period.Start, pp.Period.End)
	if err != nil {
		return nil, fmt.Errorf("loading days: %w", err)
	}

	run, err := rs.Store.SaveReconciliationRun(ctx, sqlite.ReconciliationRun{
		PayPeriod: pp.ID,
		Period:    pp.Period,
		Result:    reconcile.Match(shifts, days, tol),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save run record: %w", err)
	}
	return &run, nil
}

// RunNow triggers an immediate check (for testing/admin).
func (rs *ReconciliationScheduler) RunNow(ctx context.Context) CheckResult {
	return rs.checkAndProcess(ctx)
}

// GetNextRunTime returns when the next scheduled check will occur. Before
// the first check it is one interval from now.
func (rs *ReconciliationScheduler) GetNextRunTime() time.Time {
	rs.lastMu.Lock()
	last := rs.lastCheck
	rs.lastMu.Unlock()
	if last.IsZero() {
		last = rs.Now()
	}
	return last.Add(rs.CheckInterval)
}
