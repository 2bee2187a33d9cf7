// Package scheduler triggers periodic renewal of hub subscriptions.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"

	"github.com/umputun/tubehook/pkg/registry"
)

//go:generate moq -out mocks/renewer.go -pkg mocks -skip-ensure -fmt goimports . Renewer
//go:generate moq -out mocks/reporter.go -pkg mocks -skip-ensure -fmt goimports . Reporter

// DefaultSchedule renews twice a day, well inside the hub lease
const DefaultSchedule = "0 */12 * * *"

// Renewer re-subscribes all known channels
type Renewer interface {
	RenewAll(ctx context.Context) (registry.RenewResult, error)
}

// Reporter sends failure reports, best-effort
type Reporter interface {
	Report(ctx context.Context, what string, err error) error
}

// Params for scheduler
type Params struct {
	Renewer      Renewer
	Reporter     Reporter
	Schedule     string // cron expression, DefaultSchedule if empty
	RenewOnStart bool
}

// Scheduler runs renew passes by cron schedule
type Scheduler struct {
	renewer      Renewer
	reporter     Reporter
	schedule     string
	renewOnStart bool
	cron         *cron.Cron
	wg           sync.WaitGroup
}

// NewScheduler creates a new scheduler instance
func NewScheduler(p Params) *Scheduler {
	if p.Schedule == "" {
		p.Schedule = DefaultSchedule
	}
	return &Scheduler{
		renewer:      p.Renewer,
		reporter:     p.Reporter,
		schedule:     p.Schedule,
		renewOnStart: p.RenewOnStart,
	}
}

// Start registers renew job and starts cron. Passes are not cancelled by ctx,
// a running pass always completes.
func (s *Scheduler) Start(ctx context.Context) error {
	logger := cron.PrintfLogger(cronLogger{})
	s.cron = cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))
	job := func() { s.RenewNow(context.WithoutCancel(ctx)) }
	if _, err := s.cron.AddFunc(s.schedule, job); err != nil {
		return fmt.Errorf("add renew job %q: %w", s.schedule, err)
	}
	s.cron.Start()

	if s.renewOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			job()
		}()
	}
	lgr.Printf("[INFO] scheduler started, renew schedule %q, on start %v", s.schedule, s.renewOnStart)
	return nil
}

// Stop stops cron and waits for running passes
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// RenewNow runs a single renew pass, failure is logged and reported
func (s *Scheduler) RenewNow(ctx context.Context) {
	res, err := s.renewer.RenewAll(ctx)
	if err != nil {
		lgr.Printf("[ERROR] renew pass failed: %v", err)
		if repErr := s.reporter.Report(ctx, "renew pass", err); repErr != nil {
			lgr.Printf("[WARN] can't report renew failure: %v", repErr)
		}
		return
	}
	if len(res.Failed) > 0 {
		lgr.Printf("[WARN] renew pass done, %d of %d failed: %v", len(res.Failed), res.Total, res.Failed)
		return
	}
	lgr.Printf("[DEBUG] renew pass done, %d subscriptions", res.Total)
}

// cronLogger sends cron messages to lgr
type cronLogger struct{}

func (cronLogger) Printf(format string, args ...any) {
	lgr.Printf("[DEBUG] cron: "+format, args...)
}
