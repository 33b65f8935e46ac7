package service

import (
	"context"
	"errors"
	"testing"
	"time"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
	"github.com/srimaansri/cooling-the-cloud/internal/logger"
)

type optimizationStub struct {
	run *coolingcloud.OptimizationRun
	err error
	got []OptimizeParams
}

func (o *optimizationStub) Run(ctx context.Context, p OptimizeParams) (*coolingcloud.OptimizationRun, error) {
	o.got = append(o.got, p)
	return o.run, o.err
}

func todayUTC() string {
	return time.Now().UTC().Format(dateLayout)
}

func TestScheduler_SkipsWhenTodaySolved(t *testing.T) {
	t.Parallel()

	opt := &optimizationStub{}
	runs := &fakeRunRepo{listResp: []coolingcloud.RunSummary{
		{RunID: "run-1", Date: todayUTC(), Status: coolingcloud.StatusOptimal},
	}}

	NewSchedulerService(opt, runs, logger.Nop()).ensureTodayPlan(context.Background())

	if len(opt.got) != 0 {
		t.Fatalf("optimizer called %d times for an already-solved day", len(opt.got))
	}
	if runs.lastLimit != 1 {
		t.Fatalf("freshness check listed %d runs, want 1", runs.lastLimit)
	}
}

func TestScheduler_SolvesWhenHistoryEmpty(t *testing.T) {
	t.Parallel()

	opt := &optimizationStub{run: &coolingcloud.OptimizationRun{
		RunID: "run-new",
		Date:  todayUTC(),
	}}
	runs := &fakeRunRepo{}

	NewSchedulerService(opt, runs, logger.Nop()).ensureTodayPlan(context.Background())

	if len(opt.got) != 1 {
		t.Fatalf("optimizer called %d times, want 1", len(opt.got))
	}
	if opt.got[0].Date != todayUTC() {
		t.Fatalf("scheduled date = %q, want today", opt.got[0].Date)
	}
}

func TestScheduler_SolvesWhenLatestStale(t *testing.T) {
	t.Parallel()

	opt := &optimizationStub{run: &coolingcloud.OptimizationRun{RunID: "run-new"}}
	runs := &fakeRunRepo{listResp: []coolingcloud.RunSummary{
		{RunID: "run-old", Date: "2026-01-01", Status: coolingcloud.StatusOptimal},
	}}

	NewSchedulerService(opt, runs, logger.Nop()).ensureTodayPlan(context.Background())

	if len(opt.got) != 1 {
		t.Fatalf("optimizer called %d times, want 1", len(opt.got))
	}
}

func TestScheduler_RetriesFailedRun(t *testing.T) {
	t.Parallel()

	opt := &optimizationStub{run: &coolingcloud.OptimizationRun{RunID: "run-new"}}
	runs := &fakeRunRepo{listResp: []coolingcloud.RunSummary{
		{RunID: "run-bad", Date: todayUTC(), Status: coolingcloud.StatusError},
	}}

	NewSchedulerService(opt, runs, logger.Nop()).ensureTodayPlan(context.Background())

	if len(opt.got) != 1 {
		t.Fatalf("failed run not retried: %d calls", len(opt.got))
	}
}

func TestScheduler_ListErrorIsNotFatal(t *testing.T) {
	t.Parallel()

	opt := &optimizationStub{}
	runs := &fakeRunRepo{listErr: errors.New("db locked")}

	// Must not panic and must not solve blindly on unknown state.
	NewSchedulerService(opt, runs, logger.Nop()).ensureTodayPlan(context.Background())

	if len(opt.got) != 0 {
		t.Fatalf("optimizer called despite unknown history state")
	}
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	opt := &optimizationStub{run: &coolingcloud.OptimizationRun{RunID: "run-new"}}
	svc := NewSchedulerService(opt, &fakeRunRepo{}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduler did not stop after cancel")
	}

	// The immediate first check ran before cancellation took effect.
	if len(opt.got) != 1 {
		t.Fatalf("optimizer called %d times, want the startup check only", len(opt.got))
	}
}
