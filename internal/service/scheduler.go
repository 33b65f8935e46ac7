package service

import (
	"context"
	"time"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
	"github.com/srimaansri/cooling-the-cloud/internal/logger"
	"github.com/srimaansri/cooling-the-cloud/internal/repository"
)

// SchedulerService keeps a day-ahead plan fresh: every tick it checks
// whether today already has a successful run and, if not, solves one with
// the configured defaults and fallback inputs.
type SchedulerService struct {
	opt  Optimization
	runs repository.RunRepo
	log  *logger.Logger
}

func NewSchedulerService(opt Optimization, runs repository.RunRepo, log *logger.Logger) *SchedulerService {
	return &SchedulerService{opt: opt, runs: runs, log: log}
}

// Run ticks at the given interval until ctx is canceled. The first check
// happens immediately so a freshly started server has a plan without
// waiting a full tick.
func (s *SchedulerService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()

	s.ensureTodayPlan(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.ensureTodayPlan(ctx)
		}
	}
}

func (s *SchedulerService) ensureTodayPlan(ctx context.Context) {
	today := time.Now().UTC().Format(dateLayout)

	recent, err := s.runs.List(ctx, 1)
	if err != nil {
		s.log.Errorw("scheduler_list_failed", "err", err)
		return
	}
	if len(recent) > 0 && recent[0].Date == today && runSucceeded(recent[0].Status) {
		return
	}

	run, err := s.opt.Run(ctx, OptimizeParams{Date: today})
	if err != nil {
		s.log.Errorw("scheduler_run_failed", "date", today, "err", err)
		return
	}
	s.log.Infow("scheduler_plan_refreshed",
		"date", today,
		"run_id", run.RunID,
		"status", run.Result.Status,
	)
}

func runSucceeded(status string) bool {
	return status == coolingcloud.StatusOptimal || status == coolingcloud.StatusFeasible
}
