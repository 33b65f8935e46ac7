package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
	"github.com/srimaansri/cooling-the-cloud/internal/logger"
	"github.com/srimaansri/cooling-the-cloud/internal/optimizer"
	"github.com/srimaansri/cooling-the-cloud/internal/repository"
	"github.com/srimaansri/cooling-the-cloud/internal/solver"
	"github.com/srimaansri/cooling-the-cloud/internal/timeseries"
)

const dateLayout = "2006-01-02"

// OptimizeParams is one optimization request. Nil series are synthesized
// from the deterministic fallback; nil config/water price fall back to the
// configured facility defaults.
type OptimizeParams struct {
	Temperature     *timeseries.Raw
	Price           *timeseries.Raw
	WaterPrice      *float64
	Config          *coolingcloud.FacilityConfig
	Date            string // YYYY-MM-DD; empty means today
	Seed            int64
	Variant         string
	PreferredSolver string
}

type OptimizeService struct {
	runs     repository.RunRepo
	orch     *solver.Orchestrator
	defaults Defaults
	log      *logger.Logger
}

func NewOptimizeService(runs repository.RunRepo, orch *solver.Orchestrator, defaults Defaults, log *logger.Logger) *OptimizeService {
	return &OptimizeService{runs: runs, orch: orch, defaults: defaults, log: log}
}

// Run normalizes inputs, solves the requested variant and persists the run.
// Input validation errors surface as *timeseries.ValidationError; a failed
// solve is not an error here, it is recorded on the run's result status.
func (s *OptimizeService) Run(ctx context.Context, p OptimizeParams) (*coolingcloud.OptimizationRun, error) {
	date, err := resolveDate(p.Date)
	if err != nil {
		return nil, err
	}

	cfg := s.defaults.Facility
	if p.Config != nil {
		cfg = *p.Config
	}
	waterPrice := s.defaults.WaterPrice
	if p.WaterPrice != nil {
		waterPrice = *p.WaterPrice
	}
	variant := p.Variant
	if variant == "" {
		variant = s.defaults.Variant
	}
	preferred := p.PreferredSolver
	if preferred == "" {
		preferred = s.defaults.PreferredSolver
	}

	res, inputs, err := optimizer.Run(ctx, optimizer.RunRequest{
		Temperature:     p.Temperature,
		Price:           p.Price,
		WaterPrice:      waterPrice,
		Date:            date,
		Seed:            p.Seed,
		Config:          cfg,
		Variant:         variant,
		PreferredSolver: preferred,
	}, s.orch)
	if err != nil {
		return nil, err
	}

	run := &coolingcloud.OptimizationRun{
		RunID:       uuid.NewString(),
		Date:        date.Format(dateLayout),
		CreatedAt:   time.Now().UTC(),
		Variant:     variant,
		Temperature: inputs.Temperature,
		Price:       inputs.Price,
		WaterPrice:  waterPrice,
		Config:      cfg,
		Result:      *res,
	}

	if err := s.runs.Save(ctx, run); err != nil {
		// The solve already succeeded; losing the history row should not
		// lose the plan.
		s.log.Errorw("run_save_failed", "run_id", run.RunID, "err", err)
	}

	s.log.Infow("optimization_run_finished",
		"run_id", run.RunID,
		"status", res.Status,
		"solver", res.SolverUsed,
		"variant", variant,
		"savings_pct", fmt.Sprintf("%.1f", res.SavingsPct),
	)
	return run, nil
}

// resolveDate parses the requested plan date, defaulting to today (UTC).
func resolveDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, &timeseries.ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}
	return t, nil
}
