package optimizer

import (
	"context"
	"time"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
	"github.com/srimaansri/cooling-the-cloud/internal/solver"
	"github.com/srimaansri/cooling-the-cloud/internal/timeseries"
)

const defaultTimeLimit = 300 * time.Second

// RunRequest carries everything one optimization call needs. Nil series are
// filled from the deterministic fallback for Date/Seed. Nothing is read
// from ambient process state.
type RunRequest struct {
	Temperature     *timeseries.Raw
	Price           *timeseries.Raw
	WaterPrice      float64
	Date            time.Time
	Seed            int64
	Config          coolingcloud.FacilityConfig
	Variant         string
	PreferredSolver string
	Baseline        Baseline // nil selects EvenSpreadChillerBaseline
}

// Run is the single synchronous entry point: normalize, build, solve,
// extract. Each call is a pure function of its inputs and safe to invoke
// concurrently. A non-nil error means the inputs never reached the solver
// (validation or variant errors); solver-level failure is reported through
// the result's status instead.
func Run(ctx context.Context, req RunRequest, orch *solver.Orchestrator) (*coolingcloud.OptimizationResult, *timeseries.Inputs, error) {
	in, err := timeseries.Normalize(req.Temperature, req.Price, req.WaterPrice, req.Date, req.Seed)
	if err != nil {
		return nil, nil, err
	}

	build := BuildInput{
		Temperature: in.Temperature,
		Price:       in.Price,
		CoolingReq:  timeseries.CoolingRequirement(in.Temperature, req.Config.CoolingRequirementMW),
		WaterPrice:  in.WaterPrice,
		Config:      req.Config,
		Variant:     req.Variant,
	}
	m, err := Build(build)
	if err != nil {
		return nil, nil, err
	}

	timeLimit := defaultTimeLimit
	if req.Config.SolverTimeLimitS > 0 {
		timeLimit = time.Duration(req.Config.SolverTimeLimitS * float64(time.Second))
	}

	outcome, err := orch.Solve(ctx, m, req.PreferredSolver, timeLimit)
	if err != nil {
		res := &coolingcloud.OptimizationResult{
			Status:     coolingcloud.StatusError,
			Variant:    req.Variant,
			DataSource: in.Source,
			Error:      err.Error(),
		}
		return res, in, nil
	}

	res := Extract(outcome.Solution, build, req.Baseline)
	res.SolverUsed = outcome.SolverUsed
	res.SolveTimeS = outcome.SolveTime.Seconds()
	res.DataSource = in.Source
	return res, in, nil
}
