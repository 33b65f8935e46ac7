package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
	"github.com/srimaansri/cooling-the-cloud/internal/logger"
)

// Sentinel errors adapters report; the orchestrator advances the chain on
// either of them.
var (
	ErrUnavailable = errors.New("solver unavailable")
	ErrTimeout     = errors.New("solver hit time limit without an incumbent")
)

// Adapter is one solver backend. Available must be cheap; Solve must release
// any spawned process or handle on every exit path, including cancellation.
type Adapter interface {
	Name() string
	Available() bool
	SupportsIntegers() bool
	Solve(ctx context.Context, m *Model, timeLimit time.Duration) (*Solution, error)
}

// Outcome records which backend produced the solution and how long it took.
type Outcome struct {
	Solution   *Solution
	SolverUsed string
	SolveTime  time.Duration
}

// Orchestrator tries backends in priority order until one returns a
// definitive status. It never alters the model between attempts.
type Orchestrator struct {
	adapters []Adapter
	log      *logger.Logger
}

func NewOrchestrator(log *logger.Logger, adapters ...Adapter) *Orchestrator {
	return &Orchestrator{adapters: adapters, log: log}
}

// DefaultAdapters is the standard fallback chain: the HiGHS, GLPK and CBC
// command-line solvers if installed, then the embedded simplex, which is
// always available and guarantees the linear variant is solvable.
func DefaultAdapters() []Adapter {
	return []Adapter{
		NewHiGHS(),
		NewGLPK(),
		NewCBC(),
		NewSimplex(),
	}
}

// Solve runs the chain preferred → default order, skipping duplicates,
// unavailable backends, and LP-only backends when the model has integer
// variables. The first optimal, feasible or infeasible answer wins; an
// adapter error advances the chain. An exhausted chain returns an error.
func (o *Orchestrator) Solve(ctx context.Context, m *Model, preferred string, timeLimit time.Duration) (*Outcome, error) {
	var lastErr error

	for _, a := range o.orderedChain(preferred) {
		if !a.Available() {
			o.log.Debugw("solver_skipped_unavailable", "solver", a.Name())
			continue
		}
		if m.HasIntegers() && !a.SupportsIntegers() {
			o.log.Debugw("solver_skipped_lp_only", "solver", a.Name(), "model", m.Name)
			continue
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeLimit)
		start := time.Now()
		sol, err := a.Solve(attemptCtx, m, timeLimit)
		elapsed := time.Since(start)
		cancel()

		if err != nil {
			o.log.Warnw("solver_attempt_failed", "solver", a.Name(), "err", err, "elapsed", elapsed)
			lastErr = fmt.Errorf("%s: %w", a.Name(), err)
			continue
		}

		if !statusDefinitive(sol.Status) {
			o.log.Warnw("solver_nondefinitive_status", "solver", a.Name(), "status", sol.Status)
			lastErr = fmt.Errorf("%s returned status %q", a.Name(), sol.Status)
			continue
		}

		o.log.Infow("solver_finished", "solver", a.Name(), "status", sol.Status, "elapsed", elapsed)
		return &Outcome{Solution: sol, SolverUsed: a.Name(), SolveTime: elapsed}, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("solver chain exhausted: %w", lastErr)
	}
	return nil, fmt.Errorf("solver chain exhausted: %w", ErrUnavailable)
}

// orderedChain moves the preferred backend (by name) to the front without
// duplicating it.
func (o *Orchestrator) orderedChain(preferred string) []Adapter {
	if preferred == "" {
		return o.adapters
	}
	chain := make([]Adapter, 0, len(o.adapters))
	for _, a := range o.adapters {
		if a.Name() == preferred {
			chain = append(chain, a)
		}
	}
	for _, a := range o.adapters {
		if a.Name() != preferred {
			chain = append(chain, a)
		}
	}
	return chain
}

// statusDefinitive reports whether a backend answer ends the chain.
func statusDefinitive(status string) bool {
	switch status {
	case coolingcloud.StatusOptimal, coolingcloud.StatusFeasible, coolingcloud.StatusInfeasible:
		return true
	}
	return false
}
