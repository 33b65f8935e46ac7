package service

import (
	"context"
	"time"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
	"github.com/srimaansri/cooling-the-cloud/internal/logger"
	"github.com/srimaansri/cooling-the-cloud/internal/repository"
	"github.com/srimaansri/cooling-the-cloud/internal/solver"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Optimization runs a day-ahead solve and persists the outcome.
type Optimization interface {
	Run(ctx context.Context, p OptimizeParams) (*coolingcloud.OptimizationRun, error)
}

// History exposes persisted runs and period aggregates.
type History interface {
	List(ctx context.Context, limit int) ([]coolingcloud.RunSummary, error)
	Get(ctx context.Context, runID string) (*coolingcloud.OptimizationRun, error)
	PeriodSummary(ctx context.Context, days int) (coolingcloud.PeriodSummary, error)
}

// Forecast serves the deterministic demo series without running a solve.
type Forecast interface {
	Day(date string, seed int64) (*DayForecast, error)
}

// Reporter renders a stored run as a plain-text report.
type Reporter interface {
	Text(ctx context.Context, runID string) (string, error)
}

// Scheduler runs the background loop that keeps a fresh plan for the
// current day. Stop via context cancellation in main() for graceful
// shutdown.
type Scheduler interface {
	Run(ctx context.Context, tick time.Duration)
}

// Defaults are the config-file values applied when a request leaves a
// parameter unset. They are injected here so nothing below the handlers
// reads ambient process state.
type Defaults struct {
	Facility        coolingcloud.FacilityConfig
	WaterPrice      float64
	Variant         string
	PreferredSolver string
}

// Service aggregates all sub-services.
type Service struct {
	Optimization
	History
	Forecast
	Reporter
	Scheduler
	Authorization
}

// NewService wires the repository layer, solver orchestrator and defaults
// into concrete services.
func NewService(repos *repository.Repository, orch *solver.Orchestrator, defaults Defaults, signingKey string, log *logger.Logger) *Service {
	opt := NewOptimizeService(repos.Runs, orch, defaults, log)
	return &Service{
		Optimization:  opt,
		History:       NewHistoryService(repos.Runs),
		Forecast:      NewForecastService(defaults),
		Reporter:      NewReportService(repos.Runs),
		Scheduler:     NewSchedulerService(opt, repos.Runs, log),
		Authorization: NewAuthService(repos.Auth, signingKey),
	}
}
