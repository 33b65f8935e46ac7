package service

import (
	"context"
	"errors"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
	"github.com/srimaansri/cooling-the-cloud/internal/repository"
)

// ErrRunNotFound is returned when a run ID has no persisted record.
var ErrRunNotFound = errors.New("optimization run not found")

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 200
)

type HistoryService struct {
	runs repository.RunRepo
}

func NewHistoryService(runs repository.RunRepo) *HistoryService {
	return &HistoryService{runs: runs}
}

// List returns recent run summaries, newest first, with the limit clamped
// to a sane window.
func (s *HistoryService) List(ctx context.Context, limit int) ([]coolingcloud.RunSummary, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.runs.List(ctx, limit)
}

// Get loads a full run including its hourly plan.
func (s *HistoryService) Get(ctx context.Context, runID string) (*coolingcloud.OptimizationRun, error) {
	run, err := s.runs.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, ErrRunNotFound
	}
	return run, nil
}

// PeriodSummary aggregates successful runs over the trailing N days.
func (s *HistoryService) PeriodSummary(ctx context.Context, days int) (coolingcloud.PeriodSummary, error) {
	return s.runs.PeriodSummary(ctx, days)
}
