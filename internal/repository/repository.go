package repository

import (
	"context"
	"database/sql"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
	"github.com/srimaansri/cooling-the-cloud/internal/repository/db"
)

// InitDB opens the SQLite file and applies the schema.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*coolingcloud.User, error)
}

// RunRepo persists optimization runs: the summary row plus the 24 hourly
// schedule rows of a feasible plan.
type RunRepo interface {
	Save(ctx context.Context, run *coolingcloud.OptimizationRun) error
	Get(ctx context.Context, runID string) (*coolingcloud.OptimizationRun, error)
	List(ctx context.Context, limit int) ([]coolingcloud.RunSummary, error)
	PeriodSummary(ctx context.Context, days int) (coolingcloud.PeriodSummary, error)
}

type Repository struct {
	Runs RunRepo
	Auth Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Runs: NewRunSQLite(db),
		Auth: NewUserRepository(db),
	}
}
