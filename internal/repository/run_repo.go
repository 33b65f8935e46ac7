package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
)

type RunSQLite struct {
	db *sql.DB
}

func NewRunSQLite(db *sql.DB) *RunSQLite {
	return &RunSQLite{db: db}
}

var _ RunRepo = (*RunSQLite)(nil)

const (
	insertRunSQL = `
		INSERT INTO optimization_runs (
			id, run_date, created_at, variant, status, solver, data_source,
			water_price, config, total_cost, baseline_cost, savings_abs,
			savings_pct, peak_demand_mw, water_used_gal, water_saved_gal,
			carbon_avoided_tons, solve_time_s
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	insertHourSQL = `
		INSERT INTO optimization_hours (
			run_id, hour, batch_load_mw, water_share, total_power_mw,
			water_usage_gal, hourly_cost, temperature_f, electricity_price
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectRunSQL = `
		SELECT id, run_date, created_at, variant, status, solver, data_source,
		       water_price, config, total_cost, baseline_cost, savings_abs,
		       savings_pct, peak_demand_mw, water_used_gal, water_saved_gal,
		       carbon_avoided_tons, solve_time_s
		FROM optimization_runs WHERE id = ?
	`

	selectHoursSQL = `
		SELECT hour, batch_load_mw, water_share, total_power_mw,
		       water_usage_gal, hourly_cost, temperature_f, electricity_price
		FROM optimization_hours WHERE run_id = ? ORDER BY hour ASC
	`

	listRunsSQL = `
		SELECT id, run_date, created_at, variant, status, solver,
		       total_cost, baseline_cost, savings_abs, savings_pct,
		       water_used_gal, carbon_avoided_tons
		FROM optimization_runs ORDER BY created_at DESC LIMIT ?
	`

	periodSummarySQL = `
		SELECT COUNT(*),
		       COALESCE(SUM(savings_abs), 0),
		       COALESCE(AVG(savings_abs), 0),
		       COALESCE(AVG(savings_pct), 0),
		       COALESCE(SUM(water_used_gal), 0),
		       COALESCE(SUM(carbon_avoided_tons), 0)
		FROM optimization_runs
		WHERE created_at >= ? AND status IN ('optimal', 'feasible')
	`
)

// Save writes the summary row and, for a feasible plan, the 24 hourly rows
// in one transaction.
func (r *RunSQLite) Save(ctx context.Context, run *coolingcloud.OptimizationRun) error {
	cfgJSON, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	} else {
		createdAt = createdAt.UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res := run.Result
	var peak float64
	if res.Plan != nil {
		peak = res.Plan.PeakDemandMW
	}
	if _, err := tx.ExecContext(ctx, insertRunSQL,
		run.RunID, run.Date, createdAt, run.Variant,
		res.Status, res.SolverUsed, res.DataSource,
		run.WaterPrice, string(cfgJSON),
		res.ObjectiveValue, res.BaselineCost, res.SavingsAbs, res.SavingsPct,
		peak, res.Environmental.WaterUsedGal, res.Environmental.WaterSavedGal,
		res.Environmental.CarbonAvoidedTon, res.SolveTimeS,
	); err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}

	if res.Plan != nil {
		for _, h := range res.Plan.Hours {
			if _, err := tx.ExecContext(ctx, insertHourSQL,
				run.RunID, h.Hour, h.BatchLoadMW, h.WaterShare, h.TotalPowerMW,
				h.WaterUsageGal, h.HourlyCost, h.TemperatureF, h.PricePerMWh,
			); err != nil {
				return fmt.Errorf("insert run %s hour %d: %w", run.RunID, h.Hour, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.RunID, err)
	}
	return nil
}

// Get loads one run with its hourly plan. Returns (nil, nil) if not found.
func (r *RunSQLite) Get(ctx context.Context, runID string) (*coolingcloud.OptimizationRun, error) {
	row := r.db.QueryRowContext(ctx, selectRunSQL, runID)

	var (
		run     coolingcloud.OptimizationRun
		cfgJSON string
		peak    float64
	)
	res := &run.Result
	if err := row.Scan(
		&run.RunID, &run.Date, &run.CreatedAt, &run.Variant,
		&res.Status, &res.SolverUsed, &res.DataSource,
		&run.WaterPrice, &cfgJSON,
		&res.ObjectiveValue, &res.BaselineCost, &res.SavingsAbs, &res.SavingsPct,
		&peak, &res.Environmental.WaterUsedGal, &res.Environmental.WaterSavedGal,
		&res.Environmental.CarbonAvoidedTon, &res.SolveTimeS,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select run %s: %w", runID, err)
	}
	run.CreatedAt = run.CreatedAt.UTC()
	res.Variant = run.Variant
	if err := json.Unmarshal([]byte(cfgJSON), &run.Config); err != nil {
		return nil, fmt.Errorf("unmarshal config for run %s: %w", runID, err)
	}

	if res.Status == coolingcloud.StatusOptimal || res.Status == coolingcloud.StatusFeasible {
		plan := &coolingcloud.DecisionPlan{PeakDemandMW: peak}
		rows, err := r.db.QueryContext(ctx, selectHoursSQL, runID)
		if err != nil {
			return nil, fmt.Errorf("select hours for run %s: %w", runID, err)
		}
		defer rows.Close()

		for rows.Next() {
			var h coolingcloud.HourSlot
			if err := rows.Scan(
				&h.Hour, &h.BatchLoadMW, &h.WaterShare, &h.TotalPowerMW,
				&h.WaterUsageGal, &h.HourlyCost, &h.TemperatureF, &h.PricePerMWh,
			); err != nil {
				return nil, fmt.Errorf("scan hour for run %s: %w", runID, err)
			}
			if h.Hour >= 0 && h.Hour < coolingcloud.HoursPerDay {
				plan.Hours[h.Hour] = h
				run.Temperature[h.Hour] = h.TemperatureF
				run.Price[h.Hour] = h.PricePerMWh
			}
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate hours for run %s: %w", runID, err)
		}
		res.Plan = plan
	}

	return &run, nil
}

// List returns the most recent run summaries, newest first.
func (r *RunSQLite) List(ctx context.Context, limit int) ([]coolingcloud.RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, listRunsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := make([]coolingcloud.RunSummary, 0, limit)
	for rows.Next() {
		var s coolingcloud.RunSummary
		if err := rows.Scan(
			&s.RunID, &s.Date, &s.CreatedAt, &s.Variant, &s.Status, &s.SolverUsed,
			&s.TotalCost, &s.BaselineCost, &s.SavingsAbs, &s.SavingsPct,
			&s.WaterUsedGal, &s.CarbonTons,
		); err != nil {
			return nil, fmt.Errorf("scan run summary: %w", err)
		}
		s.CreatedAt = s.CreatedAt.UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// PeriodSummary aggregates successful runs over the trailing window.
func (r *RunSQLite) PeriodSummary(ctx context.Context, days int) (coolingcloud.PeriodSummary, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	s := coolingcloud.PeriodSummary{Days: days}
	err := r.db.QueryRowContext(ctx, periodSummarySQL, since).Scan(
		&s.Runs, &s.TotalSavings, &s.AvgDailySavings, &s.AvgSavingsPct,
		&s.TotalWaterGal, &s.TotalCarbonTons,
	)
	if err != nil {
		return coolingcloud.PeriodSummary{}, fmt.Errorf("period summary: %w", err)
	}
	return s, nil
}
