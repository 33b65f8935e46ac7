package service

import (
	"context"
	"fmt"
	"strings"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
	"github.com/srimaansri/cooling-the-cloud/internal/repository"
)

type ReportService struct {
	runs repository.RunRepo
}

func NewReportService(runs repository.RunRepo) *ReportService {
	return &ReportService{runs: runs}
}

// Text renders a stored run as a plain-text operator report.
func (s *ReportService) Text(ctx context.Context, runID string) (string, error) {
	run, err := s.runs.Get(ctx, runID)
	if err != nil {
		return "", err
	}
	if run == nil {
		return "", ErrRunNotFound
	}

	res := run.Result
	var b strings.Builder

	fmt.Fprintf(&b, "DATA CENTER OPTIMIZATION RESULTS\n")
	fmt.Fprintf(&b, "================================\n\n")
	fmt.Fprintf(&b, "Run:     %s\n", run.RunID)
	fmt.Fprintf(&b, "Date:    %s\n", run.Date)
	fmt.Fprintf(&b, "Variant: %s\n", run.Variant)
	fmt.Fprintf(&b, "Status:  %s\n", res.Status)
	if res.SolverUsed != "" {
		fmt.Fprintf(&b, "Solver:  %s (%.2fs)\n", res.SolverUsed, res.SolveTimeS)
	}
	fmt.Fprintf(&b, "Inputs:  %s\n\n", res.DataSource)

	if res.Plan == nil {
		fmt.Fprintf(&b, "No feasible plan was produced.\n")
		if res.Error != "" {
			fmt.Fprintf(&b, "Error: %s\n", res.Error)
		}
		return b.String(), nil
	}

	fmt.Fprintf(&b, "COST SUMMARY\n")
	fmt.Fprintf(&b, "------------\n")
	fmt.Fprintf(&b, "Total Daily Cost:   $%s\n", thousands(res.ObjectiveValue))
	fmt.Fprintf(&b, "Baseline Cost:      $%s\n\n", thousands(res.BaselineCost))

	fmt.Fprintf(&b, "SAVINGS ACHIEVED\n")
	fmt.Fprintf(&b, "----------------\n")
	fmt.Fprintf(&b, "Daily Savings:      $%s\n", thousands(res.SavingsAbs))
	fmt.Fprintf(&b, "Annual Savings:     $%s\n", thousands(res.SavingsAbs*365))
	fmt.Fprintf(&b, "Percentage Saved:   %.1f%%\n\n", res.SavingsPct)

	env := res.Environmental
	fmt.Fprintf(&b, "ENVIRONMENTAL IMPACT\n")
	fmt.Fprintf(&b, "--------------------\n")
	fmt.Fprintf(&b, "Water Used:         %s gallons\n", thousands0(env.WaterUsedGal))
	fmt.Fprintf(&b, "Water Saved:        %s gallons\n", thousands0(env.WaterSavedGal))
	fmt.Fprintf(&b, "Peak Reduction:     %.1f MW\n", env.PeakReductionMW)
	fmt.Fprintf(&b, "Carbon Avoided:     %.2f tons CO2/day\n\n", env.CarbonAvoidedTon)

	fmt.Fprintf(&b, "OPERATIONAL METRICS\n")
	fmt.Fprintf(&b, "-------------------\n")
	fmt.Fprintf(&b, "Peak Demand:        %.1f MW\n", res.Plan.PeakDemandMW)
	fmt.Fprintf(&b, "Batch Energy:       %.1f MWh\n", res.Plan.TotalBatchMWh())
	fmt.Fprintf(&b, "Load Factor:        %.1f%%\n\n", loadFactor(res.Plan))

	fmt.Fprintf(&b, "HOURLY SCHEDULE\n")
	fmt.Fprintf(&b, "---------------\n")
	fmt.Fprintf(&b, "Hour  Batch MW  Water Share  Total MW  Water gal     $/hour\n")
	for _, h := range res.Plan.Hours {
		fmt.Fprintf(&b, "%4d  %8.2f  %11.2f  %8.2f  %9.0f  %9.2f\n",
			h.Hour, h.BatchLoadMW, h.WaterShare, h.TotalPowerMW, h.WaterUsageGal, h.HourlyCost)
	}

	return b.String(), nil
}

// loadFactor is the ratio of mean to peak batch load, in percent.
func loadFactor(p *coolingcloud.DecisionPlan) float64 {
	peak := 0.0
	total := 0.0
	for _, h := range p.Hours {
		total += h.BatchLoadMW
		if h.BatchLoadMW > peak {
			peak = h.BatchLoadMW
		}
	}
	if peak <= 0 {
		return 0
	}
	return total / coolingcloud.HoursPerDay / peak * 100
}

// thousands formats a dollar amount with comma grouping and two decimals.
func thousands(v float64) string {
	return group(fmt.Sprintf("%.2f", v))
}

func thousands0(v float64) string {
	return group(fmt.Sprintf("%.0f", v))
}

func group(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
