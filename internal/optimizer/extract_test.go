package optimizer

import (
	"math"
	"testing"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
	"github.com/srimaansri/cooling-the-cloud/internal/solver"
)

func TestEvaluate_RecomputesFromFirstPrinciples(t *testing.T) {
	t.Parallel()

	in := testInput(coolingcloud.VariantLinear)
	in.Config.DemandChargePerMW = 100

	var batch, share coolingcloud.HourlySeries
	batch[0] = 10
	share[0] = 1

	s := evaluate(in, batch, share)

	// Hour 0: water cooled, 10 MW batch.
	coolingPower := 16.0 * 0.5
	power := 30.0 + 10.0 + coolingPower
	water := 1500.0 * 16.0
	cost := 50.0*power + 3.24/1000*water

	h := s.plan.Hours[0]
	if math.Abs(h.TotalPowerMW-power) > 1e-9 {
		t.Fatalf("power = %v, want %v", h.TotalPowerMW, power)
	}
	if math.Abs(h.WaterUsageGal-water) > 1e-9 {
		t.Fatalf("water = %v, want %v", h.WaterUsageGal, water)
	}
	if math.Abs(h.HourlyCost-cost) > 1e-9 {
		t.Fatalf("cost = %v, want %v", h.HourlyCost, cost)
	}

	// Hour 1: all chiller, no batch.
	h1 := s.plan.Hours[1]
	if math.Abs(h1.TotalPowerMW-(30.0+1.2*16.0)) > 1e-9 {
		t.Fatalf("chiller-hour power = %v", h1.TotalPowerMW)
	}
	if h1.WaterUsageGal != 0 {
		t.Fatalf("chiller hour used water: %v", h1.WaterUsageGal)
	}

	// Peak is hour 0 and the demand charge lands on the total.
	if math.Abs(s.plan.PeakDemandMW-power) > 1e-9 {
		t.Fatalf("peak = %v", s.plan.PeakDemandMW)
	}
	sumHourly := 0.0
	for _, hr := range s.plan.Hours {
		sumHourly += hr.HourlyCost
	}
	if math.Abs(s.totalCost-(sumHourly+100*power)) > 1e-6 {
		t.Fatalf("total cost %v missing demand charge", s.totalCost)
	}
}

func TestEvenSpreadChillerBaseline(t *testing.T) {
	t.Parallel()

	in := testInput(coolingcloud.VariantLinear)
	base := EvenSpreadChillerBaseline(in)

	even := in.Config.RequiredFlexibleMWh / coolingcloud.HoursPerDay
	for tt, h := range base.plan.Hours {
		if math.Abs(h.BatchLoadMW-even) > 1e-9 {
			t.Fatalf("hour %d batch = %v, want even spread %v", tt, h.BatchLoadMW, even)
		}
		if h.WaterShare != 0 {
			t.Fatalf("baseline must be all-chiller, hour %d share = %v", tt, h.WaterShare)
		}
	}
	if base.waterGal != 0 {
		t.Fatalf("baseline water = %v", base.waterGal)
	}
	if math.Abs(base.plan.TotalBatchMWh()-in.Config.RequiredFlexibleMWh) > 1e-6 {
		t.Fatalf("baseline energy = %v", base.plan.TotalBatchMWh())
	}
}

func TestExtract_FeasibleSolution(t *testing.T) {
	t.Parallel()

	in := testInput(coolingcloud.VariantLinear)

	vals := make([]float64, numVars)
	even := in.Config.RequiredFlexibleMWh / coolingcloud.HoursPerDay
	for tt := 0; tt < coolingcloud.HoursPerDay; tt++ {
		vals[batchOffset+tt] = even
		vals[shareOffset+tt] = 1 // all water: cheaper cooling power than the chiller baseline
	}
	vals[peakIndex] = 999 // deliberately wrong; Extract must recompute

	sol := &solver.Solution{Status: coolingcloud.StatusOptimal, Values: vals, Objective: -1}
	res := Extract(sol, in, nil)

	if res.Status != coolingcloud.StatusOptimal || res.Plan == nil {
		t.Fatalf("result = %+v", res)
	}

	wantPeak := 30.0 + even + 0.5*16.0
	if math.Abs(res.Plan.PeakDemandMW-wantPeak) > 1e-9 {
		t.Fatalf("peak = %v, want recomputed %v", res.Plan.PeakDemandMW, wantPeak)
	}
	if res.ObjectiveValue <= 0 {
		t.Fatalf("objective must be recomputed, got %v", res.ObjectiveValue)
	}

	// Water cooling draws less power, so the optimized cost beats the
	// all-chiller baseline unless water is expensive; at $3.24 it is not.
	if res.SavingsAbs <= 0 || res.BaselineCost <= res.ObjectiveValue {
		t.Fatalf("savings = %v baseline = %v optimized = %v",
			res.SavingsAbs, res.BaselineCost, res.ObjectiveValue)
	}
	if math.Abs(res.SavingsPct-res.SavingsAbs/res.BaselineCost*100) > 1e-9 {
		t.Fatalf("savings pct inconsistent")
	}

	env := res.Environmental
	if env.WaterUsedGal <= 0 || env.WaterSavedGal != -env.WaterUsedGal {
		t.Fatalf("water metrics = %+v (baseline uses none)", env)
	}
	if env.CarbonAvoidedTon <= 0 {
		t.Fatalf("water cooling saves energy, carbon = %v", env.CarbonAvoidedTon)
	}
}

func TestExtract_InfeasibleHasNoPlan(t *testing.T) {
	t.Parallel()

	in := testInput(coolingcloud.VariantFull)
	sol := &solver.Solution{Status: coolingcloud.StatusInfeasible}

	res := Extract(sol, in, nil)
	if res.Status != coolingcloud.StatusInfeasible || res.Plan != nil {
		t.Fatalf("result = %+v", res)
	}
	if res.BaselineCost <= 0 {
		t.Fatalf("baseline cost should still be reported: %v", res.BaselineCost)
	}
}

func TestExtract_CustomBaseline(t *testing.T) {
	t.Parallel()

	in := testInput(coolingcloud.VariantLinear)

	called := false
	custom := func(bi BuildInput) schedule {
		called = true
		return EvenSpreadChillerBaseline(bi)
	}

	Extract(&solver.Solution{Status: coolingcloud.StatusInfeasible}, in, custom)
	if !called {
		t.Fatalf("custom baseline not used")
	}
}

func TestClampShare(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want float64 }{
		{-0.1, 0},
		{1e-9, 0},
		{0.5, 0.5},
		{1 - 1e-9, 1},
		{1.2, 1},
	}
	for _, tc := range cases {
		if got := clampShare(tc.in); got != tc.want {
			t.Fatalf("clampShare(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
