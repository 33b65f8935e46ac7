package optimizer

import (
	"math"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
	"github.com/srimaansri/cooling-the-cloud/internal/solver"
)

// Grid emissions intensity used for the carbon-avoided estimate, short tons
// CO2 per MWh (Arizona grid mix, ~0.82 lbs/kWh).
const gridEmissionsTonsPerMWh = 0.372

// schedule is a fully evaluated operating plan: any assignment of batch
// load and water share, costed with the same formulas the model uses. The
// optimized plan and the baseline both go through it, which is what makes
// savings comparisons valid.
type schedule struct {
	plan      coolingcloud.DecisionPlan
	totalCost float64
	energyMWh float64
	waterGal  float64
}

// evaluate recomputes power, water and cost for the given hourly decisions
// from first principles rather than trusting solver outputs verbatim.
func evaluate(in BuildInput, batch, share coolingcloud.HourlySeries) schedule {
	cfg := in.Config
	var s schedule

	for t := 0; t < coolingcloud.HoursPerDay; t++ {
		coolingPower := in.CoolingReq[t] *
			(share[t]*cfg.WaterKWPerKWCooling + (1-share[t])*cfg.ChillerKWPerKWCooling)
		power := cfg.CriticalLoadMW + batch[t] + coolingPower
		water := share[t] * cfg.GallonsPerMWCooling * in.CoolingReq[t]
		cost := in.Price[t]*power + in.WaterPrice/1000*water

		s.plan.Hours[t] = coolingcloud.HourSlot{
			Hour:          t,
			BatchLoadMW:   batch[t],
			WaterShare:    share[t],
			TotalPowerMW:  power,
			WaterUsageGal: water,
			HourlyCost:    cost,
			TemperatureF:  in.Temperature[t],
			PricePerMWh:   in.Price[t],
		}
		if power > s.plan.PeakDemandMW {
			s.plan.PeakDemandMW = power
		}
		s.totalCost += cost
		s.energyMWh += power
		s.waterGal += water
	}

	s.totalCost += cfg.DemandChargePerMW * s.plan.PeakDemandMW
	return s
}

// Baseline is a named reference-schedule policy. Swappable so deployments
// with historical operations data can quantify savings against what the
// facility actually did rather than a synthetic schedule.
type Baseline func(in BuildInput) schedule

// EvenSpreadChillerBaseline is the default reference: deferrable load spread
// evenly across all 24 hours, cooling always on the chiller.
func EvenSpreadChillerBaseline(in BuildInput) schedule {
	var batch, share coolingcloud.HourlySeries
	even := in.Config.RequiredFlexibleMWh / coolingcloud.HoursPerDay
	for t := range batch {
		batch[t] = even
	}
	return evaluate(in, batch, share)
}

// Extract derives the structured result from a solved-variable snapshot.
// Hourly costs and water usage are recomputed with the builder's formulas;
// savings and environmental metrics are measured against the baseline
// evaluated on the identical series.
func Extract(sol *solver.Solution, in BuildInput, baseline Baseline) *coolingcloud.OptimizationResult {
	if baseline == nil {
		baseline = EvenSpreadChillerBaseline
	}
	base := baseline(in)

	res := &coolingcloud.OptimizationResult{
		Status:       sol.Status,
		Variant:      in.Variant,
		BaselineCost: base.totalCost,
	}
	if sol.Status != coolingcloud.StatusOptimal && sol.Status != coolingcloud.StatusFeasible {
		return res
	}

	var batch, share coolingcloud.HourlySeries
	for t := 0; t < coolingcloud.HoursPerDay; t++ {
		batch[t] = math.Max(0, sol.Values[batchOffset+t])
		share[t] = clampShare(sol.Values[shareOffset+t])
	}
	opt := evaluate(in, batch, share)

	res.Plan = &opt.plan
	res.ObjectiveValue = opt.totalCost
	res.SavingsAbs = base.totalCost - opt.totalCost
	if base.totalCost != 0 {
		res.SavingsPct = res.SavingsAbs / base.totalCost * 100
	}
	res.Environmental = coolingcloud.Environmental{
		WaterUsedGal:     opt.waterGal,
		WaterSavedGal:    base.waterGal - opt.waterGal,
		CarbonAvoidedTon: gridEmissionsTonsPerMWh * (base.energyMWh - opt.energyMWh),
		PeakReductionMW:  base.plan.PeakDemandMW - opt.plan.PeakDemandMW,
	}
	return res
}

// clampShare squeezes solver noise out of the water-share value and snaps
// near-integral values, so full-variant plans report exact 0/1 modes.
func clampShare(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	if v < 1e-6 {
		return 0
	}
	if v > 1-1e-6 {
		return 1
	}
	return v
}
