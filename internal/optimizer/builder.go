// Package optimizer builds the day-ahead decision model for a facility with
// deferrable compute load and switchable cooling, and turns solved variable
// values back into an hourly schedule with cost and impact metrics.
package optimizer

import (
	"fmt"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
	"github.com/srimaansri/cooling-the-cloud/internal/solver"
)

// BuildInput is the canonical data a model is constructed from. All series
// are already normalized; the builder performs no I/O and no validation
// beyond variant selection.
type BuildInput struct {
	Temperature coolingcloud.HourlySeries
	Price       coolingcloud.HourlySeries // $/MWh
	CoolingReq  coolingcloud.HourlySeries // MW of heat to reject, per hour
	WaterPrice  float64                   // $ per 1,000 gallons
	Config      coolingcloud.FacilityConfig
	Variant     string
}

// Variable layout within the model: batch_load occupies indices 0-23,
// water_share 24-47, peak_demand is last.
const (
	batchOffset = 0
	shareOffset = coolingcloud.HoursPerDay
	peakIndex   = 2 * coolingcloud.HoursPerDay
	numVars     = peakIndex + 1
)

// Build constructs the decision model for the requested variant.
//
// Both variants share every constraint; they differ only in the domain of
// water_share: binary in the full variant, continuous in [0,1] in the
// linear one. Note that required_flexible_energy_mwh greater than
// 24*flexible_capacity_mw makes the model structurally infeasible; that is
// deliberately left for the solver to report rather than pre-checked here.
func Build(in BuildInput) (*solver.Model, error) {
	if in.Variant != coolingcloud.VariantFull && in.Variant != coolingcloud.VariantLinear {
		return nil, fmt.Errorf("unknown model variant %q", in.Variant)
	}
	cfg := in.Config

	m := &solver.Model{
		Name:      "cooling-the-cloud " + in.Variant,
		Variables: make([]solver.Variable, 0, numVars),
	}

	for t := 0; t < coolingcloud.HoursPerDay; t++ {
		m.Variables = append(m.Variables, solver.Variable{
			Name:  fmt.Sprintf("batch_%d", t),
			Upper: cfg.FlexibleCapacityMW,
		})
	}
	for t := 0; t < coolingcloud.HoursPerDay; t++ {
		m.Variables = append(m.Variables, solver.Variable{
			Name:    fmt.Sprintf("ws_%d", t),
			Upper:   1,
			Integer: in.Variant == coolingcloud.VariantFull,
		})
	}
	// peak_demand never exceeds the facility rating: capacity_t already
	// bounds every hour's total power by TotalCapacityMW.
	m.Variables = append(m.Variables, solver.Variable{
		Name:  "peak_demand",
		Upper: cfg.TotalCapacityMW,
	})

	// cooling_power[t] = kwChiller*req[t] + ws[t]*req[t]*(kwWater-kwChiller);
	// the first part is constant per hour, the second is the water-share term.
	shareCoef := func(t int) float64 {
		return in.CoolingReq[t] * (cfg.WaterKWPerKWCooling - cfg.ChillerKWPerKWCooling)
	}
	chillerPower := func(t int) float64 {
		return cfg.ChillerKWPerKWCooling * in.CoolingReq[t]
	}

	// 1. Energy completion: all deferrable work finishes within the day.
	energy := solver.Constraint{Name: "energy_completion", Sense: solver.EQ, RHS: cfg.RequiredFlexibleMWh}
	for t := 0; t < coolingcloud.HoursPerDay; t++ {
		energy.Terms = append(energy.Terms, solver.Term{Var: batchOffset + t, Coef: 1})
	}
	m.Constraints = append(m.Constraints, energy)

	for t := 0; t < coolingcloud.HoursPerDay; t++ {
		// 2. Capacity: critical + batch + cooling power within the facility cap.
		m.Constraints = append(m.Constraints, solver.Constraint{
			Name: fmt.Sprintf("capacity_%d", t),
			Terms: []solver.Term{
				{Var: batchOffset + t, Coef: 1},
				{Var: shareOffset + t, Coef: shareCoef(t)},
			},
			Sense: solver.LE,
			RHS:   cfg.TotalCapacityMW - cfg.CriticalLoadMW - chillerPower(t),
		})

		// 3. Cooling adequacy: the selected mode mix must reject the hour's heat.
		m.Constraints = append(m.Constraints, solver.Constraint{
			Name: fmt.Sprintf("adequacy_%d", t),
			Terms: []solver.Term{
				{Var: shareOffset + t, Coef: cfg.WaterCoolingCapacityMW - cfg.ChillerCapacityMW},
			},
			Sense: solver.GE,
			RHS:   in.CoolingReq[t] - cfg.ChillerCapacityMW,
		})

		// 6. Peak tracking: peak_demand bounds total power in every hour.
		m.Constraints = append(m.Constraints, solver.Constraint{
			Name: fmt.Sprintf("peak_%d", t),
			Terms: []solver.Term{
				{Var: peakIndex, Coef: 1},
				{Var: batchOffset + t, Coef: -1},
				{Var: shareOffset + t, Coef: -shareCoef(t)},
			},
			Sense: solver.GE,
			RHS:   cfg.CriticalLoadMW + chillerPower(t),
		})
	}

	// 4. Ramp limit on the deferrable load, both directions.
	for t := 1; t < coolingcloud.HoursPerDay; t++ {
		up := solver.Constraint{
			Name: fmt.Sprintf("ramp_up_%d", t),
			Terms: []solver.Term{
				{Var: batchOffset + t, Coef: 1},
				{Var: batchOffset + t - 1, Coef: -1},
			},
			Sense: solver.LE,
			RHS:   cfg.MaxRampMWPerHour,
		}
		down := solver.Constraint{
			Name: fmt.Sprintf("ramp_down_%d", t),
			Terms: []solver.Term{
				{Var: batchOffset + t - 1, Coef: 1},
				{Var: batchOffset + t, Coef: -1},
			},
			Sense: solver.LE,
			RHS:   cfg.MaxRampMWPerHour,
		}
		m.Constraints = append(m.Constraints, up, down)
	}

	// 5. Daily water budget.
	water := solver.Constraint{Name: "water_budget", Sense: solver.LE, RHS: cfg.MaxDailyWaterGallons}
	for t := 0; t < coolingcloud.HoursPerDay; t++ {
		water.Terms = append(water.Terms, solver.Term{
			Var:  shareOffset + t,
			Coef: cfg.GallonsPerMWCooling * in.CoolingReq[t],
		})
	}
	m.Constraints = append(m.Constraints, water)

	// Objective: electricity + water cost, plus the optional demand charge.
	// The always-on part of each hour's power is a constant, folded into
	// ObjectiveConstant so reported objectives are true daily cost.
	for t := 0; t < coolingcloud.HoursPerDay; t++ {
		m.Objective = append(m.Objective,
			solver.Term{Var: batchOffset + t, Coef: in.Price[t]},
			solver.Term{
				Var: shareOffset + t,
				Coef: in.Price[t]*shareCoef(t) +
					in.WaterPrice/1000*cfg.GallonsPerMWCooling*in.CoolingReq[t],
			},
		)
		m.ObjectiveConstant += in.Price[t] * (cfg.CriticalLoadMW + chillerPower(t))
	}
	if cfg.DemandChargePerMW != 0 {
		m.Objective = append(m.Objective, solver.Term{Var: peakIndex, Coef: cfg.DemandChargePerMW})
	}

	return m, nil
}
