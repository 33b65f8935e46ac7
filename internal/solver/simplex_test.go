package solver

import (
	"context"
	"math"
	"testing"
	"time"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestSimplex_SolvesLP(t *testing.T) {
	t.Parallel()

	// min x + 2y  s.t.  x + y >= 3,  x <= 2,  y <= 5
	// optimum at x=2, y=1, objective 4.
	m := &Model{
		Name: "lp",
		Variables: []Variable{
			{Name: "x", Upper: 2},
			{Name: "y", Upper: 5},
		},
		Constraints: []Constraint{
			{Name: "cover", Terms: []Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 1}}, Sense: GE, RHS: 3},
		},
		Objective: []Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 2}},
	}

	sol, err := NewSimplex().Solve(context.Background(), m, time.Minute)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Status != coolingcloud.StatusOptimal {
		t.Fatalf("status = %q", sol.Status)
	}
	if !almostEqual(sol.Values[0], 2) || !almostEqual(sol.Values[1], 1) {
		t.Fatalf("values = %v", sol.Values)
	}
	if !almostEqual(sol.Objective, 4) {
		t.Fatalf("objective = %v", sol.Objective)
	}
}

func TestSimplex_AddsObjectiveConstant(t *testing.T) {
	t.Parallel()

	m := &Model{
		Name:      "lp-const",
		Variables: []Variable{{Name: "x", Upper: 10}},
		Constraints: []Constraint{
			{Name: "floor", Terms: []Term{{Var: 0, Coef: 1}}, Sense: GE, RHS: 4},
		},
		Objective:         []Term{{Var: 0, Coef: 1}},
		ObjectiveConstant: 100,
	}

	sol, err := NewSimplex().Solve(context.Background(), m, time.Minute)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !almostEqual(sol.Objective, 104) {
		t.Fatalf("objective = %v, want constant included", sol.Objective)
	}
}

func TestSimplex_EqualityConstraint(t *testing.T) {
	t.Parallel()

	// min 2x + y  s.t.  x + y == 6, each in [0, 5] → x=1, y=5, obj 7.
	m := &Model{
		Name: "lp-eq",
		Variables: []Variable{
			{Name: "x", Upper: 5},
			{Name: "y", Upper: 5},
		},
		Constraints: []Constraint{
			{Name: "total", Terms: []Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 1}}, Sense: EQ, RHS: 6},
		},
		Objective: []Term{{Var: 0, Coef: 2}, {Var: 1, Coef: 1}},
	}

	sol, err := NewSimplex().Solve(context.Background(), m, time.Minute)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Status != coolingcloud.StatusOptimal {
		t.Fatalf("status = %q", sol.Status)
	}
	if !almostEqual(sol.Values[0]+sol.Values[1], 6) {
		t.Fatalf("equality violated: %v", sol.Values)
	}
	if !almostEqual(sol.Objective, 7) {
		t.Fatalf("objective = %v", sol.Objective)
	}
}

func TestSimplex_ReportsInfeasible(t *testing.T) {
	t.Parallel()

	m := &Model{
		Name:      "lp-infeasible",
		Variables: []Variable{{Name: "x", Upper: 2}},
		Constraints: []Constraint{
			{Name: "impossible", Terms: []Term{{Var: 0, Coef: 1}}, Sense: GE, RHS: 5},
		},
		Objective: []Term{{Var: 0, Coef: 1}},
	}

	sol, err := NewSimplex().Solve(context.Background(), m, time.Minute)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Status != coolingcloud.StatusInfeasible {
		t.Fatalf("status = %q, want infeasible", sol.Status)
	}
}

func TestSimplex_BranchAndBound(t *testing.T) {
	t.Parallel()

	// max x + y over integers with x + y <= 3.5 → min -(x+y); the LP
	// relaxation lands on 3.5, so integrality requires actual branching.
	// Best integral point: x=2, y=1 (or x=1... any split summing to 3).
	m := &Model{
		Name: "mip",
		Variables: []Variable{
			{Name: "x", Upper: 2, Integer: true},
			{Name: "y", Upper: 3, Integer: true},
		},
		Constraints: []Constraint{
			{Name: "budget", Terms: []Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 1}}, Sense: LE, RHS: 3.5},
		},
		Objective: []Term{{Var: 0, Coef: -1}, {Var: 1, Coef: -1}},
	}

	sol, err := NewSimplex().Solve(context.Background(), m, time.Minute)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Status != coolingcloud.StatusOptimal {
		t.Fatalf("status = %q", sol.Status)
	}
	if !almostEqual(sol.Objective, -3) {
		t.Fatalf("objective = %v, want -3", sol.Objective)
	}
	for i, v := range sol.Values {
		if !almostEqual(v, math.Round(v)) {
			t.Fatalf("variable %d not integral: %v", i, v)
		}
	}
}

func TestSimplex_BinaryChoice(t *testing.T) {
	t.Parallel()

	// Two binary switches, at least one on, the cheap one should win.
	m := &Model{
		Name: "mip-binary",
		Variables: []Variable{
			{Name: "a", Upper: 1, Integer: true},
			{Name: "b", Upper: 1, Integer: true},
		},
		Constraints: []Constraint{
			{Name: "one_on", Terms: []Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 1}}, Sense: GE, RHS: 1},
		},
		Objective: []Term{{Var: 0, Coef: 10}, {Var: 1, Coef: 3}},
	}

	sol, err := NewSimplex().Solve(context.Background(), m, time.Minute)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !almostEqual(sol.Values[0], 0) || !almostEqual(sol.Values[1], 1) {
		t.Fatalf("values = %v, want b chosen", sol.Values)
	}
	if !almostEqual(sol.Objective, 3) {
		t.Fatalf("objective = %v", sol.Objective)
	}
}

func TestSimplex_MIPInfeasible(t *testing.T) {
	t.Parallel()

	// Integer x in [0,1] with 0.2 <= x <= 0.8 has no integral point.
	m := &Model{
		Name:      "mip-infeasible",
		Variables: []Variable{{Name: "x", Upper: 1, Integer: true}},
		Constraints: []Constraint{
			{Name: "lo", Terms: []Term{{Var: 0, Coef: 1}}, Sense: GE, RHS: 0.2},
			{Name: "hi", Terms: []Term{{Var: 0, Coef: 1}}, Sense: LE, RHS: 0.8},
		},
		Objective: []Term{{Var: 0, Coef: 1}},
	}

	sol, err := NewSimplex().Solve(context.Background(), m, time.Minute)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Status != coolingcloud.StatusInfeasible {
		t.Fatalf("status = %q, want infeasible", sol.Status)
	}
}

// dayModel mirrors the shape the model builder emits for one planning day:
// 24 hourly load variables, 24 cooling-share variables, a peak tracker, and
// the energy/capacity/adequacy/peak/ramp/water constraint families — 49
// variables and 120 rows. Toy LPs miss the degenerate bases this size hits.
func dayModel(binary bool, demandCharge float64) *Model {
	const (
		hours       = coolingcloud.HoursPerDay
		total       = 200.0
		critical    = 30.0
		flexCap     = 20.0
		required    = 100.0
		coolingReq  = 16.0
		kwWater     = 0.5
		kwChiller   = 1.2
		galPerMW    = 1500.0
		waterBudget = 400000.0
		ramp        = 20.0
		waterPrice  = 3.24
		offPeak     = 30.0
		onPeak      = 150.0
	)
	price := func(h int) float64 {
		if h >= 8 && h <= 19 {
			return onPeak
		}
		return offPeak
	}

	shareCoef := coolingReq * (kwWater - kwChiller)
	chillerPower := kwChiller * coolingReq
	peakIdx := 2 * hours

	m := &Model{Name: "day-schedule"}
	for h := 0; h < hours; h++ {
		m.Variables = append(m.Variables, Variable{Name: "batch", Upper: flexCap})
	}
	for h := 0; h < hours; h++ {
		m.Variables = append(m.Variables, Variable{Name: "ws", Upper: 1, Integer: binary})
	}
	m.Variables = append(m.Variables, Variable{Name: "peak", Upper: total})

	energy := Constraint{Name: "energy", Sense: EQ, RHS: required}
	for h := 0; h < hours; h++ {
		energy.Terms = append(energy.Terms, Term{Var: h, Coef: 1})
	}
	m.Constraints = append(m.Constraints, energy)

	for h := 0; h < hours; h++ {
		m.Constraints = append(m.Constraints,
			Constraint{
				Name:  "capacity",
				Terms: []Term{{Var: h, Coef: 1}, {Var: hours + h, Coef: shareCoef}},
				Sense: LE,
				RHS:   total - critical - chillerPower,
			},
			Constraint{
				Name:  "adequacy",
				Terms: []Term{{Var: hours + h, Coef: 3}},
				Sense: GE,
				RHS:   coolingReq - 22,
			},
			Constraint{
				Name:  "peak",
				Terms: []Term{{Var: peakIdx, Coef: 1}, {Var: h, Coef: -1}, {Var: hours + h, Coef: -shareCoef}},
				Sense: GE,
				RHS:   critical + chillerPower,
			},
		)
	}
	for h := 1; h < hours; h++ {
		m.Constraints = append(m.Constraints,
			Constraint{
				Name:  "ramp_up",
				Terms: []Term{{Var: h, Coef: 1}, {Var: h - 1, Coef: -1}},
				Sense: LE,
				RHS:   ramp,
			},
			Constraint{
				Name:  "ramp_down",
				Terms: []Term{{Var: h - 1, Coef: 1}, {Var: h, Coef: -1}},
				Sense: LE,
				RHS:   ramp,
			},
		)
	}
	water := Constraint{Name: "water", Sense: LE, RHS: waterBudget}
	for h := 0; h < hours; h++ {
		water.Terms = append(water.Terms, Term{Var: hours + h, Coef: galPerMW * coolingReq})
	}
	m.Constraints = append(m.Constraints, water)

	for h := 0; h < hours; h++ {
		m.Objective = append(m.Objective,
			Term{Var: h, Coef: price(h)},
			Term{Var: hours + h, Coef: price(h)*shareCoef + waterPrice/1000*galPerMW*coolingReq},
		)
		m.ObjectiveConstant += price(h) * (critical + chillerPower)
	}
	if demandCharge != 0 {
		m.Objective = append(m.Objective, Term{Var: peakIdx, Coef: demandCharge})
	}
	return m
}

func checkDaySolution(t *testing.T, sol *Solution) {
	t.Helper()

	const eps = 1e-6
	peakIdx := 2 * coolingcloud.HoursPerDay

	batchSum, waterSum := 0.0, 0.0
	for h := 0; h < coolingcloud.HoursPerDay; h++ {
		b, ws := sol.Values[h], sol.Values[coolingcloud.HoursPerDay+h]
		if b < -eps || b > 20+eps {
			t.Fatalf("hour %d batch %v out of bounds", h, b)
		}
		if ws < -eps || ws > 1+eps {
			t.Fatalf("hour %d share %v out of bounds", h, ws)
		}
		batchSum += b
		waterSum += 1500 * 16 * ws

		total := 30 + 1.2*16 + b + ws*16*(0.5-1.2)
		if sol.Values[peakIdx] < total-eps {
			t.Fatalf("hour %d total %v exceeds tracked peak %v", h, total, sol.Values[peakIdx])
		}
	}
	if math.Abs(batchSum-100) > eps {
		t.Fatalf("scheduled energy = %v, want 100", batchSum)
	}
	if waterSum > 400000+eps {
		t.Fatalf("water use %v exceeds budget", waterSum)
	}
	if sol.Values[peakIdx] > 200+eps {
		t.Fatalf("peak %v exceeds facility rating", sol.Values[peakIdx])
	}
}

func TestSimplex_FullDayCoolingModel(t *testing.T) {
	t.Parallel()

	// The LP relaxation with no demand charge leaves the peak tracker with a
	// zero objective coefficient; it must still solve, not report unbounded.
	t.Run("linear, zero-cost peak", func(t *testing.T) {
		m := dayModel(false, 0)
		sol, err := NewSimplex().Solve(context.Background(), m, time.Minute)
		if err != nil {
			t.Fatalf("Solve: %v", err)
		}
		if sol.Status != coolingcloud.StatusOptimal {
			t.Fatalf("status = %q", sol.Status)
		}
		checkDaySolution(t, sol)

		// All deferrable energy fits in the twelve off-peak hours.
		cheap := 0.0
		for h := 0; h < coolingcloud.HoursPerDay; h++ {
			if h < 8 || h > 19 {
				cheap += sol.Values[h]
			}
		}
		if math.Abs(cheap-100) > 1e-6 {
			t.Fatalf("off-peak batch = %v, want all 100 MWh off-peak", cheap)
		}
	})

	t.Run("binary shares, demand charge", func(t *testing.T) {
		m := dayModel(true, 450)
		sol, err := NewSimplex().Solve(context.Background(), m, time.Minute)
		if err != nil {
			t.Fatalf("Solve: %v", err)
		}
		if sol.Status != coolingcloud.StatusOptimal {
			t.Fatalf("status = %q", sol.Status)
		}
		checkDaySolution(t, sol)

		for h := 0; h < coolingcloud.HoursPerDay; h++ {
			ws := sol.Values[coolingcloud.HoursPerDay+h]
			if !almostEqual(ws, 0) && !almostEqual(ws, 1) {
				t.Fatalf("hour %d share %v not binary", h, ws)
			}
		}
	})
}

func TestSimplex_CanceledContextWithoutIncumbent(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &Model{
		Name:      "mip-canceled",
		Variables: []Variable{{Name: "x", Upper: 1, Integer: true}},
		Constraints: []Constraint{
			{Name: "lo", Terms: []Term{{Var: 0, Coef: 1}}, Sense: GE, RHS: 0.5},
		},
		Objective: []Term{{Var: 0, Coef: 1}},
	}

	_, err := NewSimplex().Solve(ctx, m, time.Minute)
	if err != ErrTimeout {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}
