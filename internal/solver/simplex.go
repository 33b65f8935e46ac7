package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
)

const (
	intTolerance = 1e-6
	pruneEps     = 1e-9

	// Hard cap on branch-and-bound nodes; the cooling model has at most 24
	// binaries so this is never reached in practice.
	maxNodes = 50000
)

// Simplex is the embedded backend: gonum's dense simplex for linear
// programs, plus bound-driven branch and bound over the integer variables
// for the full variant. It needs no external binaries.
type Simplex struct{}

func NewSimplex() Simplex { return Simplex{} }

func (Simplex) Name() string           { return "simplex" }
func (Simplex) Available() bool        { return true }
func (Simplex) SupportsIntegers() bool { return true }

func (s Simplex) Solve(ctx context.Context, m *Model, _ time.Duration) (*Solution, error) {
	if !m.HasIntegers() {
		vals, obj, err := solveRelaxation(m, nil)
		if errors.Is(err, lp.ErrInfeasible) {
			return &Solution{Status: coolingcloud.StatusInfeasible}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("simplex: %w", err)
		}
		return &Solution{
			Status:    coolingcloud.StatusOptimal,
			Values:    vals,
			Objective: obj + m.ObjectiveConstant,
		}, nil
	}
	return s.branchAndBound(ctx, m)
}

// bounds overrides a variable's box for one branch-and-bound node.
type bounds struct {
	lower, upper float64
}

func (s Simplex) branchAndBound(ctx context.Context, m *Model) (*Solution, error) {
	type node struct {
		fixed map[int]bounds
	}

	var (
		incumbent    []float64
		incumbentObj = math.Inf(1)
		stack        = []node{{fixed: nil}}
		visited      = 0
	)

	finish := func(explored bool) (*Solution, error) {
		if incumbent == nil {
			if explored {
				return &Solution{Status: coolingcloud.StatusInfeasible}, nil
			}
			return nil, ErrTimeout
		}
		status := coolingcloud.StatusFeasible
		if explored {
			status = coolingcloud.StatusOptimal
		}
		return &Solution{
			Status:    status,
			Values:    incumbent,
			Objective: incumbentObj + m.ObjectiveConstant,
		}, nil
	}

	for len(stack) > 0 {
		if ctx.Err() != nil || visited >= maxNodes {
			return finish(false)
		}
		visited++

		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		vals, obj, err := solveRelaxation(m, cur.fixed)
		if errors.Is(err, lp.ErrInfeasible) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("simplex relaxation: %w", err)
		}
		if obj >= incumbentObj-pruneEps {
			continue // cannot beat the incumbent
		}

		branchVar := mostFractional(m, vals)
		if branchVar < 0 {
			incumbent = roundIntegers(m, vals)
			incumbentObj = obj
			continue
		}

		floorVal := math.Floor(vals[branchVar])
		down := cloneBounds(cur.fixed)
		down[branchVar] = bounds{lower: m.Variables[branchVar].Lower, upper: floorVal}
		up := cloneBounds(cur.fixed)
		up[branchVar] = bounds{lower: floorVal + 1, upper: m.Variables[branchVar].Upper}
		stack = append(stack, node{fixed: down}, node{fixed: up})
	}

	return finish(true)
}

// mostFractional picks the integer variable farthest from integrality, or -1
// if the relaxation is already integral.
func mostFractional(m *Model, vals []float64) int {
	best, bestDist := -1, intTolerance
	for i, v := range m.Variables {
		if !v.Integer {
			continue
		}
		_, frac := math.Modf(vals[i])
		dist := math.Min(frac, 1-frac)
		if dist > bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

func roundIntegers(m *Model, vals []float64) []float64 {
	out := append([]float64(nil), vals...)
	for i, v := range m.Variables {
		if v.Integer {
			out[i] = math.Round(out[i])
		}
	}
	return out
}

func cloneBounds(src map[int]bounds) map[int]bounds {
	out := make(map[int]bounds, len(src)+1)
	for k, v := range src {
		out[k] = v
	}
	return out
}

// solveRelaxation solves the model's LP relaxation with optional per-node
// bound overrides. Inequalities and variable boxes are handed to gonum's
// standard-form converter as G x <= h; equality rows go through its
// A x = b arguments directly rather than as opposing inequality pairs,
// which would make the initial basis singular.
func solveRelaxation(m *Model, override map[int]bounds) ([]float64, float64, error) {
	n := len(m.Variables)

	row := func(terms []Term, negate bool) []float64 {
		r := make([]float64, n)
		for _, t := range terms {
			if negate {
				r[t.Var] -= t.Coef
			} else {
				r[t.Var] += t.Coef
			}
		}
		return r
	}

	var ineqRows, eqRows [][]float64
	var ineqRHS, eqRHS []float64
	for _, c := range m.Constraints {
		switch c.Sense {
		case LE:
			ineqRows = append(ineqRows, row(c.Terms, false))
			ineqRHS = append(ineqRHS, c.RHS)
		case GE:
			ineqRows = append(ineqRows, row(c.Terms, true))
			ineqRHS = append(ineqRHS, -c.RHS)
		case EQ:
			eqRows = append(eqRows, row(c.Terms, false))
			eqRHS = append(eqRHS, c.RHS)
		}
	}

	// Convert free-splits every variable, so both sides of each box become
	// rows, the zero lower bounds included.
	for i, v := range m.Variables {
		lo, hi := v.Lower, v.Upper
		if ob, ok := override[i]; ok {
			lo, hi = ob.lower, ob.upper
		}
		if lo > hi {
			return nil, 0, lp.ErrInfeasible
		}
		unit := []Term{{Var: i, Coef: 1}}
		if !math.IsInf(hi, 1) {
			ineqRows = append(ineqRows, row(unit, false))
			ineqRHS = append(ineqRHS, hi)
		}
		ineqRows = append(ineqRows, row(unit, true))
		ineqRHS = append(ineqRHS, -lo)
	}

	g := mat.NewDense(len(ineqRows), n, nil)
	for i, r := range ineqRows {
		g.SetRow(i, r)
	}
	var a mat.Matrix
	if len(eqRows) > 0 {
		eq := mat.NewDense(len(eqRows), n, nil)
		for i, r := range eqRows {
			eq.SetRow(i, r)
		}
		a = eq
	}

	c := make([]float64, n)
	for _, t := range m.Objective {
		c[t.Var] += t.Coef
	}

	cNew, aNew, bNew := lp.Convert(c, g, ineqRHS, a, eqRHS)
	obj, xStd, err := runSimplex(cNew, aNew, bNew)
	if err != nil {
		return nil, 0, err
	}

	// Convert splits each free variable into a positive pair; the original
	// solution is their difference.
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = xStd[i] - xStd[n+i]
	}
	return vals, obj, nil
}

// runSimplex wraps gonum's simplex. It can panic on a degenerate initial
// basis; that must surface as an error so the orchestrator advances the
// chain instead of the process dying.
func runSimplex(c []float64, a mat.Matrix, b []float64) (obj float64, x []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			obj, x = 0, nil
			err = fmt.Errorf("simplex panic: %v", r)
		}
	}()
	return lp.Simplex(c, a, b, 0, nil)
}
