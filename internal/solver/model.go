// Package solver holds the mathematical-program description produced by the
// model builder and the backends that solve it. Backends are polymorphic
// adapters tried in a fixed priority order; the embedded simplex adapter is
// always available, so the linear model variant can always be solved.
package solver

import "math"

// Constraint senses.
type Sense int

const (
	LE Sense = iota // left-hand side <= rhs
	GE              // left-hand side >= rhs
	EQ              // left-hand side == rhs
)

func (s Sense) String() string {
	switch s {
	case LE:
		return "<="
	case GE:
		return ">="
	default:
		return "="
	}
}

// Variable is one decision variable. A nil upper bound is expressed as +Inf.
type Variable struct {
	Name    string
	Lower   float64
	Upper   float64
	Integer bool
}

// Term is a coefficient on a variable, referenced by index into
// Model.Variables.
type Term struct {
	Var  int
	Coef float64
}

// Constraint is a single linear constraint over the model's variables.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Model is an immutable description of a linear or mixed-integer program,
// always in minimization sense. ObjectiveConstant carries the fixed part of
// the cost (always-on load) so reported objectives are true daily cost.
type Model struct {
	Name              string
	Variables         []Variable
	Constraints       []Constraint
	Objective         []Term
	ObjectiveConstant float64
}

// HasIntegers reports whether any variable carries an integrality
// restriction, i.e. whether an LP-only backend must be skipped.
func (m *Model) HasIntegers() bool {
	for _, v := range m.Variables {
		if v.Integer {
			return true
		}
	}
	return false
}

// Unbounded returns +Inf for use as a variable upper bound.
func Unbounded() float64 { return math.Inf(1) }

// Solution is the solved-variable snapshot a backend returns. Values are
// indexed like Model.Variables. Objective includes the model's constant.
type Solution struct {
	Status    string // coolingcloud.StatusOptimal | StatusFeasible | StatusInfeasible
	Values    []float64
	Objective float64
}
