package solver

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// WriteLP renders the model in CPLEX LP format, the one input format the
// HiGHS, GLPK and CBC command-line solvers all read. The objective constant
// is written into the objective row so every backend reports true cost.
func WriteLP(w io.Writer, m *Model) error {
	var b strings.Builder

	b.WriteString("\\ ")
	b.WriteString(m.Name)
	b.WriteString("\nMinimize\n obj:")
	writeTerms(&b, m.Objective, m.Variables)
	if m.ObjectiveConstant != 0 {
		writeSigned(&b, m.ObjectiveConstant)
	}
	b.WriteString("\nSubject To\n")

	for _, c := range m.Constraints {
		b.WriteString(" ")
		b.WriteString(c.Name)
		b.WriteString(":")
		writeTerms(&b, c.Terms, m.Variables)
		fmt.Fprintf(&b, " %s %s\n", c.Sense, formatNum(c.RHS))
	}

	b.WriteString("Bounds\n")
	for _, v := range m.Variables {
		switch {
		case math.IsInf(v.Upper, 1):
			fmt.Fprintf(&b, " %s >= %s\n", v.Name, formatNum(v.Lower))
		default:
			fmt.Fprintf(&b, " %s <= %s <= %s\n", formatNum(v.Lower), v.Name, formatNum(v.Upper))
		}
	}

	var binaries, generals []string
	for _, v := range m.Variables {
		if !v.Integer {
			continue
		}
		if v.Lower >= 0 && v.Upper <= 1 {
			binaries = append(binaries, v.Name)
		} else {
			generals = append(generals, v.Name)
		}
	}
	if len(binaries) > 0 {
		b.WriteString("Binary\n " + strings.Join(binaries, " ") + "\n")
	}
	if len(generals) > 0 {
		b.WriteString("General\n " + strings.Join(generals, " ") + "\n")
	}
	b.WriteString("End\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTerms(b *strings.Builder, terms []Term, vars []Variable) {
	wrote := false
	for _, t := range terms {
		if t.Coef == 0 {
			continue
		}
		writeSigned(b, t.Coef)
		b.WriteString(" ")
		b.WriteString(vars[t.Var].Name)
		wrote = true
	}
	if !wrote {
		b.WriteString(" 0 ")
		b.WriteString(vars[0].Name)
	}
}

func writeSigned(b *strings.Builder, v float64) {
	if v < 0 {
		b.WriteString(" - ")
		v = -v
	} else {
		b.WriteString(" + ")
	}
	b.WriteString(formatNum(v))
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
}
