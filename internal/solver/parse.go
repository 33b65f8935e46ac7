package solver

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
)

// varIndex maps variable names back to model indices.
func varIndex(m *Model) map[string]int {
	idx := make(map[string]int, len(m.Variables))
	for i, v := range m.Variables {
		idx[v.Name] = i
	}
	return idx
}

// parseHiGHSSolution reads the HiGHS --solution_file format: a "Model
// status" header, an "Objective" line and a "# Columns" section of
// name/value pairs.
func parseHiGHSSolution(m *Model, path string) (*Solution, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	sol := &Solution{Values: make([]float64, len(m.Variables))}
	idx := varIndex(m)

	status := ""
	inColumns := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "Model status" && i+1 < len(lines):
			status = strings.TrimSpace(lines[i+1])
		case strings.HasPrefix(trimmed, "Objective"):
			fields := strings.Fields(trimmed)
			if len(fields) == 2 {
				sol.Objective, _ = strconv.ParseFloat(fields[1], 64)
			}
		case strings.HasPrefix(trimmed, "# Columns"):
			inColumns = true
		case strings.HasPrefix(trimmed, "# Rows"):
			inColumns = false
		case inColumns:
			fields := strings.Fields(trimmed)
			if len(fields) != 2 {
				continue
			}
			if j, ok := idx[fields[0]]; ok {
				if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
					sol.Values[j] = v
				}
			}
		}
	}

	switch {
	case status == "Optimal":
		sol.Status = coolingcloud.StatusOptimal
	case strings.Contains(status, "Infeasible"):
		sol.Status = coolingcloud.StatusInfeasible
	case strings.Contains(status, "Time limit"):
		// Best incumbent is acceptable if one was written out.
		if hasPrimal(lines) {
			sol.Status = coolingcloud.StatusFeasible
		} else {
			return nil, ErrTimeout
		}
	default:
		return nil, fmt.Errorf("highs status %q", status)
	}
	return sol, nil
}

func hasPrimal(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) == "Feasible" {
			return true
		}
	}
	return false
}

// parseGLPKSolution reads glpsol's -o report: a "Status:" line, an
// "Objective:" line, and a column table whose second field is the variable
// name followed by an optional basis marker and the activity.
func parseGLPKSolution(m *Model, path string) (*Solution, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	sol := &Solution{Values: make([]float64, len(m.Variables))}
	idx := varIndex(m)

	status := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "Status:") {
			status = strings.TrimSpace(strings.TrimPrefix(trimmed, "Status:"))
			continue
		}
		if strings.HasPrefix(trimmed, "Objective:") {
			// "Objective:  obj = 123.45 (MINimum)"
			fields := strings.Fields(trimmed)
			for k, f := range fields {
				if f == "=" && k+1 < len(fields) {
					sol.Objective, _ = strconv.ParseFloat(fields[k+1], 64)
				}
			}
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 3 {
			continue
		}
		j, ok := idx[fields[1]]
		if !ok {
			continue
		}
		for _, f := range fields[2:] {
			if v, err := strconv.ParseFloat(f, 64); err == nil {
				sol.Values[j] = v
				break
			}
		}
	}

	switch {
	case strings.Contains(status, "INFEASIBLE") || strings.Contains(status, "EMPTY"):
		sol.Status = coolingcloud.StatusInfeasible
	case strings.Contains(status, "NON-OPTIMAL"):
		sol.Status = coolingcloud.StatusFeasible
	case strings.Contains(status, "OPTIMAL"):
		sol.Status = coolingcloud.StatusOptimal
	default:
		return nil, fmt.Errorf("glpk status %q", status)
	}
	return sol, nil
}

// parseCBCSolution reads cbc's "solution" file: a one-line verdict with the
// objective value, then rows of index, name, value, reduced cost.
func parseCBCSolution(m *Model, path string) (*Solution, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("empty cbc solution file")
	}

	sol := &Solution{Values: make([]float64, len(m.Variables))}
	idx := varIndex(m)

	header := lines[0]
	switch {
	case strings.HasPrefix(header, "Optimal"):
		sol.Status = coolingcloud.StatusOptimal
	case strings.Contains(header, "Infeasible") || strings.Contains(header, "infeasible"):
		sol.Status = coolingcloud.StatusInfeasible
	case strings.HasPrefix(header, "Stopped"):
		sol.Status = coolingcloud.StatusFeasible
	default:
		return nil, fmt.Errorf("cbc verdict %q", header)
	}

	if k := strings.Index(header, "objective value"); k >= 0 {
		fields := strings.Fields(header[k:])
		if len(fields) >= 3 {
			sol.Objective, _ = strconv.ParseFloat(fields[2], 64)
		}
	}

	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		if j, ok := idx[fields[1]]; ok {
			if v, err := strconv.ParseFloat(fields[2], 64); err == nil {
				sol.Values[j] = v
			}
		}
	}
	return sol, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
