package solver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// external wraps a command-line solver. The model is written to a scratch
// directory in LP format, the binary is run under the attempt context (so a
// timeout or cancellation kills the process), and the tool's solution file
// is parsed back into a Solution. Everything is cleaned up on all paths.
type external struct {
	name   string
	binary string
	mip    bool
	args   func(modelPath, solPath string, timeLimit time.Duration) []string
	parse  func(m *Model, solPath string) (*Solution, error)
}

func (e *external) Name() string           { return e.name }
func (e *external) SupportsIntegers() bool { return e.mip }

func (e *external) Available() bool {
	_, err := exec.LookPath(e.binary)
	return err == nil
}

func (e *external) Solve(ctx context.Context, m *Model, timeLimit time.Duration) (*Solution, error) {
	path, err := exec.LookPath(e.binary)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.binary, ErrUnavailable)
	}

	dir, err := os.MkdirTemp("", "coolsolve-")
	if err != nil {
		return nil, fmt.Errorf("scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	modelPath := filepath.Join(dir, "model.lp")
	solPath := filepath.Join(dir, "solution.txt")

	f, err := os.Create(modelPath)
	if err != nil {
		return nil, fmt.Errorf("write model: %w", err)
	}
	if err := WriteLP(f, m); err != nil {
		f.Close()
		return nil, fmt.Errorf("write model: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("write model: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, e.args(modelPath, solPath, timeLimit)...)
	runErr := cmd.Run()

	if _, statErr := os.Stat(solPath); statErr != nil {
		// Killed before writing a solution, or crashed outright.
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		if runErr != nil {
			return nil, fmt.Errorf("%s run: %w", e.name, runErr)
		}
		return nil, fmt.Errorf("%s produced no solution file", e.name)
	}

	return e.parse(m, solPath)
}

// NewHiGHS adapts the HiGHS command-line solver (LP and MIP).
func NewHiGHS() Adapter {
	return &external{
		name:   "highs",
		binary: "highs",
		mip:    true,
		args: func(modelPath, solPath string, timeLimit time.Duration) []string {
			return []string{
				"--solution_file", solPath,
				"--time_limit", fmt.Sprintf("%.0f", timeLimit.Seconds()),
				modelPath,
			}
		},
		parse: parseHiGHSSolution,
	}
}

// NewGLPK adapts glpsol from the GNU Linear Programming Kit (LP and MIP).
func NewGLPK() Adapter {
	return &external{
		name:   "glpk",
		binary: "glpsol",
		mip:    true,
		args: func(modelPath, solPath string, timeLimit time.Duration) []string {
			return []string{
				"--lp", modelPath,
				"--tmlim", fmt.Sprintf("%.0f", timeLimit.Seconds()),
				"-o", solPath,
			}
		},
		parse: parseGLPKSolution,
	}
}

// NewCBC adapts the COIN-OR CBC solver (LP and MIP).
func NewCBC() Adapter {
	return &external{
		name:   "cbc",
		binary: "cbc",
		mip:    true,
		args: func(modelPath, solPath string, timeLimit time.Duration) []string {
			return []string{
				modelPath,
				"sec", fmt.Sprintf("%.0f", timeLimit.Seconds()),
				"solve",
				"solution", solPath,
			}
		},
		parse: parseCBCSolution,
	}
}
