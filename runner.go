package minext

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Outcome of a solver run, read from the status markers MiniZinc prints.
const (
	StatusOptimal       = "OPTIMAL"
	StatusSatisfied     = "SATISFIED"
	StatusUnsatisfiable = "UNSATISFIABLE"
	StatusUnknown       = "UNKNOWN"
	StatusError         = "ERROR"
)

const (
	DefaultBinary    = "minizinc"
	DefaultModel     = "Proyecto.mzn"
	DefaultSolver    = "Gecode"
	DefaultTimeLimit = 60 * time.Second

	solutionSeparator = "----------"
	searchComplete    = "=========="
)

var statusMarkers = map[string]string{
	"=====UNSATISFIABLE=====": StatusUnsatisfiable,
	"=====UNKNOWN=====":       StatusUnknown,
	"=====ERROR=====":         StatusError,
}

// SolveStatus classifies solver output. A completed search after at least one
// solution is optimal; solutions without the completion marker mean the time
// limit cut the search short.
func SolveStatus(raw string) string {
	solutions, complete := 0, false
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if status, ok := statusMarkers[line]; ok {
			return status
		}
		switch line {
		case solutionSeparator:
			solutions++
		case searchComplete:
			complete = true
		}
	}
	switch {
	case solutions > 0 && complete:
		return StatusOptimal
	case solutions > 0:
		return StatusSatisfied
	}
	return StatusUnknown
}

// Solution records one solver run over a data file.
type Solution struct {
	Instance string  `json:"instance" yaml:"instance"`
	Model    string  `json:"model" yaml:"model"`
	Solver   string  `json:"solver" yaml:"solver"`
	Status   string  `json:"status" yaml:"status"`
	Comment  string  `json:"comment" yaml:"comment"`
	Time     string  `json:"time" yaml:"time"`
	Metrics  Metrics `json:"metrics" yaml:"metrics"`
	System   SysInfo `json:"system" yaml:"system"`
}

// Runner invokes the MiniZinc command line on data files.
type Runner struct {
	Binary    string
	Model     string
	Solver    string
	TimeLimit time.Duration
	Logger    *zap.Logger
}

func NewRunner(model string, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if model == "" {
		model = DefaultModel
	}
	return &Runner{
		Binary:    DefaultBinary,
		Model:     model,
		Solver:    DefaultSolver,
		TimeLimit: DefaultTimeLimit,
		Logger:    logger,
	}
}

// Version returns the first line of `minizinc --version`.
func (r *Runner) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, r.Binary, "--version").Output()
	if err != nil {
		return "", errors.Wrapf(err, "running %s --version", r.Binary)
	}
	first, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(first), nil
}

func (r *Runner) args(dzn string) []string {
	var args []string
	if r.Solver != "" {
		args = append(args, "--solver", r.Solver)
	}
	if r.TimeLimit > 0 {
		args = append(args, "--time-limit", formatMillis(r.TimeLimit))
	}
	return append(args, r.Model, dzn)
}

// Solve runs the model on one data file and returns the run record together
// with the raw transcript. A solver that starts but exits with an error is not
// a Go error: the run is recorded with StatusError and stderr as comment.
func (r *Runner) Solve(ctx context.Context, dzn string) (Solution, string, error) {
	sol := Solution{Instance: dzn, Model: r.Model, Solver: r.Solver}
	if _, err := os.Stat(r.Model); err != nil {
		return sol, "", errors.Wrapf(err, "model %s", r.Model)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Binary, r.args(dzn)...)
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	r.Logger.Debug("running solver", zap.String("binary", r.Binary), zap.Strings("args", cmd.Args[1:]))

	start := time.Now()
	err := cmd.Run()
	sol.Time = time.Since(start).String()
	raw := stdout.String()
	sol.Metrics = ExtractMetrics(raw)
	sol.Status = SolveStatus(raw)

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		sol.Status = StatusError
		sol.Comment = strings.TrimSpace(stderr.String())
		if sol.Comment == "" {
			sol.Comment = exitErr.Error()
		}
	default:
		return sol, raw, errors.Wrapf(err, "running %s on %s", r.Binary, dzn)
	}
	if sol.Status == StatusSatisfied {
		sol.Comment = "Time limit reached"
	}
	return sol, raw, nil
}

// WriteSolution stores sol as indented JSON at path.
func WriteSolution(path string, sol Solution) error {
	data, err := json.MarshalIndent(sol, "", "\t")
	if err != nil {
		return errors.Wrapf(err, "encoding solution for %s", sol.Instance)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "creating %s", filepath.Dir(path))
	}
	return errors.Wrapf(os.WriteFile(path, append(data, '\n'), 0644), "writing %s", path)
}

// SaveRun writes the raw transcript to base+transcriptExt and the record to
// base+".json". Both files are attempted; the first failure is returned.
func SaveRun(base, transcriptExt, raw string, sol Solution) error {
	var first error
	if err := os.MkdirAll(filepath.Dir(base), 0755); err != nil {
		first = errors.Wrapf(err, "creating %s", filepath.Dir(base))
	} else if err := os.WriteFile(base+transcriptExt, []byte(raw), 0644); err != nil {
		first = errors.Wrapf(err, "writing %s", base+transcriptExt)
	}
	if err := WriteSolution(base+".json", sol); err != nil && first == nil {
		first = err
	}
	return first
}

// ReadSolution loads a record written by WriteSolution.
func ReadSolution(path string) (Solution, error) {
	var sol Solution
	data, err := os.ReadFile(path)
	if err != nil {
		return sol, errors.Wrapf(err, "reading %s", path)
	}
	if err := json.Unmarshal(data, &sol); err != nil {
		return sol, errors.Wrapf(err, "parsing %s", path)
	}
	return sol, nil
}

func formatMillis(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}
