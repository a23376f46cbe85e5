package minext

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSolveStatus(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "search complete", raw: sampleOutput, want: StatusOptimal},
		{name: "time limit", raw: "Extremismo Total: 3.0\n----------\nExtremismo Total: 2.0\n----------\n", want: StatusSatisfied},
		{name: "unsatisfiable", raw: "=====UNSATISFIABLE=====\n", want: StatusUnsatisfiable},
		{name: "unknown marker", raw: "=====UNKNOWN=====", want: StatusUnknown},
		{name: "error marker", raw: "Error: type error\n=====ERROR=====\n", want: StatusError},
		{name: "no markers", raw: "Extremismo Total: 3.0", want: StatusUnknown},
		{name: "empty", raw: "", want: StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SolveStatus(tt.raw))
		})
	}
}

// fakeSolver writes an executable shell script standing in for minizinc. The
// script stores its arguments next to itself and then runs body.
func fakeSolver(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "minizinc")
	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"--version\" ]; then\n" +
		"  echo 'MiniZinc to FlatZinc converter, version 2.8.5, build 1'\n" +
		"  echo 'Copyright (C) 2014-2024 Monash University'\n" +
		"  exit 0\n" +
		"fi\n" +
		"echo \"$@\" > \"$0.args\"\n" +
		body
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func testRunner(t *testing.T, binary string) *Runner {
	model := filepath.Join(t.TempDir(), "Proyecto.mzn")
	writeFile(t, model, "% model\n")
	r := NewRunner(model, zaptest.NewLogger(t))
	r.Binary = binary
	return r
}

func TestRunnerVersion(t *testing.T) {
	r := testRunner(t, fakeSolver(t, ""))
	v, err := r.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "MiniZinc to FlatZinc converter, version 2.8.5, build 1", v)

	r.Binary = filepath.Join(t.TempDir(), "missing")
	_, err = r.Version(context.Background())
	assert.Error(t, err)
}

func TestRunnerSolve(t *testing.T) {
	bin := fakeSolver(t, "cat <<'EOF'\n"+sampleOutput+"EOF\n")
	r := testRunner(t, bin)
	r.TimeLimit = 1500 * time.Millisecond

	sol, raw, err := r.Solve(context.Background(), "Prueba1.dzn")
	require.NoError(t, err)
	assert.Equal(t, sampleOutput, raw)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.Empty(t, sol.Comment)
	assert.Equal(t, "Prueba1.dzn", sol.Instance)
	assert.Equal(t, DefaultSolver, sol.Solver)
	assert.Equal(t, ExtractMetrics(sampleOutput), sol.Metrics)
	assert.NotEmpty(t, sol.Time)

	args, err := os.ReadFile(bin + ".args")
	require.NoError(t, err)
	assert.Equal(t, "--solver Gecode --time-limit 1500 "+r.Model+" Prueba1.dzn", strings.TrimSpace(string(args)))
}

func TestRunnerSolveWithoutSolverOrLimit(t *testing.T) {
	bin := fakeSolver(t, "echo '=====UNSATISFIABLE====='\n")
	r := testRunner(t, bin)
	r.Solver = ""
	r.TimeLimit = 0

	sol, _, err := r.Solve(context.Background(), "x.dzn")
	require.NoError(t, err)
	assert.Equal(t, StatusUnsatisfiable, sol.Status)
	assert.False(t, sol.Metrics.HasSolution())

	args, err := os.ReadFile(bin + ".args")
	require.NoError(t, err)
	assert.Equal(t, r.Model+" x.dzn", strings.TrimSpace(string(args)))
}

func TestRunnerSolveTimeLimitReached(t *testing.T) {
	r := testRunner(t, fakeSolver(t, "echo 'Extremismo Total: 4.5'\necho '----------'\n"))
	sol, _, err := r.Solve(context.Background(), "x.dzn")
	require.NoError(t, err)
	assert.Equal(t, StatusSatisfied, sol.Status)
	assert.Equal(t, "Time limit reached", sol.Comment)
}

func TestRunnerSolveSolverFailure(t *testing.T) {
	r := testRunner(t, fakeSolver(t, "echo 'Error: undefined identifier' >&2\nexit 1\n"))
	sol, _, err := r.Solve(context.Background(), "x.dzn")
	require.NoError(t, err)
	assert.Equal(t, StatusError, sol.Status)
	assert.Equal(t, "Error: undefined identifier", sol.Comment)
}

func TestRunnerSolveErrors(t *testing.T) {
	r := testRunner(t, filepath.Join(t.TempDir(), "missing"))
	_, _, err := r.Solve(context.Background(), "x.dzn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x.dzn")

	r = testRunner(t, fakeSolver(t, ""))
	r.Model = filepath.Join(t.TempDir(), "nope.mzn")
	_, _, err = r.Solve(context.Background(), "x.dzn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.mzn")
}

func TestSolutionFile(t *testing.T) {
	want := Solution{
		Instance: "Prueba1.dzn",
		Model:    "Proyecto.mzn",
		Solver:   "Gecode",
		Status:   StatusOptimal,
		Time:     "1.5s",
		Metrics:  ExtractMetrics(sampleOutput),
		System:   SysInfo{Platform: "linux", CPU: "test", RAM: "8 GB"},
	}
	path := filepath.Join(t.TempDir(), "res", "Prueba1.json")
	require.NoError(t, WriteSolution(path, want))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"extremismo_total\": 12.5")

	got, err := ReadSolution(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	writeFile(t, path, "{")
	_, err = ReadSolution(path)
	assert.Error(t, err)
}

func TestSaveRun(t *testing.T) {
	dir := t.TempDir()
	sol := Solution{Instance: "Prueba1.dzn", Status: StatusOptimal, Metrics: ExtractMetrics(sampleOutput)}

	base := filepath.Join(dir, "res", "Prueba1")
	require.NoError(t, SaveRun(base, ".out", sampleOutput, sol))
	data, err := os.ReadFile(base + ".out")
	require.NoError(t, err)
	assert.Equal(t, sampleOutput, string(data))
	got, err := ReadSolution(base + ".json")
	require.NoError(t, err)
	assert.Equal(t, sol, got)

	// a regular file where the output directory should be
	blocker := filepath.Join(dir, "blocker")
	writeFile(t, blocker, "")
	err = SaveRun(filepath.Join(blocker, "Prueba1"), ".out", sampleOutput, sol)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocker")
	assert.NoFileExists(t, filepath.Join(blocker, "Prueba1.json"))
}
