package minext

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Run pairs a solver transcript with what was extracted from it.
type Run struct {
	Name    string  `yaml:"name"`
	Metrics Metrics `yaml:"metrics"`
}

// Stats aggregates the runs that produced a solution.
type Stats struct {
	Runs            int     `yaml:"runs"`
	Solved          int     `yaml:"solved"`
	MeanExtremism   float64 `yaml:"mean_extremism"`
	StdDevExtremism float64 `yaml:"stddev_extremism"`
	MeanCostUsage   float64 `yaml:"mean_cost_usage"`
	MeanActiveMoves float64 `yaml:"mean_active_moves"`
}

// Report is the analyzer's view over a set of runs.
type Report struct {
	System SysInfo `yaml:"system"`
	Runs   []Run   `yaml:"runs"`
	Stats  Stats   `yaml:"stats"`
}

// LoadRun reads one transcript file and extracts its metrics. The run is named
// after the file without its extension.
func LoadRun(path string) (Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Run{}, errors.Wrapf(err, "reading %s", path)
	}
	base := filepath.Base(path)
	return Run{
		Name:    strings.TrimSuffix(base, filepath.Ext(base)),
		Metrics: ExtractMetrics(string(data)),
	}, nil
}

// NewReport computes the statistics for runs.
func NewReport(sys SysInfo, runs []Run) Report {
	return Report{System: sys, Runs: runs, Stats: computeStats(runs)}
}

func computeStats(runs []Run) Stats {
	st := Stats{Runs: len(runs)}
	var ext, usage, moves []float64
	for _, r := range runs {
		if !r.Metrics.HasSolution() {
			continue
		}
		ext = append(ext, *r.Metrics.TotalExtremism)
		moves = append(moves, float64(r.Metrics.ActiveMoves))
		if pct, ok := r.Metrics.CostUsage(); ok {
			usage = append(usage, pct)
		}
	}
	st.Solved = len(ext)
	if len(ext) == 0 {
		return st
	}
	st.MeanExtremism, st.StdDevExtremism = stat.MeanStdDev(ext, nil)
	if len(ext) < 2 || math.IsNaN(st.StdDevExtremism) {
		st.StdDevExtremism = 0
	}
	st.MeanActiveMoves = stat.Mean(moves, nil)
	if len(usage) > 0 {
		st.MeanCostUsage = stat.Mean(usage, nil)
	}
	return st
}
