package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"git.solver4all.com/azaryc2s/minext"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func main() {
	app := cli.NewApp()
	app.Name = "solver"
	app.Usage = "run the MinExt model with MiniZinc over data files"
	app.ArgsUsage = "[.dzn file or directory...]"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "YAML file with the directory conventions"},
		cli.StringFlag{Name: "model, m", Value: minext.DefaultModel, Usage: "MiniZinc model file"},
		cli.StringFlag{Name: "solver", Value: minext.DefaultSolver, Usage: "MiniZinc solver backend"},
		cli.StringFlag{Name: "minizinc", Value: minext.DefaultBinary, Usage: "path to the minizinc executable"},
		cli.DurationFlag{Name: "time-limit, t", Value: minext.DefaultTimeLimit, Usage: "time limit per instance (0 for none)"},
		cli.StringFlag{Name: "output, o", Usage: "directory for transcripts and results (default: next to each .dzn)"},
		cli.BoolFlag{Name: "summary", Usage: "print a summary of each run to stdout"},
		cli.BoolFlag{Name: "verbose", Usage: "debug logging"},
	}
	app.Action = solve

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func solve(c *cli.Context) error {
	logger, err := minext.NewLogger(c.Bool("verbose"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := minext.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	paths := []string(c.Args())
	if len(paths) == 0 {
		paths = []string{cfg.OutputDir}
	}
	files, err := minext.ListFiles(paths, cfg.DznExt, nil)
	if err != nil {
		return err
	}

	if out := c.String("output"); out != "" {
		if err := os.MkdirAll(out, 0755); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := minext.NewRunner(c.String("model"), logger)
	r.Binary = c.String("minizinc")
	r.Solver = c.String("solver")
	r.TimeLimit = c.Duration("time-limit")

	version, err := r.Version(ctx)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("MiniZinc is not available: %v", err), 2)
	}
	logger.Info("using MiniZinc", zap.String("version", version), zap.String("solver", r.Solver))

	sys, err := minext.HostInfo()
	if err != nil {
		logger.Debug("incomplete system info", zap.Error(err))
	}

	failed := 0
	for _, dzn := range files {
		if ctx.Err() != nil {
			break
		}
		sol, raw, err := r.Solve(ctx, dzn)
		if err != nil {
			logger.Error("solver run failed", zap.String("file", dzn), zap.Error(err))
			failed++
			continue
		}
		sol.System = sys

		if err := minext.SaveRun(outputBase(dzn, c.String("output")), cfg.OutputExt, raw, sol); err != nil {
			logger.Error("cannot save run", zap.String("file", dzn), zap.Error(err))
			failed++
		} else if sol.Status == minext.StatusError {
			failed++
		}

		logger.Info("solved",
			zap.String("file", dzn),
			zap.String("status", sol.Status),
			zap.String("time", sol.Time))
		if c.Bool("summary") {
			fmt.Printf("%s [%s, %s]\n%s\n\n", filepath.Base(dzn), sol.Status, sol.Time, minext.Summary(sol.Metrics))
		}
	}

	logger.Info("done", zap.Int("files", len(files)), zap.Int("failed", failed))
	if failed > 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d runs failed", failed, len(files)), 1)
	}
	return ctx.Err()
}

// outputBase is the path, without extension, under which the results for dzn
// are saved.
func outputBase(dzn, dir string) string {
	name := strings.TrimSuffix(filepath.Base(dzn), filepath.Ext(dzn))
	if dir == "" {
		dir = filepath.Dir(dzn)
	}
	return filepath.Join(dir, name)
}
