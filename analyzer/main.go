package main

import (
	"fmt"
	"os"
	"strconv"

	"git.solver4all.com/azaryc2s/minext"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	app := cli.NewApp()
	app.Name = "analyzer"
	app.Usage = "extract MinExt metrics from saved solver output"
	app.ArgsUsage = "[transcript file or directory...]"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "YAML file with the directory conventions"},
		cli.BoolFlag{Name: "yaml", Usage: "print a YAML report with system info and statistics instead of CSV"},
		cli.BoolFlag{Name: "verbose", Usage: "debug logging"},
	}
	app.Action = analyze

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func analyze(c *cli.Context) error {
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
		paths = []string{"."}
	}
	files, err := minext.ListFiles(paths, cfg.OutputExt, nil)
	if err != nil {
		return err
	}

	var runs []minext.Run
	for _, f := range files {
		run, err := minext.LoadRun(f)
		if err != nil {
			logger.Error("skipping transcript", zap.String("file", f), zap.Error(err))
			continue
		}
		runs = append(runs, run)
	}

	sys, err := minext.HostInfo()
	if err != nil {
		logger.Debug("incomplete system info", zap.Error(err))
	}
	report := minext.NewReport(sys, runs)

	if c.Bool("yaml") {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(report)
	}

	fmt.Printf("Name,Extremism,CostUsed,CostLimit,MovesUsed,MovesLimit,ActiveMoves\n")
	for _, r := range report.Runs {
		m := r.Metrics
		fmt.Printf("%s,%s,%s,%s,%s,%s,%d\n", r.Name,
			optFloat(m.TotalExtremism), optFloat(m.CostUsed), optFloat(m.CostLimit),
			optInt(m.MovesUsed), optInt(m.MovesLimit), m.ActiveMoves)
	}
	logger.Info("analyzed",
		zap.Int("runs", report.Stats.Runs),
		zap.Int("solved", report.Stats.Solved),
		zap.Float64("mean_extremism", report.Stats.MeanExtremism),
		zap.Float64("stddev_extremism", report.Stats.StdDevExtremism),
		zap.String("platform", sys.Platform))
	return nil
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
