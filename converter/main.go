package main

import (
	"fmt"
	"os"

	"git.solver4all.com/azaryc2s/minext"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func main() {
	app := cli.NewApp()
	app.Name = "converter"
	app.Usage = "convert MinExt instance files into MiniZinc data files"
	app.ArgsUsage = "[instance file or directory...]"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "YAML file with the directory conventions"},
		cli.StringFlag{Name: "output, o", Usage: "directory for the generated .dzn files (default from config)"},
		cli.BoolFlag{Name: "beside", Usage: "write each .dzn next to its instance"},
		cli.StringSliceFlag{Name: "skip", Usage: "file name to ignore when scanning directories (repeatable)"},
		cli.BoolFlag{Name: "validate", Usage: "check every generated file for the required declarations"},
		cli.BoolFlag{Name: "verbose", Usage: "debug logging"},
	}
	app.Action = convert

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func convert(c *cli.Context) error {
	logger, err := minext.NewLogger(c.Bool("verbose"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := minext.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("output") {
		cfg.OutputDir = c.String("output")
	}
	if skip := c.StringSlice("skip"); len(skip) > 0 {
		cfg.Skip = skip
	}

	paths := []string(c.Args())
	if len(paths) == 0 {
		paths = []string{cfg.InputDir}
	}
	logger.Debug("converting", zap.Strings("paths", paths), zap.String("output", cfg.OutputDir))

	cv := minext.NewConverter(cfg, logger)
	cv.Beside = c.Bool("beside")
	cv.Validate = c.Bool("validate")
	results, err := cv.Run(paths)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	logger.Info("done", zap.Int("files", len(results)), zap.Int("failed", failed))
	if failed > 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d files failed", failed, len(results)), 1)
	}
	return nil
}
