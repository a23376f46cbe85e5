package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"git.solver4all.com/azaryc2s/minext"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var budgets minext.ArrayFloatFlags

func main() {
	app := cli.NewApp()
	app.Name = "generator"
	app.Usage = "write random MinExt instances"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.IntSliceFlag{Name: "m", Usage: "number of opinions (repeatable)"},
		cli.IntSliceFlag{Name: "n", Usage: "population size (repeatable)"},
		cli.GenericFlag{Name: "budget", Value: &budgets, Usage: "ct as a fraction of moving everyone one step (repeatable, default 0.5)"},
		cli.IntFlag{Name: "maxm", Usage: "maxM for every instance, 0 means the population size"},
		cli.Float64Flag{Name: "empty", Value: 0.2, Usage: "chance that an opinion starts empty"},
		cli.IntFlag{Name: "count", Value: 10, Usage: "number of instances per combination"},
		cli.StringFlag{Name: "name", Value: "minext", Usage: "name prefix for the instances"},
		cli.StringFlag{Name: "output, o", Value: ".", Usage: "directory for the generated files"},
		cli.Int64Flag{Name: "seed", Usage: "random seed, 0 uses the clock"},
		cli.BoolFlag{Name: "dzn", Usage: "also write the MiniZinc data file of every instance"},
		cli.BoolFlag{Name: "verbose", Usage: "debug logging"},
	}
	app.Action = generate

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func generate(c *cli.Context) error {
	logger, err := minext.NewLogger(c.Bool("verbose"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	opinions, populations := c.IntSlice("m"), c.IntSlice("n")
	if len(opinions) == 0 || len(populations) == 0 {
		return cli.NewExitError("at least one -m and one -n are required", 2)
	}
	seed := c.Int64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	logger.Debug("seeded", zap.Int64("seed", seed))

	outDir := c.String("output")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	written := 0
	for l := 0; l < c.Int("count"); l++ {
		for _, m := range opinions {
			for _, n := range populations {
				for _, b := range budgets.OrDefault(0.5) {
					opts := minext.GenOptions{
						Population: n,
						Opinions:   m,
						Budget:     b,
						MaxMoves:   c.Int("maxm"),
						EmptyRatio: c.Float64("empty"),
					}
					inst, err := minext.GenerateInstance(rng, opts)
					if err != nil {
						return err
					}
					instName := fmt.Sprintf("%s_%d_%d_%.2f_%d", c.String("name"), m, n, b, l)
					if err := writeInstance(outDir, instName, inst, c.Bool("dzn")); err != nil {
						return err
					}
					logger.Debug("generated", zap.String("instance", instName))
					written++
				}
			}
		}
	}
	logger.Info("done", zap.Int("instances", written), zap.String("output", outDir))
	return nil
}

func writeInstance(dir, name string, inst *minext.Instance, dzn bool) error {
	cfg := minext.DefaultConfig()
	err := os.WriteFile(filepath.Join(dir, name+cfg.InstanceExt), []byte(minext.FormatInstance(inst)), 0644)
	if err != nil || !dzn {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name+cfg.DznExt), []byte(minext.EncodeDzn(inst)), 0644)
}
