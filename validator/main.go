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
	app.Name = "validator"
	app.Usage = "check MiniZinc data files for the MinExt declarations"
	app.ArgsUsage = "file.dzn..."
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "strict", Usage: "also read the declarations back and check their shapes"},
		cli.BoolFlag{Name: "verbose", Usage: "debug logging"},
	}
	app.Action = validate

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func validate(c *cli.Context) error {
	if len(c.Args()) == 0 {
		return cli.NewExitError("no data files given", 2)
	}
	logger, err := minext.NewLogger(c.Bool("verbose"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	invalid := 0
	for _, path := range c.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("cannot read", zap.String("file", path), zap.Error(err))
			invalid++
			continue
		}
		ok, findings := minext.ValidateDzn(string(data))
		if ok && c.Bool("strict") {
			if _, err := minext.DecodeDzn(string(data)); err != nil {
				ok, findings = false, []string{err.Error()}
			}
		}
		if !ok {
			invalid++
			fmt.Printf("%s: invalid\n", path)
			for _, f := range findings {
				fmt.Printf("  - %s\n", f)
			}
			continue
		}
		fmt.Printf("%s: ok\n", path)
	}
	if invalid > 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d files invalid", invalid, len(c.Args())), 1)
	}
	return nil
}
