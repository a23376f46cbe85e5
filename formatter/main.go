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
	app.Name = "formatter"
	app.Usage = "tidy saved solver transcripts for reading"
	app.ArgsUsage = "transcript..."
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "stdout", Usage: "print instead of rewriting the files"},
		cli.BoolFlag{Name: "summary", Usage: "append the extracted metrics summary"},
		cli.BoolFlag{Name: "verbose", Usage: "debug logging"},
	}
	app.Action = format

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func format(c *cli.Context) error {
	if len(c.Args()) == 0 {
		return cli.NewExitError("no arguments passed", 2)
	}
	logger, err := minext.NewLogger(c.Bool("verbose"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	failed := 0
	for _, fileName := range c.Args() {
		fileContent, err := os.ReadFile(fileName)
		if err != nil {
			logger.Error("cannot read", zap.String("file", fileName), zap.Error(err))
			failed++
			continue
		}
		out := minext.FormatOutput(string(fileContent))
		if c.Bool("summary") {
			out += "\n\n" + minext.Summary(minext.ExtractMetrics(string(fileContent)))
		}
		if c.Bool("stdout") {
			fmt.Println(out)
			continue
		}
		if err := writeBackFile(out, fileName); err != nil {
			logger.Error("cannot write", zap.String("file", fileName), zap.Error(err))
			failed++
			continue
		}
		logger.Debug("formatted", zap.String("file", fileName))
	}
	if failed > 0 {
		return cli.NewExitError(fmt.Sprintf("%d files failed", failed), 1)
	}
	return nil
}

func writeBackFile(fileContent, fileName string) error {
	return os.WriteFile(fileName, []byte(fileContent+"\n"), 0644)
}
