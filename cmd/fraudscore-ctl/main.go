// Command fraudscore-ctl runs schema migrations, credential helpers and model checks offline
package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fraudscore/internal/core/version"
	"fraudscore/internal/platform/logger"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs",
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).Run(ctx, os.Args); err != nil {
		logger.Get().Error().Err(err).Msg("fraudscore-ctl failed")
		stop()
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.Command {
	info := version.Info()
	return &cli.Command{
		Name:                  "fraudscore-ctl",
		Usage:                 "Operator tooling for the fraud scoring service",
		Version:               info.Version + " (" + info.Commit + ")",
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Writer:                out,
		Flags:                 []cli.Flag{debugFlag, formatFlag},
		Commands: []*cli.Command{
			migrateCmd(),
			hashCmd(),
			verifyCmd(),
			modelsCmd(),
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			opt := logger.FromEnv()
			opt.Service = "fraudscore-ctl"
			opt.Level = "warn"
			if c.Bool(debugFlag.Name) {
				opt.Level = "debug"
			}
			logger.Init(opt)
			return ctx, nil
		},
	}
}

// encode writes v in the format picked by --format
func encode(c *cli.Command, v any) error {
	w := c.Root().Writer
	if f := c.String(formatFlag.Name); f == formatYAML || f == "yml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(v)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
