package main

import (
	"context"

	"fraudscore/internal/core/model"

	"github.com/urfave/cli/v3"
)

var manifestFlag = &cli.StringFlag{
	Name:    "manifest",
	Usage:   "Path to the model manifest",
	Value:   "models/manifest.yaml",
	Sources: cli.EnvVars("CORE_API_MODELS_MANIFEST"),
}

func modelsCmd() *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "Inspect model artifacts",
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Load every artifact the API would load and print what was compiled",
				Flags: []cli.Flag{manifestFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					reg, err := model.Load(ctx, c.String(manifestFlag.Name))
					if err != nil {
						return err
					}
					return encode(c, reg.Info())
				},
			},
		},
	}
}
