package main

import (
	"context"

	"fraudscore/internal/platform/store/migrate"

	"github.com/urfave/cli/v3"
)

var dbFlag = &cli.StringFlag{
	Name:     "db",
	Usage:    "Postgres URL of the ledger database",
	Sources:  cli.EnvVars("SERVICE_PGSQL_DBURL"),
	Required: true,
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the ledger schema",
		Flags: []cli.Flag{dbFlag},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply every pending migration",
				Action: withMigrator(func(ctx context.Context, c *cli.Command, m *migrate.Migrator) error {
					if err := m.Up(ctx); err != nil {
						return err
					}
					return printStatus(c, m)
				}),
			},
			{
				Name:  "down",
				Usage: "Revert the most recent migration",
				Action: withMigrator(func(ctx context.Context, c *cli.Command, m *migrate.Migrator) error {
					if err := m.Down(ctx); err != nil {
						return err
					}
					return printStatus(c, m)
				}),
			},
			{
				Name:    "version",
				Aliases: []string{"status"},
				Usage:   "Print the applied schema version",
				Action: withMigrator(func(_ context.Context, c *cli.Command, m *migrate.Migrator) error {
					return printStatus(c, m)
				}),
			},
		},
	}
}

func withMigrator(fn func(context.Context, *cli.Command, *migrate.Migrator) error) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		m, err := migrate.New(c.String(dbFlag.Name))
		if err != nil {
			return err
		}
		defer func() { _ = m.Close() }()
		return fn(ctx, c, m)
	}
}

func printStatus(c *cli.Command, m *migrate.Migrator) error {
	st, err := m.Status()
	if err != nil {
		return err
	}
	return encode(c, st)
}
