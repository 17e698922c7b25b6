// Package migrate applies the embedded schema with golang-migrate over the pgx v5 driver
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	perr "fraudscore/internal/platform/errors"
	"fraudscore/internal/platform/logger"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed sql/*.sql
var files embed.FS

// Table is where golang-migrate records the applied version
const Table = "schema_migrations"

// Migrator wraps one migrate instance and the *sql.DB it owns
type Migrator struct {
	m   *migrate.Migrate
	db  *sql.DB
	log logger.Logger
}

// Status is the applied version and whether a previous run stopped half way
type Status struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

// New opens a dedicated database/sql handle for url; the API pool is never shared with migrations
func New(url string) (*Migrator, error) {
	cc, err := pgx.ParseConfig(url)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeStartup, "migrate: parse url")
	}
	db := stdlib.OpenDB(*cc)

	drv, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{MigrationsTable: Table})
	if err != nil {
		_ = db.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeStartup, "migrate: database driver")
	}
	src, err := iofs.New(files, "sql")
	if err != nil {
		_ = db.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeStartup, "migrate: source")
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", drv)
	if err != nil {
		_ = db.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeStartup, "migrate: instance")
	}
	return &Migrator{m: m, db: db, log: *logger.Named("migrate")}, nil
}

// Up applies every pending migration; no pending work is not an error
func (x *Migrator) Up(ctx context.Context) error {
	return x.run(ctx, "up", x.m.Up)
}

// Down reverts the most recent migration
func (x *Migrator) Down(ctx context.Context) error {
	return x.run(ctx, "down", func() error { return x.m.Steps(-1) })
}

// Status reports the applied version; an empty schema is version 0
func (x *Migrator) Status() (Status, error) {
	v, dirty, err := x.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, perr.Wrap(err, perr.ErrorCodeDB, "migrate: version")
	}
	return Status{Version: v, Dirty: dirty}, nil
}

// Close releases the source and the database handle
func (x *Migrator) Close() error {
	srcErr, dbErr := x.m.Close()
	return errors.Join(srcErr, dbErr)
}

// run lets ctx stop a long migration between steps via GracefulStop
func (x *Migrator) run(ctx context.Context, dir string, fn func() error) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			x.m.GracefulStop <- true
		case <-done:
		}
	}()

	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		x.log.Info().Str("direction", dir).Msg("schema up to date")
		return nil
	}
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, fmt.Sprintf("migrate %s", dir))
	}
	st, _ := x.Status()
	x.log.Info().Str("direction", dir).Uint("version", st.Version).Msg("schema migrated")
	return nil
}

// Up is the one-shot form used at API boot when auto migrate is on
func Up(ctx context.Context, url string) error {
	m, err := New(url)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up(ctx)
}
