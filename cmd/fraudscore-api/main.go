// Command fraudscore-api serves the scoring and credential endpoints
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fraudscore/internal/core/credential"
	"fraudscore/internal/core/model"
	"fraudscore/internal/core/version"
	"fraudscore/internal/modkit/repokit"
	"fraudscore/internal/platform/config"
	perr "fraudscore/internal/platform/errors"
	"fraudscore/internal/platform/logger"
	"fraudscore/internal/platform/metrics"
	phttp "fraudscore/internal/platform/net/http"
	"fraudscore/internal/platform/net/middleware"
	"fraudscore/internal/platform/store"
	"fraudscore/internal/platform/store/migrate"

	"fraudscore/internal/services/api"
)

func main() {
	lopt := logger.FromEnv()
	if lopt.Service == "" {
		lopt.Service = version.Service
	}
	lopt.StaticFields = map[string]string{"instance": version.Instance()}
	logger.Init(lopt)

	if err := run(); err != nil {
		logger.Get().Fatal().Err(err).Str("code", perr.CodeOf(err).String()).Msg("fraudscore-api stopped")
	}
}

func run() error {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	credCfg := root.Prefix("CRED_")
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// artifacts first: a bad model must stop the process before it touches the database
	manifest := apiCfg.MayString("MODELS_MANIFEST", "models/manifest.yaml")
	models, err := model.Load(ctx, manifest)
	if err != nil {
		return err
	}
	l.Info().Str("manifest", manifest).Int("variants", len(models.Info().Variants)).Msg("models loaded")

	hasher, err := credential.New(credential.WithCost(
		credCfg.MayIntIn("SCRYPT_LN", credential.DefaultLogN, 10, 20),
		credCfg.MayIntIn("SCRYPT_R", credential.DefaultR, 1, 32),
		credCfg.MayIntIn("SCRYPT_P", credential.DefaultP, 1, 16),
	))
	if err != nil {
		return err
	}

	dbURL := pgCfg.MustString("DBURL")
	if apiCfg.MayBool("AUTO_MIGRATE", false) {
		if err := migrate.Up(ctx, dbURL); err != nil {
			return err
		}
		l.Info().Msg("schema migrated")
	}

	m := metrics.New()
	st, err := store.Open(ctx,
		store.Config{
			AppName: version.Service,
			PG: store.PGConfig{
				Enabled:          true,
				URL:              dbURL,
				MaxConns:         int32(pgCfg.MayIntIn("MAX_CONNS", 10, 1, 512)),
				SlowQueryMs:      pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:           pgCfg.MayBool("LOG_SQL", false),
				StatementTimeout: pgCfg.MayDuration("STATEMENT_TIMEOUT", 0),
				ConnectRetries:   pgCfg.MayInt("CONNECT_RETRIES", 0),
			},
		},
		store.WithLogger(*l),
		store.WithQueryTracer(m),
	)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeStartup, "open postgres")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{
		Config:         apiCfg,
		CredConfig:     credCfg,
		PG:             st.PG,
		Logger:         l,
		Models:         models,
		Hasher:         hasher,
		Metrics:        m,
		CORSOrigins:    apiCfg.MayCSV("CORS_ORIGINS", middleware.DefaultOrigins),
		RequestTimeout: apiCfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		SlowRequest:    apiCfg.MayDuration("SLOW_REQUEST", time.Second),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		EnableMetrics:  apiCfg.MayBool("METRICS", true),
	})

	l.Info().Str("addr", srv.Addr()).Str("version", version.Info().Version).Msg("fraudscore-api listening")
	if err := srv.Run(ctx); err != nil {
		return err
	}
	l.Info().Msg("fraudscore-api drained")
	return nil
}
