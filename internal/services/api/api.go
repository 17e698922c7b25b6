// Package api composes the HTTP surface: root middleware, modules, docs and ops endpoints
package api

import (
	"time"

	"fraudscore/internal/core/credential"
	"fraudscore/internal/core/model"
	"fraudscore/internal/core/version"
	"fraudscore/internal/modkit"
	"fraudscore/internal/modkit/httpkit"
	"fraudscore/internal/modkit/module"
	"fraudscore/internal/modkit/repokit"
	"fraudscore/internal/modkit/swaggerkit"
	"fraudscore/internal/platform/config"
	"fraudscore/internal/platform/logger"
	"fraudscore/internal/platform/metrics"
	phttp "fraudscore/internal/platform/net/http"

	metahttp "fraudscore/internal/services/api/meta/http"
	metamod "fraudscore/internal/services/api/meta/module"
	credmod "fraudscore/internal/services/credentials/module"
	scoringmod "fraudscore/internal/services/scoring/module"
)

// Options are the API options
type Options struct {
	// Config is the CORE_API_ view; module knobs such as LEDGER_TIMEOUT live there
	Config config.Conf
	// CredConfig is the CRED_ view
	CredConfig config.Conf

	PG      repokit.TxRunner
	Logger  *logger.Logger
	Models  *model.Registry
	Hasher  *credential.Hasher
	Metrics *metrics.Metrics

	CORSOrigins    []string
	RequestTimeout time.Duration
	SlowRequest    time.Duration

	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool
}

// Mount builds every module and attaches it, under the common stack, to r
// r must have no routes yet. Wiring mistakes such as a missing registry panic here, before the server listens
func Mount(r phttp.Router, opt Options) {
	log := opt.Logger
	if log == nil {
		log = logger.Named("api")
	}
	deps := modkit.Deps{
		Log:     *log,
		Cfg:     opt.Config,
		PG:      opt.PG,
		Models:  opt.Models,
		Hasher:  opt.Hasher,
		Metrics: opt.Metrics,
	}
	credDeps := deps
	credDeps.Cfg = opt.CredConfig

	scoring := scoringmod.New(deps)
	models := module.MustPortsOf[scoringmod.ModelInfo](scoring)

	mods := []module.Module{
		metamod.New(deps, version.Service, models),
		scoring,
		credmod.New(credDeps),
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		CORSOrigins:    opt.CORSOrigins,
		RequestTimeout: opt.RequestTimeout,
		SlowRequest:    opt.SlowRequest,
		Metrics:        opt.Metrics,
	})

	// root level so preflight and 404/405 answers pass through CORS and the access log too
	r.Use(stack...)

	metahttp.RegisterBanner(r, version.Service)
	swaggerkit.Mount(r, swaggerkit.Options{
		Enabled:     opt.EnableSwagger,
		TitleSuffix: opt.Config.MayString("DOCS_TITLE_SUFFIX", ""),
	})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.EnableMetrics {
		r.Handle("/metrics", opt.Metrics.Handler())
	}

	for _, m := range mods {
		module.Register(m.Name(), m.Ports())
		m.MountRoutes(r)
		log.Debug().Str("module", m.Name()).Msg("module mounted")
	}
}
