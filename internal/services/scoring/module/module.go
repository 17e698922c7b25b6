// Package module wires scoring into the API using modkit
package module

import (
	"time"

	modkit "fraudscore/internal/modkit"
	"fraudscore/internal/modkit/httpkit"
	"fraudscore/internal/modkit/repokit"
	str "fraudscore/internal/platform/strings"
	scoringhttp "fraudscore/internal/services/scoring/http"
	scoringrepo "fraudscore/internal/services/scoring/repo"
	scoringsvc "fraudscore/internal/services/scoring/service"
)

// DefaultLedgerTimeout caps each ledger transaction server side
const DefaultLedgerTimeout = 5 * time.Second

// Module implements modkit.Module for the predict endpoints
type Module struct {
	built modkit.Built
	ports Ports
}

// New constructs the scoring module
// deps.Cfg is read for LEDGER_TIMEOUT; zero disables the per transaction cap
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	if deps.Models == nil {
		panic("scoring module requires a loaded model registry")
	}
	if deps.PG == nil {
		panic("scoring module requires a postgres TxRunner")
	}
	b := modkit.Build([]modkit.Option{modkit.WithName("scoring"), modkit.WithPrefix("/predict")}, opts...)

	timeout := deps.Cfg.MayDuration("LEDGER_TIMEOUT", DefaultLedgerTimeout)
	db := repokit.WithBeginHooks(deps.PG, repokit.LocalStatementTimeout(timeout))
	ledger := scoringrepo.NewLedger(db, scoringrepo.NewPG())
	svc := scoringsvc.New(deps.Models, ledger, deps.Metrics)

	deps.Log.Info().
		Str("module", b.Name).
		Str("prefix", b.Prefix).
		Dur("ledger_timeout", timeout).
		Msg("scoring module ready")

	return &Module{
		built: b,
		ports: Ports{Scoring: svc, Ledger: ledger, Models: deps.Models},
	}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(sub httpkit.Router) {
		scoringhttp.Register(sub, m.ports.Scoring)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.built.Name, "module name") }
