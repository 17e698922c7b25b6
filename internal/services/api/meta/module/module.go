// Package module wires meta endpoints into the API
package module

import (
	"time"

	modkit "fraudscore/internal/modkit"
	"fraudscore/internal/modkit/httpkit"
	str "fraudscore/internal/platform/strings"

	metahttp "fraudscore/internal/services/api/meta/http"
)

// Module implements modkit.Module
type Module struct {
	built modkit.Built
	deps  metahttp.Deps
}

// New constructs the meta module; models may be nil until scoring is wired
func New(deps modkit.Deps, serviceName string, models metahttp.ModelInfo, opts ...modkit.Option) modkit.Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)
	return &Module{
		built: b,
		deps: metahttp.Deps{
			ServiceName: serviceName,
			StartedAt:   time.Now(),
			PG:          deps.Pinger(),
			Models:      models,
		},
	}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(sub httpkit.Router) {
		metahttp.Register(sub, m.deps)
	})
}

// Name implements modkit.Module
func (m *Module) Name() string { return str.MustString(m.built.Name, "meta") }

// Ports implements modkit.Module
func (m *Module) Ports() any { return nil }
