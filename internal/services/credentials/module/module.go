// Package module wires the credential endpoints into the API
package module

import (
	modkit "fraudscore/internal/modkit"
	"fraudscore/internal/modkit/httpkit"
	str "fraudscore/internal/platform/strings"
	credhttp "fraudscore/internal/services/credentials/http"
	credsvc "fraudscore/internal/services/credentials/service"
)

// Module implements modkit.Module
type Module struct {
	built modkit.Built
	svc   *credsvc.Svc
}

// New constructs the credentials module; it mounts at the root by default
// deps.Cfg is read for MAX_CONCURRENT
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	if deps.Hasher == nil {
		panic("credentials module requires a hasher")
	}
	b := modkit.Build([]modkit.Option{modkit.WithName("credentials"), modkit.WithPrefix("/")}, opts...)
	workers := deps.Cfg.MayInt("MAX_CONCURRENT", 0)
	return &Module{
		built: b,
		svc:   credsvc.New(deps.Hasher, deps.Metrics, workers),
	}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(sub httpkit.Router) {
		credhttp.Register(sub, m.svc)
	})
}

// Ports exposes the service for the CLI and other modules
func (m *Module) Ports() any { return credsvc.Service(m.svc) }

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.built.Name, "module name") }
