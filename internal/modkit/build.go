package modkit

import (
	"net/http"

	"fraudscore/internal/modkit/httpkit"
)

// Option mutates build configuration for a module
type Option func(*buildCfg)

type buildCfg struct {
	name      string
	prefix    string
	mw        []func(http.Handler) http.Handler
	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// WithName overrides the module's default name
func WithName(name string) Option { return func(c *buildCfg) { c.name = name } }

// WithPrefix overrides the module's mount path; "" and "/" mount at the root
func WithPrefix(prefix string) Option { return func(c *buildCfg) { c.prefix = prefix } }

// WithMiddlewares appends per module middleware, applied in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *buildCfg) { c.mw = append(c.mw, mw...) }
}

// WithSubrouter lets the caller wrap the module router before endpoints are attached
func WithSubrouter(fn func(httpkit.Router) httpkit.Router) Option {
	return func(c *buildCfg) { c.subrouter = fn }
}

// WithRegister attaches extra endpoints after the module's own
func WithRegister(fn func(httpkit.Router)) Option {
	return func(c *buildCfg) { c.register = fn }
}

// Built is the resolved option set a module keeps
type Built struct {
	Name      string
	Prefix    string
	Mw        []func(http.Handler) http.Handler
	Subrouter func(httpkit.Router) httpkit.Router
	Register  func(httpkit.Router)
}

// Build applies defaults first and then opts, so callers override module defaults
// Hooks are never nil in the result
func Build(defaults []Option, opts ...Option) Built {
	var c buildCfg
	for _, o := range defaults {
		o(&c)
	}
	for _, o := range opts {
		o(&c)
	}
	if c.subrouter == nil {
		c.subrouter = func(r httpkit.Router) httpkit.Router { return r }
	}
	if c.register == nil {
		c.register = func(httpkit.Router) {}
	}
	return Built{
		Name:      c.name,
		Prefix:    c.prefix,
		Mw:        append([]func(http.Handler) http.Handler(nil), c.mw...),
		Subrouter: c.subrouter,
		Register:  c.register,
	}
}

// Mount attaches own, then the external Register hook, under the built prefix and middleware
func (b Built) Mount(r httpkit.Router, own func(httpkit.Router)) {
	httpkit.MountUnder(r, b.Prefix, b.Mw, func(sub httpkit.Router) {
		sub = b.Subrouter(sub)
		own(sub)
		b.Register(sub)
	})
}
