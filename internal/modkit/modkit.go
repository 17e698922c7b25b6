// Package modkit wires API modules from shared deps and a few build options
package modkit

import "fraudscore/internal/modkit/module"

// Module is what the API mounts: routes under a prefix plus a port set other modules may consume
type Module = module.Module

// Builder is the constructor shape every module exposes
type Builder func(Deps, ...Option) Module
