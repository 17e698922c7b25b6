// Package module defines the module contract and how ports travel between modules
package module

import (
	phttp "fraudscore/internal/platform/net/http"
)

// Module is the minimal contract the API composes
// It lives apart from modkit so a module can import its peers' port types without a cycle
type Module interface {
	// MountRoutes attaches the module's endpoints to r
	MountRoutes(r phttp.Router)
	// Ports returns the module's port struct, or nil
	Ports() any
	// Name identifies the module in logs and the port registry
	Name() string
}
