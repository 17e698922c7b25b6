// Package httpkit re-exports the platform http seam for modules
// modules import this instead of internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "fraudscore/internal/platform/net/http"
)

type (
	// Envelope is the transport envelope type
	Envelope = phttp.Envelope

	// Response is a prepared status and body a handler may return
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is a re-export of the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Error returns a response that maps an error to status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Status returns a response with an explicit status and a data body
func Status(code int, data any) Response { return Response{Status: code, Body: data} }

// Handle adapts a Response-returning function
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }
