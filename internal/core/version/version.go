// Package version reports what build is running and which process instance answered
package version

import "github.com/google/uuid"

// BuildInfo is the /meta/version payload
type BuildInfo struct {
	Service  string `json:"service"`
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Date     string `json:"date"`
	Instance string `json:"instance"`
}

// Info returns the build stamp
// set with -ldflags "-X 'fraudscore/internal/core/version.version=v1.2.0' -X ...commit=abcd -X ...date=2026-10-01"
func Info() BuildInfo {
	return BuildInfo{
		Service:  Service,
		Version:  version,
		Commit:   commit,
		Date:     date,
		Instance: instance,
	}
}

// Instance is a random id minted at process start, stamped on logs so replicas can be told apart
func Instance() string { return instance }

// Service is the name the API reports in its banner and logs
const Service = "fraudscore-api"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	instance = uuid.NewString()
)
