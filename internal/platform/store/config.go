package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG PGConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// StatementTimeout bounds every statement server side; zero leaves the server default
	StatementTimeout time.Duration

	// boot knobs; zero picks the defaults below
	ConnectRetries int
	PingTimeout    time.Duration
}

const (
	defaultConnectRetries = 20
	defaultPingTimeout    = 3 * time.Second
	backoffStart          = 150 * time.Millisecond
	backoffCeiling        = 2 * time.Second
)

func (c PGConfig) retries() int {
	if c.ConnectRetries > 0 {
		return c.ConnectRetries
	}
	return defaultConnectRetries
}

func (c PGConfig) pingTimeout() time.Duration {
	if c.PingTimeout > 0 {
		return c.PingTimeout
	}
	return defaultPingTimeout
}
