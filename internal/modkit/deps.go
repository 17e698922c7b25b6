package modkit

import (
	"fraudscore/internal/core/credential"
	"fraudscore/internal/core/model"
	"fraudscore/internal/modkit/repokit"
	"fraudscore/internal/platform/config"
	"fraudscore/internal/platform/logger"
	"fraudscore/internal/platform/metrics"
)

// Deps holds the process-wide collaborators handed to every module
// Everything is built once in main; modules never open their own
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner
	Models  *model.Registry
	Hasher  *credential.Hasher
	Metrics *metrics.Metrics
}

// Pinger is the optional readiness surface of PG
func (d Deps) Pinger() repokit.Pinger {
	if p, ok := d.PG.(repokit.Pinger); ok {
		return p
	}
	return nil
}
