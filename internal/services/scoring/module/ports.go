package module

import (
	"fraudscore/internal/core/model"
	"fraudscore/internal/services/scoring/domain"
	scoringrepo "fraudscore/internal/services/scoring/repo"
)

// ModelInfo is the read side of the registry other modules may show
type ModelInfo interface {
	Info() model.Info
}

// Ports is what scoring exposes to the rest of the API
type Ports struct {
	Scoring domain.ServicePort
	Ledger  *scoringrepo.Ledger
	Models  ModelInfo
}

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }
