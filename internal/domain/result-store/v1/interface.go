package resultstorev1

import (
	"context"

	simulationv1 "github.com/xndrleib/Market-Simulation/internal/domain/simulation/v1"
)

// Store defines the interface for persisting and loading run results.
type Store interface {
	Store(ctx context.Context, result *simulationv1.Result) error
	Load(ctx context.Context, runID int) (*simulationv1.Result, error)
}
