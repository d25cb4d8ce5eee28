package interfaces

import (
	"context"

	"gearspire/internal/app"
)

// GameRunner is what outer surfaces need from a running simulation.
type GameRunner interface {
	Do(ctx context.Context, cmd app.Command) (any, error)
	Snapshot() app.Snapshot
}
