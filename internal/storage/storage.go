// internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"gearspire/internal/config"
	"gearspire/internal/save"
)

var (
	ErrNotFound    = errors.New("save slot not found")
	ErrInvalidSlot = errors.New("invalid slot name")
)

// SlotInfo describes a stored save without loading it.
type SlotInfo struct {
	Slot      string    `json:"slot"`
	SessionID string    `json:"sessionId"`
	Wave      int       `json:"wave"`
	Score     int       `json:"score"`
	SavedAt   time.Time `json:"savedAt"`
}

// Store is the interface every save backend implements.
type Store interface {
	Save(ctx context.Context, slot string, st *save.SaveState) error
	Load(ctx context.Context, slot string) (*save.SaveState, error)
	List(ctx context.Context) ([]SlotInfo, error)
	Delete(ctx context.Context, slot string) error
	Close() error
}

var slotPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateSlot keeps slot names safe for both file names and SQL keys.
func ValidateSlot(slot string) error {
	if !slotPattern.MatchString(slot) {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return nil
}

func infoOf(slot string, st *save.SaveState) SlotInfo {
	return SlotInfo{
		Slot:      slot,
		SessionID: st.SessionID,
		Wave:      st.Wave.Current,
		Score:     st.Score,
		SavedAt:   st.SavedAt,
	}
}

// Open creates the backend selected by settings.
func Open(s config.StorageSettings, log zerolog.Logger) (Store, error) {
	log = log.With().Str("component", "storage").Str("driver", s.Driver).Logger()
	switch s.Driver {
	case "file":
		return NewFileStore(s.Path, log)
	case "sqlite":
		return OpenSQLite(s.Path, log)
	case "postgres":
		return OpenPostgres(s.DSN, log)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", s.Driver)
	}
}
