// internal/storage/file.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"gearspire/internal/save"
)

const fileExt = ".json"

// FileStore keeps one JSON document per slot in a directory.
type FileStore struct {
	dir string
	log zerolog.Logger
}

func NewFileStore(dir string, log zerolog.Logger) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &FileStore{dir: dir, log: log}, nil
}

func (s *FileStore) path(slot string) string {
	return filepath.Join(s.dir, slot+fileExt)
}

// Save writes through a temp file so a crash never leaves half a save behind.
func (s *FileStore) Save(ctx context.Context, slot string, st *save.SaveState) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := save.Encode(st)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, slot+".*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", slot, err)
	}
	if err := os.Rename(tmp.Name(), s.path(slot)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", slot, err)
	}
	s.log.Debug().Str("slot", slot).Int("bytes", len(data)).Msg("saved")
	return nil
}

func (s *FileStore) Load(ctx context.Context, slot string) (*save.SaveState, error) {
	if err := ValidateSlot(slot); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", slot, err)
	}
	return save.Decode(data)
}

// List returns slots newest first. Unreadable files are logged and skipped.
func (s *FileStore) List(ctx context.Context) ([]SlotInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	var out []SlotInfo
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		slot := strings.TrimSuffix(name, fileExt)
		if ValidateSlot(slot) != nil {
			continue
		}
		st, err := s.Load(ctx, slot)
		if err != nil {
			s.log.Warn().Err(err).Str("slot", slot).Msg("skipping unreadable save")
			continue
		}
		out = append(out, infoOf(slot, st))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, slot string) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	err := os.Remove(s.path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, slot)
	}
	return err
}

func (s *FileStore) Close() error { return nil }
