// internal/storage/gorm.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"gearspire/internal/save"
)

// saveRecord — одна строка на слот, сам сейв лежит в Data как JSON
type saveRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	Slot      string `gorm:"uniqueIndex;size:64;not null"`
	SessionID string `gorm:"size:36"`
	Wave      int
	Score     int
	SavedAt   time.Time
	Data      datatypes.JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (saveRecord) TableName() string { return "save_slots" }

// GormStore keeps saves in SQLite or Postgres.
type GormStore struct {
	db  *gorm.DB
	log zerolog.Logger
}

// OpenSQLite opens (or creates) a SQLite database at path.
// An empty path gives a private in-memory database.
func OpenSQLite(path string, log zerolog.Logger) (*GormStore, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql interface: %w", err)
	}
	// у in-memory базы своя копия на каждое соединение
	sqlDB.SetMaxOpenConns(1)
	return newGormStore(db, log)
}

func OpenPostgres(dsn string, log zerolog.Logger) (*GormStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres storage needs storage.dsn")
	}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return newGormStore(db, log)
}

func newGormStore(db *gorm.DB, log zerolog.Logger) (*GormStore, error) {
	if err := db.AutoMigrate(&saveRecord{}); err != nil {
		return nil, fmt.Errorf("migrate save table: %w", err)
	}
	return &GormStore{db: db, log: log}, nil
}

// Save inserts or replaces the slot.
func (s *GormStore) Save(ctx context.Context, slot string, st *save.SaveState) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	data, err := save.Encode(st)
	if err != nil {
		return err
	}
	rec := saveRecord{
		ID:        uuid.NewString(),
		Slot:      slot,
		SessionID: st.SessionID,
		Wave:      st.Wave.Current,
		Score:     st.Score,
		SavedAt:   st.SavedAt,
		Data:      datatypes.JSON(data),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"session_id", "wave", "score", "saved_at", "data", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	s.log.Debug().Str("slot", slot).Int("bytes", len(data)).Msg("saved")
	return nil
}

func (s *GormStore) Load(ctx context.Context, slot string) (*save.SaveState, error) {
	if err := ValidateSlot(slot); err != nil {
		return nil, err
	}
	var rec saveRecord
	err := s.db.WithContext(ctx).Where("slot = ?", slot).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", slot, err)
	}
	return save.Decode(rec.Data)
}

// List returns slots newest first without decoding the blobs.
func (s *GormStore) List(ctx context.Context) ([]SlotInfo, error) {
	var recs []saveRecord
	err := s.db.WithContext(ctx).
		Select("slot", "session_id", "wave", "score", "saved_at").
		Order("saved_at desc").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	out := make([]SlotInfo, 0, len(recs))
	for _, r := range recs {
		out = append(out, SlotInfo{Slot: r.Slot, SessionID: r.SessionID, Wave: r.Wave, Score: r.Score, SavedAt: r.SavedAt})
	}
	return out, nil
}

func (s *GormStore) Delete(ctx context.Context, slot string) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("slot = ?", slot).Delete(&saveRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", slot, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, slot)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
