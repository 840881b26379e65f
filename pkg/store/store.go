// Package store persists server configurations in SQLite.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/braunma/buildcheck/pkg/compat"
	"github.com/braunma/buildcheck/pkg/models"
)

// ErrNotFound is returned when a configuration or component row does not exist
var ErrNotFound = errors.New("not found")

// Configuration is one server build.
type Configuration struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Component is one installed component of a configuration.
type Component struct {
	ID            string `gorm:"primaryKey"`
	ConfigID      string `gorm:"index"`
	Seq           int64  `gorm:"index"`
	ComponentType string `gorm:"index"`
	ComponentUUID string
	Quantity      int
	SlotPosition  string
	CreatedAt     time.Time
}

// Ref converts the row into a component reference
func (c *Component) Ref() models.ComponentRef {
	return models.ComponentRef{
		Type:         models.ComponentType(c.ComponentType),
		UUID:         c.ComponentUUID,
		Quantity:     c.Quantity,
		SlotPosition: c.SlotPosition,
	}
}

// Store provides configuration persistence via SQLite.
type Store struct {
	db *gorm.DB
}

// NewStore opens (or creates) a SQLite configuration store. Use ":memory:" for tests.
func NewStore(dbPath string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serialises writers.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Configuration{}, &Component{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateConfiguration creates an empty configuration with a generated id.
func (s *Store) CreateConfiguration(ctx context.Context, name string) (*Configuration, error) {
	cfg := &Configuration{ID: uuid.NewString(), Name: name}
	if err := s.db.WithContext(ctx).Create(cfg).Error; err != nil {
		return nil, fmt.Errorf("create configuration: %w", err)
	}
	return cfg, nil
}

// GetConfiguration retrieves a configuration by id.
func (s *Store) GetConfiguration(ctx context.Context, id string) (*Configuration, error) {
	var cfg Configuration
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("configuration %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &cfg, nil
}

// ListConfigurations returns all configurations, newest first.
func (s *Store) ListConfigurations(ctx context.Context) ([]*Configuration, error) {
	var configs []*Configuration
	if err := s.db.WithContext(ctx).Order("created_at DESC, id").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// DeleteConfiguration removes a configuration and its components.
func (s *Store) DeleteConfiguration(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&Configuration{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("configuration %s: %w", id, ErrNotFound)
		}
		return tx.Where("config_id = ?", id).Delete(&Component{}).Error
	})
}

// ImportSnapshot stores a snapshot as a new configuration, keeping its id when set.
func (s *Store) ImportSnapshot(ctx context.Context, snap *models.ConfigurationSnapshot) (*Configuration, error) {
	cfg := &Configuration{ID: snap.ConfigID, Name: snap.Name}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cfg).Error; err != nil {
			return fmt.Errorf("create configuration %s: %w", cfg.ID, err)
		}
		for i, ref := range snap.Components() {
			row := newComponent(cfg.ID, int64(i+1), ref)
			if err := tx.Create(row).Error; err != nil {
				return fmt.Errorf("create component %s: %w", ref, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// AddComponent appends a component to a configuration. Motherboard and chassis
// are single-instance.
func (s *Store) AddComponent(ctx context.Context, configID string, ref models.ComponentRef) (*Component, error) {
	var row *Component
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cfg Configuration
		if err := tx.Where("id = ?", configID).First(&cfg).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("configuration %s: %w", configID, ErrNotFound)
			}
			return err
		}

		if ref.Type.SingleInstance() {
			var count int64
			if err := tx.Model(&Component{}).
				Where("config_id = ? AND component_type = ?", configID, string(ref.Type)).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("configuration %s already has a %s", configID, ref.Type)
			}
		}

		var maxSeq int64
		if err := tx.Model(&Component{}).Where("config_id = ?", configID).
			Select("COALESCE(MAX(seq), 0)").Scan(&maxSeq).Error; err != nil {
			return err
		}

		row = newComponent(configID, maxSeq+1, ref)
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		return tx.Model(&cfg).Update("updated_at", time.Now().UTC()).Error
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// RemoveComponent removes the most recently added component matching type and uuid.
func (s *Store) RemoveComponent(ctx context.Context, configID string, t models.ComponentType, componentUUID string) error {
	var row Component
	err := s.db.WithContext(ctx).
		Where("config_id = ? AND component_type = ? AND component_uuid = ?", configID, string(t), componentUUID).
		Order("seq DESC").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%s %s in configuration %s: %w", t, componentUUID, configID, ErrNotFound)
		}
		return err
	}
	return s.db.WithContext(ctx).Delete(&row).Error
}

// ListComponents returns the components of a configuration in insertion order.
func (s *Store) ListComponents(ctx context.Context, configID string) ([]*Component, error) {
	var rows []*Component
	if err := s.db.WithContext(ctx).Where("config_id = ?", configID).Order("seq").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetSnapshot builds the configuration snapshot consumed by the engine.
func (s *Store) GetSnapshot(ctx context.Context, configID string) (*models.ConfigurationSnapshot, error) {
	cfg, err := s.GetConfiguration(ctx, configID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", configID, compat.ErrSnapshotNotFound)
		}
		return nil, err
	}

	rows, err := s.ListComponents(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("list components of %s: %w", configID, err)
	}

	snap := models.NewSnapshot(cfg.ID)
	snap.Name = cfg.Name
	for _, row := range rows {
		if err := snap.Add(row.Ref()); err != nil {
			return nil, fmt.Errorf("configuration %s: %w", configID, err)
		}
	}
	return snap, nil
}

func newComponent(configID string, seq int64, ref models.ComponentRef) *Component {
	return &Component{
		ID:            uuid.NewString(),
		ConfigID:      configID,
		Seq:           seq,
		ComponentType: string(ref.Type),
		ComponentUUID: ref.UUID,
		Quantity:      ref.Count(),
		SlotPosition:  ref.SlotPosition,
	}
}
