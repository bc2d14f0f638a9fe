package journal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/flowdex/tradecore/internal/types"
)

// Store is the Trade Journal's persistence boundary. Grounded on the
// teacher's internal/db/transaction_recorder.go: a thin wrapper over one
// *gorm.DB, one constructor dialing MySQL, AutoMigrate run once at
// startup.
type Store struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New dials MySQL at dsn and migrates the journal's tables.
func New(dsn string, logger *zap.SugaredLogger) (*Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("journal: open mysql: %w", err)
	}
	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an already-open *gorm.DB — the seam tests use to swap
// in a go-sqlmock-backed connection without a live MySQL instance.
func NewWithDB(db *gorm.DB, logger *zap.SugaredLogger) *Store {
	return &Store{db: db, logger: logger}
}

func (s *Store) migrate() error {
	return s.db.AutoMigrate(&tradeConfigRow{}, &botStatusRow{}, &tradeLogRow{}, &assetSnapshotRow{})
}

// CreateConfig inserts cfg as the sole active config for (cfg.UserID,
// cfg.Network), deactivating any existing active row first. MySQL has no
// partial unique index, so the "at most one active config" invariant
// (spec.md §3) is enforced transactionally rather than at the schema
// level — see DESIGN.md's Open-Question resolution.
func (s *Store) CreateConfig(ctx context.Context, cfg *types.TradeConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}

	row := toConfigRow(cfg)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&tradeConfigRow{}).
			Where("user_id = ? AND network = ?", cfg.UserID, string(cfg.Network)).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("journal: deactivate existing configs: %w", err)
		}
		row.IsActive = true
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("journal: insert config: %w", err)
		}
		return nil
	})
}

// GetActiveConfig returns (userId, network)'s active config, or
// NoActiveConfig if none exists.
func (s *Store) GetActiveConfig(ctx context.Context, userID string, network types.Network) (*types.TradeConfig, error) {
	var row tradeConfigRow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND network = ? AND is_active = ?", userID, string(network), true).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, types.NewTradeError(types.NoActiveConfig, "no active config for user %s on %s", userID, network)
	}
	if err != nil {
		return nil, fmt.Errorf("journal: get active config: %w", err)
	}
	cfg := fromConfigRow(&row)
	return &cfg, nil
}

// DeactivateConfig clears the active config for (userId, network) without
// inserting a replacement. Stopping a bot does not call it: StopBot only
// clears the BotStatus running flag and leaves the config active.
func (s *Store) DeactivateConfig(ctx context.Context, userID string, network types.Network) error {
	return s.db.WithContext(ctx).Model(&tradeConfigRow{}).
		Where("user_id = ? AND network = ?", userID, string(network)).
		Update("is_active", false).Error
}

// GetAllActiveConfigs returns userID's active config for every network it
// has one on — spec.md §6 `configs.active` without a network filter.
func (s *Store) GetAllActiveConfigs(ctx context.Context, userID string) ([]types.TradeConfig, error) {
	var rows []tradeConfigRow
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("network").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("journal: get all active configs: %w", err)
	}
	out := make([]types.TradeConfig, len(rows))
	for i := range rows {
		out[i] = fromConfigRow(&rows[i])
	}
	return out, nil
}

// GetAllConfigs returns every config row userID has ever saved, active or
// not, newest first — spec.md §6 `POST configs`'s implicit history view.
func (s *Store) GetAllConfigs(ctx context.Context, userID string) ([]types.TradeConfig, error) {
	var rows []tradeConfigRow
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("journal: get all configs: %w", err)
	}
	out := make([]types.TradeConfig, len(rows))
	for i := range rows {
		out[i] = fromConfigRow(&rows[i])
	}
	return out, nil
}
