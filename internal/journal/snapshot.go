package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flowdex/tradecore/internal/types"
)

// Snapshot is a point-in-time reading RecordSnapshot writes and
// RecentSnapshots reads back — informational only, never consulted by the
// trade-log state machine (spec.md §11).
type Snapshot struct {
	Network    types.Network
	VolumeUsd  decimal.Decimal
	CapturedAt time.Time
}

// RecordSnapshot persists a point-in-time volume reading for network,
// carried over from the teacher's asset-snapshot recording shape. The
// scheduler calls this after a tick to build a reporting trail distinct
// from the authoritative trade_logs rows.
func (s *Store) RecordSnapshot(ctx context.Context, network types.Network, volumeUsd decimal.Decimal) error {
	row := assetSnapshotRow{Network: string(network), VolumeUsd: volumeUsd, CapturedAt: time.Now()}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("journal: record snapshot: %w", err)
	}
	return nil
}

// RecentSnapshots returns network's most recent snapshots, newest first,
// capped at limit.
func (s *Store) RecentSnapshots(ctx context.Context, network types.Network, limit int) ([]Snapshot, error) {
	var rows []assetSnapshotRow
	if err := s.db.WithContext(ctx).
		Where("network = ?", string(network)).
		Order("captured_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("journal: recent snapshots: %w", err)
	}

	snapshots := make([]Snapshot, len(rows))
	for i, r := range rows {
		snapshots[i] = Snapshot{Network: types.Network(r.Network), VolumeUsd: r.VolumeUsd, CapturedAt: r.CapturedAt}
	}
	return snapshots, nil
}
