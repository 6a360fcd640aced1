package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/scyware/assettrack-backend/pkg/enums"
)

// AssetHistoryEntry is one element of the append-only custody ledger. Rows are
// inserted in the same transaction as the status change they describe and are
// never updated or deleted.
type AssetHistoryEntry struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AssetID      uuid.UUID          `gorm:"column:asset_id;type:uuid;not null;index:idx_asset_history_asset"`
	Verb         enums.HistoryVerb  `gorm:"column:verb;type:history_verb;not null"`
	Qualifier    *enums.AssetStatus `gorm:"column:qualifier;type:asset_status"`
	ActorID      uuid.UUID          `gorm:"column:actor_id;type:uuid;not null"`
	ActorName    string             `gorm:"column:actor_name;not null"`
	TicketNumber *string            `gorm:"column:ticket_number"`
	Detail       *string            `gorm:"column:detail"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
}

func (AssetHistoryEntry) TableName() string {
	return "asset_history"
}
