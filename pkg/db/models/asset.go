package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/scyware/assettrack-backend/pkg/enums"
)

// Asset represents a tracked physical unit. The pending return request lives in
// nullable columns on the row itself so "at most one outstanding request per
// asset" holds structurally and approval can be a single conditional update.
type Asset struct {
	ID                   uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SerialNumber         string            `gorm:"column:serial_number;not null;uniqueIndex:idx_assets_serial_store"`
	StoreID              uuid.UUID         `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_assets_serial_store"`
	Name                 string            `gorm:"column:name;not null"`
	ModelNumber          string            `gorm:"column:model_number;not null"`
	MACAddress           *string           `gorm:"column:mac_address"`
	Status               enums.AssetStatus `gorm:"column:status;type:asset_status;not null;default:'new'"`
	AssignedToID         *uuid.UUID        `gorm:"column:assigned_to;type:uuid"`
	InstallationLocation *string           `gorm:"column:installation_location"`

	ReturnRequestedBy  *uuid.UUID         `gorm:"column:return_requested_by;type:uuid"`
	ReturnCondition    *enums.AssetStatus `gorm:"column:return_condition;type:asset_status"`
	ReturnTicketNumber *string            `gorm:"column:return_ticket_number"`
	ReturnRequestedAt  *time.Time         `gorm:"column:return_requested_at"`

	History []AssetHistoryEntry `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// HasPendingReturn reports whether a staged return request is outstanding.
func (a *Asset) HasPendingReturn() bool {
	return a != nil && a.ReturnRequestedBy != nil
}
