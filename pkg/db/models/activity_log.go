package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/scyware/assettrack-backend/pkg/enums"
)

// ActivityLog is the store-scoped compliance record, independent of per-asset
// history. Rows are append-only and written best-effort after mutations.
type ActivityLog struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserName  string         `gorm:"column:user_name;not null"`
	Email     string         `gorm:"column:email;not null"`
	Role      enums.UserRole `gorm:"column:role;type:user_role;not null"`
	Action    string         `gorm:"column:action;not null;index"`
	Details   *string        `gorm:"column:details"`
	StoreID   *uuid.UUID     `gorm:"column:store_id;type:uuid;index:idx_activity_store_created"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime;index:idx_activity_store_created"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
