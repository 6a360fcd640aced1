package models

import (
	"time"

	"github.com/google/uuid"
)

// Store represents the tenant boundary. Sub-locations reference their parent;
// nesting is a single level deep.
type Store struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string     `gorm:"column:name;not null;uniqueIndex"`
	IsMainStore   bool       `gorm:"column:is_main_store;not null;default:false"`
	ParentStoreID *uuid.UUID `gorm:"column:parent_store_id;type:uuid"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
