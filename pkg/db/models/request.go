package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/scyware/assettrack-backend/pkg/enums"
)

// Request is a procurement ask. Distinct from asset custody: it follows the
// linear pending -> approved -> ordered workflow with rejected as the only
// other exit.
type Request struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ItemName    string              `gorm:"column:item_name;not null"`
	Quantity    int                 `gorm:"column:quantity;not null;default:1"`
	Description string              `gorm:"column:description;not null;default:''"`
	Status      enums.RequestStatus `gorm:"column:status;type:request_status;not null;default:'pending'"`
	RequesterID uuid.UUID           `gorm:"column:requester_id;type:uuid;not null"`
	Requester   *User               `gorm:"foreignKey:RequesterID"`
	StoreID     *uuid.UUID          `gorm:"column:store_id;type:uuid;index"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
