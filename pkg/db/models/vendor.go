package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/scyware/assettrack-backend/pkg/enums"
)

// Vendor is a supplier record; name and tax id are unique within a store, not
// globally.
type Vendor struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string             `gorm:"column:name;not null;uniqueIndex:idx_vendors_name_store"`
	StoreID       uuid.UUID          `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_vendors_name_store"`
	ContactPerson string             `gorm:"column:contact_person;not null"`
	Phone         string             `gorm:"column:phone;not null"`
	Email         *string            `gorm:"column:email"`
	Address       *string            `gorm:"column:address"`
	TaxID         *string            `gorm:"column:tax_id"`
	PaymentTerms  *string            `gorm:"column:payment_terms"`
	Status        enums.VendorStatus `gorm:"column:status;type:vendor_status;not null;default:'active'"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
