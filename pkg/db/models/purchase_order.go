package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/scyware/assettrack-backend/pkg/enums"
)

// PurchaseOrder is a procurement document against a vendor. Money fields are
// exact decimals; totals are derived from the line items at write time.
type PurchaseOrder struct {
	ID           uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PONumber     string                    `gorm:"column:po_number;not null;index"`
	VendorID     uuid.UUID                 `gorm:"column:vendor_id;type:uuid;not null;index"`
	Vendor       *Vendor                   `gorm:"foreignKey:VendorID"`
	OrderDate    time.Time                 `gorm:"column:order_date;not null"`
	DeliveryDate *time.Time                `gorm:"column:delivery_date"`
	Items        []PurchaseOrderItem       `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
	Subtotal     decimal.Decimal           `gorm:"column:subtotal;type:numeric(14,2);not null"`
	TaxTotal     decimal.Decimal           `gorm:"column:tax_total;type:numeric(14,2);not null"`
	GrandTotal   decimal.Decimal           `gorm:"column:grand_total;type:numeric(14,2);not null"`
	Notes        *string                   `gorm:"column:notes"`
	Attachments  pq.StringArray            `gorm:"column:attachments;type:text[]"`
	Status       enums.PurchaseOrderStatus `gorm:"column:status;type:purchase_order_status;not null;default:'draft';index"`
	StoreID      uuid.UUID                 `gorm:"column:store_id;type:uuid;not null;index"`
	CreatedByID  uuid.UUID                 `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt    time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

// PurchaseOrderItem is one line of a purchase order.
type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PurchaseOrderID uuid.UUID       `gorm:"column:purchase_order_id;type:uuid;not null;index"`
	ItemName        string          `gorm:"column:item_name;not null"`
	Quantity        int             `gorm:"column:quantity;not null"`
	Rate            decimal.Decimal `gorm:"column:rate;type:numeric(14,2);not null"`
	Tax             decimal.Decimal `gorm:"column:tax;type:numeric(14,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"column:total;type:numeric(14,2);not null"`
}
