package purchaseorders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/scyware/assettrack-backend/pkg/enums"
)

// Actor identifies who is acting on a purchase order.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  enums.UserRole
}

// ListFilters narrows purchase order listings.
type ListFilters struct {
	Status   *enums.PurchaseOrderStatus
	VendorID *uuid.UUID
}

// ItemInput is one line of a new purchase order. Tax is an absolute amount per
// line, not a rate.
type ItemInput struct {
	ItemName string
	Quantity int
	Rate     decimal.Decimal
	Tax      decimal.Decimal
}

// CreateInput opens a purchase order in status draft.
type CreateInput struct {
	Actor        Actor
	Scope        *uuid.UUID
	StoreID      uuid.UUID
	VendorID     uuid.UUID
	OrderDate    time.Time
	DeliveryDate *time.Time
	Notes        *string
	Attachments  []string
	Items        []ItemInput
}

// DecisionInput moves a purchase order along its lifecycle.
type DecisionInput struct {
	Actor   Actor
	Scope   *uuid.UUID
	OrderID uuid.UUID
	Status  enums.PurchaseOrderStatus
}
