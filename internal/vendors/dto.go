package vendors

import (
	"github.com/google/uuid"

	"github.com/scyware/assettrack-backend/pkg/enums"
)

// Actor identifies who is managing vendors.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  enums.UserRole
}

// ListFilters narrows vendor listings.
type ListFilters struct {
	Status *enums.VendorStatus
	Search string
}

// CreateInput registers a supplier for a store.
type CreateInput struct {
	Actor         Actor
	Scope         *uuid.UUID
	StoreID       uuid.UUID
	Name          string
	ContactPerson string
	Phone         string
	Email         *string
	Address       *string
	TaxID         *string
	PaymentTerms  *string
}

// UpdateInput changes supplier details. Nil fields are left untouched.
type UpdateInput struct {
	Actor         Actor
	Scope         *uuid.UUID
	VendorID      uuid.UUID
	Name          *string
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
	TaxID         *string
	PaymentTerms  *string
	Status        *enums.VendorStatus
}
