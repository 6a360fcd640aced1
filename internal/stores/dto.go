package stores

import (
	"github.com/google/uuid"

	"github.com/scyware/assettrack-backend/pkg/enums"
)

// Actor identifies who is managing stores.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  enums.UserRole
}

// CreateInput registers a store. At most one store carries the main flag and
// sub-stores hang directly off a top-level store.
type CreateInput struct {
	Actor         Actor
	Name          string
	IsMainStore   bool
	ParentStoreID *uuid.UUID
}

// RenameInput changes a store's display name.
type RenameInput struct {
	Actor   Actor
	StoreID uuid.UUID
	Name    string
}
