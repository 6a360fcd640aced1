package requests

import (
	"github.com/google/uuid"

	"github.com/scyware/assettrack-backend/pkg/enums"
)

// Actor identifies who is acting on a procurement request.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  enums.UserRole
}

// ListFilters narrows request listings. Search matches the requester's name,
// email, phone, and username.
type ListFilters struct {
	Status *enums.RequestStatus
	Search string
}

// CreateInput opens a new procurement request in status pending.
type CreateInput struct {
	Actor       Actor
	Scope       *uuid.UUID
	StoreID     *uuid.UUID
	ItemName    string
	Quantity    int
	Description string
}

// DecisionInput moves a request along the workflow.
type DecisionInput struct {
	Actor     Actor
	Scope     *uuid.UUID
	RequestID uuid.UUID
	Status    enums.RequestStatus
}
