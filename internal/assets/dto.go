package assets

import (
	"time"

	"github.com/google/uuid"

	"github.com/scyware/assettrack-backend/pkg/db/models"
	"github.com/scyware/assettrack-backend/pkg/enums"
)

// Actor identifies who is performing a custody operation.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  enums.UserRole
}

// ListFilters narrows asset listings.
type ListFilters struct {
	Status       *enums.AssetStatus
	AssignedToID *uuid.UUID
	Search       string
}

// IntakeInput registers one new asset in the ledger.
type IntakeInput struct {
	Actor        Actor
	Scope        *uuid.UUID
	StoreID      uuid.UUID
	SerialNumber string
	Name         string
	ModelNumber  string
	MACAddress   *string
	Status       enums.AssetStatus
	TicketNumber *string
}

// BulkIntakeItem is one unit inside a vendor-receipt intake.
type BulkIntakeItem struct {
	SerialNumber string
	Name         string
	ModelNumber  string
	MACAddress   *string
}

// BulkIntakeInput registers a batch of assets received from a vendor.
type BulkIntakeInput struct {
	Actor        Actor
	Scope        *uuid.UUID
	StoreID      uuid.UUID
	Status       enums.AssetStatus
	TicketNumber *string
	Items        []BulkIntakeItem
}

// CollectInput claims custody of an available asset.
type CollectInput struct {
	Actor                Actor
	Scope                *uuid.UUID
	AssetID              uuid.UUID
	TicketNumber         string
	InstallationLocation string
}

// FaultyInput reports an asset faulty and releases custody.
type FaultyInput struct {
	Actor        Actor
	Scope        *uuid.UUID
	AssetID      uuid.UUID
	TicketNumber string
	Detail       *string
}

// ReturnRequestInput stages a return for admin review.
type ReturnRequestInput struct {
	Actor        Actor
	Scope        *uuid.UUID
	AssetID      uuid.UUID
	Condition    enums.AssetStatus
	TicketNumber string
}

// ReturnDecisionInput approves or rejects a staged return.
type ReturnDecisionInput struct {
	Actor   Actor
	Scope   *uuid.UUID
	AssetID uuid.UUID
}

// DisposeInput retires a faulty asset permanently.
type DisposeInput struct {
	Actor   Actor
	Scope   *uuid.UUID
	AssetID uuid.UUID
	Detail  *string
}

// ForceStatusInput sets an arbitrary status outside the custody state machine.
type ForceStatusInput struct {
	Actor   Actor
	Scope   *uuid.UUID
	AssetID uuid.UUID
	Status  enums.AssetStatus
	Reason  *string
}

// AssetDetail bundles an asset with its full custody history.
type AssetDetail struct {
	Asset   models.Asset
	History []models.AssetHistoryEntry
}

// HeldAsset is one entry in a technician's "my assets" view. Past custody is
// classified by the last ledger verb the technician produced on the asset.
type HeldAsset struct {
	Asset    models.Asset
	LastVerb enums.HistoryVerb
	LastAt   time.Time
}

// MyAssets splits a technician's assets into active custody and prior custody.
type MyAssets struct {
	Current []HeldAsset
	Past    []HeldAsset
}
