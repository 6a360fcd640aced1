package assets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scyware/assettrack-backend/pkg/db/models"
	"github.com/scyware/assettrack-backend/pkg/enums"
	"github.com/scyware/assettrack-backend/pkg/pagination"
)

// Repository defines persistence operations for the asset ledger. Every read
// takes an optional store scope; nil means the caller resolved to the wildcard
// scope. Conditional updates return the number of rows affected so callers can
// detect lost races.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, asset *models.Asset) (*models.Asset, error)
	CreateBatch(ctx context.Context, batch []models.Asset) error
	FindByID(ctx context.Context, assetID uuid.UUID, scope *uuid.UUID) (*models.Asset, error)
	List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Asset, error)
	ListAssignedTo(ctx context.Context, userID uuid.UUID) ([]models.Asset, error)
	ListTouchedBy(ctx context.Context, userID uuid.UUID) ([]models.Asset, error)
	ListPendingReturns(ctx context.Context, scope *uuid.UUID) ([]models.Asset, error)

	AppendHistory(ctx context.Context, entry *models.AssetHistoryEntry) error
	FindHistory(ctx context.Context, assetID uuid.UUID) ([]models.AssetHistoryEntry, error)

	CollectUpdate(ctx context.Context, assetID, technicianID uuid.UUID, location string, scope *uuid.UUID) (int64, error)
	FaultyUpdate(ctx context.Context, assetID uuid.UUID, holderID *uuid.UUID, scope *uuid.UUID) (int64, error)
	StageReturnUpdate(ctx context.Context, assetID, requesterID uuid.UUID, condition enums.AssetStatus, ticket string, scope *uuid.UUID) (int64, error)
	ApproveReturnUpdate(ctx context.Context, assetID uuid.UUID, scope *uuid.UUID) (int64, error)
	RejectReturnUpdate(ctx context.Context, assetID uuid.UUID, scope *uuid.UUID) (int64, error)
	DisposeUpdate(ctx context.Context, assetID uuid.UUID, scope *uuid.UUID) (int64, error)
	ForceStatusUpdate(ctx context.Context, assetID uuid.UUID, status enums.AssetStatus, clearAssignment bool, scope *uuid.UUID) (int64, error)
}
