package requests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scyware/assettrack-backend/pkg/db/models"
	"github.com/scyware/assettrack-backend/pkg/enums"
	"github.com/scyware/assettrack-backend/pkg/pagination"
)

// Repository defines persistence operations for procurement requests. The
// status update is conditional on the caller's observed status so the linear
// workflow holds under concurrent decisions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, request *models.Request) (*models.Request, error)
	FindByID(ctx context.Context, requestID uuid.UUID, scope *uuid.UUID) (*models.Request, error)
	List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Request, error)

	StatusUpdate(ctx context.Context, requestID uuid.UUID, from, to enums.RequestStatus, scope *uuid.UUID) (int64, error)
}
