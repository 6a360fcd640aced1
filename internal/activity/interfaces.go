package activity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scyware/assettrack-backend/pkg/db/models"
	"github.com/scyware/assettrack-backend/pkg/pagination"
)

// Repository defines persistence for the append-only activity log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.ActivityLog, error)
}
