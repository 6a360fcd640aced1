package vendors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scyware/assettrack-backend/pkg/db/models"
	"github.com/scyware/assettrack-backend/pkg/pagination"
)

// Repository defines persistence operations for the vendor registry.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error)
	FindByID(ctx context.Context, vendorID uuid.UUID, scope *uuid.UUID) (*models.Vendor, error)
	FindByTaxID(ctx context.Context, taxID string, storeID uuid.UUID) (*models.Vendor, error)
	List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Vendor, error)
	Update(ctx context.Context, vendor *models.Vendor) error
}
