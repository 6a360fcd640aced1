package stores

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scyware/assettrack-backend/pkg/db/models"
)

// Repository defines persistence operations for stores.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, store *models.Store) (*models.Store, error)
	FindByID(ctx context.Context, storeID uuid.UUID) (*models.Store, error)
	FindMain(ctx context.Context) (*models.Store, error)
	List(ctx context.Context) ([]models.Store, error)
	Rename(ctx context.Context, storeID uuid.UUID, name string) (int64, error)
}
