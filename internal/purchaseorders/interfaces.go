package purchaseorders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scyware/assettrack-backend/pkg/db/models"
	"github.com/scyware/assettrack-backend/pkg/enums"
	"github.com/scyware/assettrack-backend/pkg/pagination"
)

// Repository defines persistence operations for purchase orders. Items are
// written with their document in one transaction. The status update is
// conditional on the observed status.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, order *models.PurchaseOrder) (*models.PurchaseOrder, error)
	FindByID(ctx context.Context, orderID uuid.UUID, scope *uuid.UUID) (*models.PurchaseOrder, error)
	List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.PurchaseOrder, error)

	StatusUpdate(ctx context.Context, orderID uuid.UUID, from, to enums.PurchaseOrderStatus, scope *uuid.UUID) (int64, error)
}
