package purchaseorders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scyware/assettrack-backend/pkg/db/models"
	"github.com/scyware/assettrack-backend/pkg/enums"
	"github.com/scyware/assettrack-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a purchase order repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.PurchaseOrder) (*models.PurchaseOrder, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].PurchaseOrderID = order.ID
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, orderID uuid.UUID, scope *uuid.UUID) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	query := r.db.WithContext(ctx).Where("id = ?", orderID)
	query = scoped(query, scope)
	err := query.
		Preload("Items").
		Preload("Vendor").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.PurchaseOrder, error) {
	query := scoped(r.db.WithContext(ctx), scope)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.VendorID != nil {
		query = query.Where("vendor_id = ?", *filters.VendorID)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var out []models.PurchaseOrder
	err = query.
		Preload("Vendor").
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) StatusUpdate(ctx context.Context, orderID uuid.UUID, from, to enums.PurchaseOrderStatus, scope *uuid.UUID) (int64, error) {
	query := scoped(r.db.WithContext(ctx).Model(&models.PurchaseOrder{}), scope).
		Where("id = ?", orderID).
		Where("status = ?", from)
	res := query.Update("status", to)
	return res.RowsAffected, res.Error
}

func scoped(query *gorm.DB, scope *uuid.UUID) *gorm.DB {
	if scope == nil {
		return query
	}
	return query.Where("store_id = ?", *scope)
}
