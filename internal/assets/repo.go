package assets

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scyware/assettrack-backend/pkg/db/models"
	"github.com/scyware/assettrack-backend/pkg/enums"
	"github.com/scyware/assettrack-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an asset repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, asset *models.Asset) (*models.Asset, error) {
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, err
	}
	return asset, nil
}

func (r *repository) CreateBatch(ctx context.Context, batch []models.Asset) error {
	if len(batch) == 0 {
		return nil
	}
	for i := range batch {
		if batch[i].ID == uuid.Nil {
			batch[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&batch).Error
}

func (r *repository) FindByID(ctx context.Context, assetID uuid.UUID, scope *uuid.UUID) (*models.Asset, error) {
	var asset models.Asset
	query := r.db.WithContext(ctx).Where("id = ?", assetID)
	query = scoped(query, scope)
	if err := query.First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *repository) List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Asset, error) {
	query := scoped(r.db.WithContext(ctx), scope)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.AssignedToID != nil {
		query = query.Where("assigned_to = ?", *filters.AssignedToID)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(serial_number) LIKE ? OR LOWER(name) LIKE ? OR LOWER(model_number) LIKE ?",
			like, like, like,
		)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var out []models.Asset
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListAssignedTo(ctx context.Context, userID uuid.UUID) ([]models.Asset, error) {
	var out []models.Asset
	err := r.db.WithContext(ctx).
		Where("assigned_to = ?", userID).
		Order("updated_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListTouchedBy(ctx context.Context, userID uuid.UUID) ([]models.Asset, error) {
	var out []models.Asset
	err := r.db.WithContext(ctx).
		Where("id IN (?)", r.db.Model(&models.AssetHistoryEntry{}).
			Select("asset_id").
			Where("actor_id = ?", userID)).
		Preload("History", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Order("updated_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListPendingReturns(ctx context.Context, scope *uuid.UUID) ([]models.Asset, error) {
	query := scoped(r.db.WithContext(ctx), scope)
	var out []models.Asset
	err := query.
		Where("return_requested_by IS NOT NULL").
		Order("return_requested_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) AppendHistory(ctx context.Context, entry *models.AssetHistoryEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindHistory(ctx context.Context, assetID uuid.UUID) ([]models.AssetHistoryEntry, error) {
	var out []models.AssetHistoryEntry
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) CollectUpdate(ctx context.Context, assetID, technicianID uuid.UUID, location string, scope *uuid.UUID) (int64, error) {
	query := scoped(r.db.WithContext(ctx).Model(&models.Asset{}), scope).
		Where("id = ?", assetID).
		Where("assigned_to IS NULL").
		Where("status IN ?", collectibleStatuses())
	res := query.Updates(map[string]any{
		"status":                enums.AssetStatusUsed,
		"assigned_to":           technicianID,
		"installation_location": location,
	})
	return res.RowsAffected, res.Error
}

func (r *repository) FaultyUpdate(ctx context.Context, assetID uuid.UUID, holderID *uuid.UUID, scope *uuid.UUID) (int64, error) {
	query := scoped(r.db.WithContext(ctx).Model(&models.Asset{}), scope).
		Where("id = ?", assetID).
		Where("status <> ?", enums.AssetStatusDisposed)
	if holderID != nil {
		query = query.Where("assigned_to = ?", *holderID)
	}
	res := query.Updates(withReturnCleared(map[string]any{
		"status":      enums.AssetStatusFaulty,
		"assigned_to": nil,
	}))
	return res.RowsAffected, res.Error
}

func (r *repository) StageReturnUpdate(ctx context.Context, assetID, requesterID uuid.UUID, condition enums.AssetStatus, ticket string, scope *uuid.UUID) (int64, error) {
	query := scoped(r.db.WithContext(ctx).Model(&models.Asset{}), scope).
		Where("id = ?", assetID).
		Where("assigned_to = ?", requesterID).
		Where("return_requested_by IS NULL")
	res := query.Updates(map[string]any{
		"return_requested_by":  requesterID,
		"return_condition":     condition,
		"return_ticket_number": ticket,
		"return_requested_at":  gorm.Expr("CURRENT_TIMESTAMP"),
	})
	return res.RowsAffected, res.Error
}

func (r *repository) ApproveReturnUpdate(ctx context.Context, assetID uuid.UUID, scope *uuid.UUID) (int64, error) {
	query := scoped(r.db.WithContext(ctx).Model(&models.Asset{}), scope).
		Where("id = ?", assetID).
		Where("return_requested_by IS NOT NULL").
		Where("status <> ?", enums.AssetStatusDisposed)
	res := query.Updates(withReturnCleared(map[string]any{
		"status":      gorm.Expr("return_condition"),
		"assigned_to": nil,
	}))
	return res.RowsAffected, res.Error
}

func (r *repository) RejectReturnUpdate(ctx context.Context, assetID uuid.UUID, scope *uuid.UUID) (int64, error) {
	query := scoped(r.db.WithContext(ctx).Model(&models.Asset{}), scope).
		Where("id = ?", assetID).
		Where("return_requested_by IS NOT NULL")
	res := query.Updates(withReturnCleared(map[string]any{}))
	return res.RowsAffected, res.Error
}

func (r *repository) DisposeUpdate(ctx context.Context, assetID uuid.UUID, scope *uuid.UUID) (int64, error) {
	query := scoped(r.db.WithContext(ctx).Model(&models.Asset{}), scope).
		Where("id = ?", assetID).
		Where("status = ?", enums.AssetStatusFaulty)
	res := query.Updates(withReturnCleared(map[string]any{
		"status":      enums.AssetStatusDisposed,
		"assigned_to": nil,
	}))
	return res.RowsAffected, res.Error
}

func (r *repository) ForceStatusUpdate(ctx context.Context, assetID uuid.UUID, status enums.AssetStatus, clearAssignment bool, scope *uuid.UUID) (int64, error) {
	updates := withReturnCleared(map[string]any{"status": status})
	if clearAssignment {
		updates["assigned_to"] = nil
	}
	query := scoped(r.db.WithContext(ctx).Model(&models.Asset{}), scope).
		Where("id = ?", assetID)
	res := query.Updates(updates)
	return res.RowsAffected, res.Error
}

// withReturnCleared drops any staged return alongside the update. Every exit
// from custody invalidates a pending return, otherwise a later approval could
// act on stale state.
func withReturnCleared(updates map[string]any) map[string]any {
	updates["return_requested_by"] = nil
	updates["return_condition"] = nil
	updates["return_ticket_number"] = nil
	updates["return_requested_at"] = nil
	return updates
}

func scoped(query *gorm.DB, scope *uuid.UUID) *gorm.DB {
	if scope == nil {
		return query
	}
	return query.Where("store_id = ?", *scope)
}

func collectibleStatuses() []enums.AssetStatus {
	return []enums.AssetStatus{
		enums.AssetStatusNew,
		enums.AssetStatusUsed,
		enums.AssetStatusTesting,
	}
}
