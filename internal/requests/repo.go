package requests

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

// NewRepository builds a request repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, request *models.Request) (*models.Request, error) {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (r *repository) FindByID(ctx context.Context, requestID uuid.UUID, scope *uuid.UUID) (*models.Request, error) {
	var request models.Request
	query := r.db.WithContext(ctx).Where("id = ?", requestID)
	query = scoped(query, scope)
	if err := query.Preload("Requester").First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Request, error) {
	query := scoped(r.db.WithContext(ctx).Model(&models.Request{}), scope)

	if filters.Status != nil {
		query = query.Where("requests.status = ?", *filters.Status)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.
			Joins("JOIN users ON users.id = requests.requester_id").
			Where(
				"LOWER(users.name) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(users.phone) LIKE ? OR LOWER(COALESCE(users.username, '')) LIKE ?",
				like, like, like, like,
			)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(requests.created_at, requests.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var out []models.Request
	err = query.
		Preload("Requester").
		Order("requests.created_at DESC, requests.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) StatusUpdate(ctx context.Context, requestID uuid.UUID, from, to enums.RequestStatus, scope *uuid.UUID) (int64, error) {
	query := scoped(r.db.WithContext(ctx).Model(&models.Request{}), scope).
		Where("id = ?", requestID).
		Where("status = ?", from)
	res := query.Update("status", to)
	return res.RowsAffected, res.Error
}

func scoped(query *gorm.DB, scope *uuid.UUID) *gorm.DB {
	if scope == nil {
		return query
	}
	return query.Where("requests.store_id = ?", *scope)
}
