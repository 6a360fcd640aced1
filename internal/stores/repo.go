package stores

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scyware/assettrack-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a store repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, store *models.Store) (*models.Store, error) {
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

func (r *repository) FindByID(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("id = ?", storeID).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *repository) FindMain(ctx context.Context) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("is_main_store = ?", true).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// List returns every store, main store first so switcher UIs can default to it.
func (r *repository) List(ctx context.Context) ([]models.Store, error) {
	var out []models.Store
	err := r.db.WithContext(ctx).
		Order("is_main_store DESC, name ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) Rename(ctx context.Context, storeID uuid.UUID, name string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Store{}).
		Where("id = ?", storeID).
		Update("name", name)
	return res.RowsAffected, res.Error
}
