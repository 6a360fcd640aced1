package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scyware/assettrack-backend/internal/activity"
	"github.com/scyware/assettrack-backend/pkg/db"
	"github.com/scyware/assettrack-backend/pkg/db/models"
	pkgerrors "github.com/scyware/assettrack-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type activityRecorder interface {
	Record(ctx context.Context, input activity.RecordInput)
}

// Service manages the tenant store tree.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Store, error)
	Get(ctx context.Context, storeID uuid.UUID) (*models.Store, error)
	List(ctx context.Context) ([]models.Store, error)
	Rename(ctx context.Context, input RenameInput) (*models.Store, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	audit activityRecorder
}

// NewService builds the store service with its required dependencies.
func NewService(repo Repository, tx txRunner, audit activityRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if audit == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{repo: repo, tx: tx, audit: audit}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Store, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name required")
	}
	if input.IsMainStore && input.ParentStoreID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "main store cannot have a parent")
	}

	var out *models.Store
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if input.IsMainStore {
			if _, err := repo.FindMain(ctx); err == nil {
				return pkgerrors.New(pkgerrors.CodeConflict, "a main store already exists")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check main store")
			}
		}
		if input.ParentStoreID != nil {
			parent, err := repo.FindByID(ctx, *input.ParentStoreID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "parent store not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent store")
			}
			if parent.ParentStoreID != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "stores nest one level deep")
			}
		}

		created, err := repo.Create(ctx, &models.Store{
			Name:          name,
			IsMainStore:   input.IsMainStore,
			ParentStoreID: input.ParentStoreID,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "store name already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
		}
		out = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, activity.RecordInput{
		ActorName:  input.Actor.Name,
		ActorEmail: input.Actor.Email,
		ActorRole:  input.Actor.Role,
		Action:     "store.create",
		Details:    strptr(fmt.Sprintf("created store %s", out.Name)),
		StoreID:    &out.ID,
	})
	return out, nil
}

func (s *service) Get(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}

func (s *service) List(ctx context.Context) ([]models.Store, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	return out, nil
}

func (s *service) Rename(ctx context.Context, input RenameInput) (*models.Store, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name required")
	}

	rows, err := s.repo.Rename(ctx, input.StoreID, name)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "store name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rename store")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}

	out, err := s.Get(ctx, input.StoreID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, activity.RecordInput{
		ActorName:  input.Actor.Name,
		ActorEmail: input.Actor.Email,
		ActorRole:  input.Actor.Role,
		Action:     "store.rename",
		Details:    strptr(fmt.Sprintf("renamed store to %s", out.Name)),
		StoreID:    &out.ID,
	})
	return out, nil
}

func strptr(value string) *string {
	return &value
}
