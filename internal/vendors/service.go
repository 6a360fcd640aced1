package vendors

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scyware/assettrack-backend/internal/activity"
	"github.com/scyware/assettrack-backend/pkg/db"
	"github.com/scyware/assettrack-backend/pkg/db/models"
	"github.com/scyware/assettrack-backend/pkg/enums"
	pkgerrors "github.com/scyware/assettrack-backend/pkg/errors"
	"github.com/scyware/assettrack-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type activityRecorder interface {
	Record(ctx context.Context, input activity.RecordInput)
}

// Service manages the store-scoped vendor registry.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Vendor, error)
	Get(ctx context.Context, vendorID uuid.UUID, scope *uuid.UUID) (*models.Vendor, error)
	List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Vendor, error)
	Update(ctx context.Context, input UpdateInput) (*models.Vendor, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	audit activityRecorder
}

// NewService builds the vendor service with its required dependencies.
func NewService(repo Repository, tx txRunner, audit activityRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if audit == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{repo: repo, tx: tx, audit: audit}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Vendor, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor name required")
	}
	if input.ContactPerson == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact person required")
	}
	storeID, err := resolveTargetStore(input.Scope, input.StoreID)
	if err != nil {
		return nil, err
	}

	var out *models.Vendor
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.TaxID != nil {
			if _, err := repo.FindByTaxID(ctx, *input.TaxID, storeID); err == nil {
				return taxIDConflict()
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check tax id")
			}
		}

		created, err := repo.Create(ctx, &models.Vendor{
			Name:          input.Name,
			StoreID:       storeID,
			ContactPerson: input.ContactPerson,
			Phone:         input.Phone,
			Email:         input.Email,
			Address:       input.Address,
			TaxID:         input.TaxID,
			PaymentTerms:  input.PaymentTerms,
			Status:        enums.VendorStatusActive,
		})
		if err != nil {
			return mapWriteErr(err)
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
		Action:     "vendor.create",
		Details:    strptr(fmt.Sprintf("registered vendor %s", out.Name)),
		StoreID:    &out.StoreID,
	})
	return out, nil
}

func (s *service) Get(ctx context.Context, vendorID uuid.UUID, scope *uuid.UUID) (*models.Vendor, error) {
	vendor, err := s.repo.FindByID(ctx, vendorID, scope)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return vendor, nil
}

func (s *service) List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Vendor, error) {
	out, err := s.repo.List(ctx, scope, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Vendor, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown vendor status").
			WithDetails(map[string]any{"status": input.Status.String()})
	}

	var out *models.Vendor
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		vendor, err := repo.FindByID(ctx, input.VendorID, input.Scope)
		if err != nil {
			return mapFindErr(err)
		}

		if input.TaxID != nil && (vendor.TaxID == nil || *vendor.TaxID != *input.TaxID) {
			if existing, err := repo.FindByTaxID(ctx, *input.TaxID, vendor.StoreID); err == nil && existing.ID != vendor.ID {
				return taxIDConflict()
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check tax id")
			}
		}

		applyUpdate(vendor, input)
		if err := repo.Update(ctx, vendor); err != nil {
			return mapWriteErr(err)
		}
		out = vendor
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, activity.RecordInput{
		ActorName:  input.Actor.Name,
		ActorEmail: input.Actor.Email,
		ActorRole:  input.Actor.Role,
		Action:     "vendor.update",
		Details:    strptr(fmt.Sprintf("updated vendor %s", out.Name)),
		StoreID:    &out.StoreID,
	})
	return out, nil
}

func applyUpdate(vendor *models.Vendor, input UpdateInput) {
	if input.Name != nil {
		vendor.Name = *input.Name
	}
	if input.ContactPerson != nil {
		vendor.ContactPerson = *input.ContactPerson
	}
	if input.Phone != nil {
		vendor.Phone = *input.Phone
	}
	if input.Email != nil {
		vendor.Email = input.Email
	}
	if input.Address != nil {
		vendor.Address = input.Address
	}
	if input.TaxID != nil {
		vendor.TaxID = input.TaxID
	}
	if input.PaymentTerms != nil {
		vendor.PaymentTerms = input.PaymentTerms
	}
	if input.Status != nil {
		vendor.Status = *input.Status
	}
}

func resolveTargetStore(scope *uuid.UUID, requested uuid.UUID) (uuid.UUID, error) {
	if scope != nil {
		return *scope, nil
	}
	if requested == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	return requested, nil
}

func taxIDConflict() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "tax id already registered in this store")
}

func mapWriteErr(err error) error {
	if db.IsUniqueViolation(err, "idx_vendors_name_store") {
		return pkgerrors.New(pkgerrors.CodeConflict, "vendor name already registered in this store")
	}
	if db.IsUniqueViolation(err, "idx_vendors_tax_store") {
		return taxIDConflict()
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write vendor")
}

func mapFindErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
}

func strptr(value string) *string {
	return &value
}
