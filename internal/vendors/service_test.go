package vendors

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/scyware/assettrack-backend/internal/activity"
	"github.com/scyware/assettrack-backend/pkg/db/models"
	"github.com/scyware/assettrack-backend/pkg/enums"
	pkgerrors "github.com/scyware/assettrack-backend/pkg/errors"
	"github.com/scyware/assettrack-backend/pkg/pagination"
)

type stubVendorRepo struct {
	vendors map[uuid.UUID]*models.Vendor
}

func newStubVendorRepo() *stubVendorRepo {
	return &stubVendorRepo{vendors: make(map[uuid.UUID]*models.Vendor)}
}

func (s *stubVendorRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubVendorRepo) Create(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error) {
	if vendor.ID == uuid.Nil {
		vendor.ID = uuid.New()
	}
	for _, existing := range s.vendors {
		if existing.Name == vendor.Name && existing.StoreID == vendor.StoreID {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	copied := *vendor
	s.vendors[vendor.ID] = &copied
	return vendor, nil
}

func (s *stubVendorRepo) FindByID(ctx context.Context, vendorID uuid.UUID, scope *uuid.UUID) (*models.Vendor, error) {
	vendor, ok := s.vendors[vendorID]
	if !ok || (scope != nil && vendor.StoreID != *scope) {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *vendor
	return &copied, nil
}

func (s *stubVendorRepo) FindByTaxID(ctx context.Context, taxID string, storeID uuid.UUID) (*models.Vendor, error) {
	for _, vendor := range s.vendors {
		if vendor.StoreID == storeID && vendor.TaxID != nil && *vendor.TaxID == taxID {
			copied := *vendor
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubVendorRepo) List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Vendor, error) {
	var out []models.Vendor
	for _, vendor := range s.vendors {
		if scope != nil && vendor.StoreID != *scope {
			continue
		}
		if filters.Status != nil && vendor.Status != *filters.Status {
			continue
		}
		out = append(out, *vendor)
	}
	return out, nil
}

func (s *stubVendorRepo) Update(ctx context.Context, vendor *models.Vendor) error {
	copied := *vendor
	s.vendors[vendor.ID] = &copied
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRecorder struct {
	records []activity.RecordInput
}

func (s *stubRecorder) Record(ctx context.Context, input activity.RecordInput) {
	s.records = append(s.records, input)
}

func newTestService(t *testing.T, repo Repository) (Service, *stubRecorder) {
	t.Helper()
	recorder := &stubRecorder{}
	svc, err := NewService(repo, stubTxRunner{}, recorder)
	require.NoError(t, err)
	return svc, recorder
}

func adminActor() Actor {
	return Actor{ID: uuid.New(), Name: "Admin One", Email: "admin@example.com", Role: enums.UserRoleAdmin}
}

func TestCreateVendorDefaultsActive(t *testing.T) {
	repo := newStubVendorRepo()
	svc, recorder := newTestService(t, repo)
	storeID := uuid.New()

	got, err := svc.Create(context.Background(), CreateInput{
		Actor: adminActor(), Scope: &storeID,
		Name: "FiberSupply LLC", ContactPerson: "Dana", Phone: "555-0100",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.VendorStatusActive, got.Status)
	assert.Equal(t, storeID, got.StoreID)
	require.Len(t, recorder.records, 1)
	assert.Equal(t, "vendor.create", recorder.records[0].Action)
}

func TestCreateVendorDuplicateTaxIDSameStore(t *testing.T) {
	repo := newStubVendorRepo()
	svc, _ := newTestService(t, repo)
	storeID := uuid.New()
	otherStore := uuid.New()
	taxID := "TAX-123"
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{
		Actor: adminActor(), Scope: &storeID,
		Name: "FiberSupply LLC", ContactPerson: "Dana", Phone: "555-0100", TaxID: &taxID,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{
		Actor: adminActor(), Scope: &storeID,
		Name: "Another Supplier", ContactPerson: "Eli", Phone: "555-0200", TaxID: &taxID,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))

	// The same tax id in a different store is fine.
	_, err = svc.Create(ctx, CreateInput{
		Actor: adminActor(), Scope: &otherStore,
		Name: "FiberSupply LLC", ContactPerson: "Dana", Phone: "555-0100", TaxID: &taxID,
	})
	require.NoError(t, err)
}

func TestUpdateVendorAppliesPartialChanges(t *testing.T) {
	repo := newStubVendorRepo()
	svc, _ := newTestService(t, repo)
	storeID := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Actor: adminActor(), Scope: &storeID,
		Name: "FiberSupply LLC", ContactPerson: "Dana", Phone: "555-0100",
	})
	require.NoError(t, err)

	inactive := enums.VendorStatusInactive
	phone := "555-0999"
	got, err := svc.Update(ctx, UpdateInput{
		Actor: adminActor(), Scope: &storeID, VendorID: created.ID,
		Phone: &phone, Status: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "555-0999", got.Phone)
	assert.Equal(t, enums.VendorStatusInactive, got.Status)
	assert.Equal(t, "FiberSupply LLC", got.Name)
}

func TestUpdateVendorCrossTenantIsNotFound(t *testing.T) {
	repo := newStubVendorRepo()
	svc, _ := newTestService(t, repo)
	homeStore := uuid.New()
	otherStore := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Actor: adminActor(), Scope: &homeStore,
		Name: "FiberSupply LLC", ContactPerson: "Dana", Phone: "555-0100",
	})
	require.NoError(t, err)

	name := "Renamed"
	_, err = svc.Update(ctx, UpdateInput{
		Actor: adminActor(), Scope: &otherStore, VendorID: created.ID, Name: &name,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
