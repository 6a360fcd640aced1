package requests

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

type stubRequestRepo struct {
	requests map[uuid.UUID]*models.Request
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{requests: make(map[uuid.UUID]*models.Request)}
}

func (s *stubRequestRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRequestRepo) Create(ctx context.Context, request *models.Request) (*models.Request, error) {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	copied := *request
	s.requests[request.ID] = &copied
	return request, nil
}

func (s *stubRequestRepo) FindByID(ctx context.Context, requestID uuid.UUID, scope *uuid.UUID) (*models.Request, error) {
	request, ok := s.requests[requestID]
	if !ok || !s.inScope(request, scope) {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *request
	return &copied, nil
}

func (s *stubRequestRepo) List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Request, error) {
	var out []models.Request
	for _, request := range s.requests {
		if !s.inScope(request, scope) {
			continue
		}
		if filters.Status != nil && request.Status != *filters.Status {
			continue
		}
		out = append(out, *request)
	}
	return out, nil
}

func (s *stubRequestRepo) StatusUpdate(ctx context.Context, requestID uuid.UUID, from, to enums.RequestStatus, scope *uuid.UUID) (int64, error) {
	request, ok := s.requests[requestID]
	if !ok || !s.inScope(request, scope) || request.Status != from {
		return 0, nil
	}
	request.Status = to
	return 1, nil
}

func (s *stubRequestRepo) inScope(request *models.Request, scope *uuid.UUID) bool {
	return scope == nil || (request.StoreID != nil && *request.StoreID == *scope)
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

func technicianActor() Actor {
	return Actor{ID: uuid.New(), Name: "Tech One", Email: "tech@example.com", Role: enums.UserRoleTechnician}
}

func adminActor() Actor {
	return Actor{ID: uuid.New(), Name: "Admin One", Email: "admin@example.com", Role: enums.UserRoleAdmin}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, code), "expected code %s got %v", code, err)
}

func TestCreateOpensPendingRequest(t *testing.T) {
	repo := newStubRequestRepo()
	svc, recorder := newTestService(t, repo)
	storeID := uuid.New()
	tech := technicianActor()

	got, err := svc.Create(context.Background(), CreateInput{
		Actor: tech, Scope: &storeID,
		ItemName: "Fiber splicer", Quantity: 2, Description: "replacement for broken unit",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusPending, got.Status)
	assert.Equal(t, tech.ID, got.RequesterID)
	require.NotNil(t, got.StoreID)
	assert.Equal(t, storeID, *got.StoreID)

	require.Len(t, recorder.records, 1)
	assert.Equal(t, "request.create", recorder.records[0].Action)
}

func TestCreateValidatesInput(t *testing.T) {
	repo := newStubRequestRepo()
	svc, _ := newTestService(t, repo)
	storeID := uuid.New()

	_, err := svc.Create(context.Background(), CreateInput{
		Actor: technicianActor(), Scope: &storeID, Quantity: 1,
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(context.Background(), CreateInput{
		Actor: technicianActor(), Scope: &storeID, ItemName: "Splicer", Quantity: 0,
	})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateStatusFollowsLinearWorkflow(t *testing.T) {
	repo := newStubRequestRepo()
	svc, _ := newTestService(t, repo)
	storeID := uuid.New()
	admin := adminActor()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Actor: technicianActor(), Scope: &storeID, ItemName: "Splicer", Quantity: 1,
	})
	require.NoError(t, err)

	approved, err := svc.UpdateStatus(ctx, DecisionInput{
		Actor: admin, Scope: &storeID, RequestID: created.ID, Status: enums.RequestStatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusApproved, approved.Status)

	ordered, err := svc.UpdateStatus(ctx, DecisionInput{
		Actor: admin, Scope: &storeID, RequestID: created.ID, Status: enums.RequestStatusOrdered,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusOrdered, ordered.Status)
}

func TestUpdateStatusRejectsBackwardMove(t *testing.T) {
	repo := newStubRequestRepo()
	svc, _ := newTestService(t, repo)
	storeID := uuid.New()
	admin := adminActor()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Actor: technicianActor(), Scope: &storeID, ItemName: "Splicer", Quantity: 1,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, DecisionInput{
		Actor: admin, Scope: &storeID, RequestID: created.ID, Status: enums.RequestStatusApproved,
	})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, DecisionInput{
		Actor: admin, Scope: &storeID, RequestID: created.ID, Status: enums.RequestStatusOrdered,
	})
	require.NoError(t, err)

	// Ordered is final, moving back to approved must fail.
	_, err = svc.UpdateStatus(ctx, DecisionInput{
		Actor: admin, Scope: &storeID, RequestID: created.ID, Status: enums.RequestStatusApproved,
	})
	requireCode(t, err, pkgerrors.CodeInvalidTransition)
}

func TestUpdateStatusRejectedIsFinal(t *testing.T) {
	repo := newStubRequestRepo()
	svc, _ := newTestService(t, repo)
	storeID := uuid.New()
	admin := adminActor()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Actor: technicianActor(), Scope: &storeID, ItemName: "Splicer", Quantity: 1,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, DecisionInput{
		Actor: admin, Scope: &storeID, RequestID: created.ID, Status: enums.RequestStatusRejected,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, DecisionInput{
		Actor: admin, Scope: &storeID, RequestID: created.ID, Status: enums.RequestStatusApproved,
	})
	requireCode(t, err, pkgerrors.CodeInvalidTransition)
}

func TestUpdateStatusCrossTenantIsNotFound(t *testing.T) {
	repo := newStubRequestRepo()
	svc, _ := newTestService(t, repo)
	homeStore := uuid.New()
	otherStore := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Actor: technicianActor(), Scope: &homeStore, ItemName: "Splicer", Quantity: 1,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, DecisionInput{
		Actor: adminActor(), Scope: &otherStore, RequestID: created.ID, Status: enums.RequestStatusApproved,
	})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestExportBuildsWorkbook(t *testing.T) {
	repo := newStubRequestRepo()
	svc, _ := newTestService(t, repo)
	storeID := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Actor: technicianActor(), Scope: &storeID, ItemName: "Fiber splicer", Quantity: 2,
	})
	require.NoError(t, err)

	f, err := svc.Export(ctx, &storeID, ListFilters{})
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Requests", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Item", header)

	item, err := f.GetCellValue("Requests", "A2")
	require.NoError(t, err)
	assert.Equal(t, created.ItemName, item)

	status, err := f.GetCellValue("Requests", "D2")
	require.NoError(t, err)
	assert.Equal(t, "pending", status)
}
