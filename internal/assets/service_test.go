package assets

import (
	"context"
	"testing"
	"time"

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

type stubAssetRepo struct {
	assets  map[uuid.UUID]*models.Asset
	history []models.AssetHistoryEntry
}

func newStubAssetRepo() *stubAssetRepo {
	return &stubAssetRepo{assets: make(map[uuid.UUID]*models.Asset)}
}

func (s *stubAssetRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubAssetRepo) Create(ctx context.Context, asset *models.Asset) (*models.Asset, error) {
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	for _, existing := range s.assets {
		if existing.SerialNumber == asset.SerialNumber && existing.StoreID == asset.StoreID {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	copied := *asset
	s.assets[asset.ID] = &copied
	return asset, nil
}

func (s *stubAssetRepo) CreateBatch(ctx context.Context, batch []models.Asset) error {
	for i := range batch {
		if _, err := s.Create(ctx, &batch[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *stubAssetRepo) FindByID(ctx context.Context, assetID uuid.UUID, scope *uuid.UUID) (*models.Asset, error) {
	asset, ok := s.assets[assetID]
	if !ok || (scope != nil && asset.StoreID != *scope) {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *asset
	return &copied, nil
}

func (s *stubAssetRepo) List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Asset, error) {
	var out []models.Asset
	for _, asset := range s.assets {
		if scope != nil && asset.StoreID != *scope {
			continue
		}
		out = append(out, *asset)
	}
	return out, nil
}

func (s *stubAssetRepo) ListAssignedTo(ctx context.Context, userID uuid.UUID) ([]models.Asset, error) {
	var out []models.Asset
	for _, asset := range s.assets {
		if asset.AssignedToID != nil && *asset.AssignedToID == userID {
			out = append(out, *asset)
		}
	}
	return out, nil
}

func (s *stubAssetRepo) ListTouchedBy(ctx context.Context, userID uuid.UUID) ([]models.Asset, error) {
	touched := map[uuid.UUID]bool{}
	for _, entry := range s.history {
		if entry.ActorID == userID {
			touched[entry.AssetID] = true
		}
	}
	var out []models.Asset
	for id := range touched {
		asset := *s.assets[id]
		for _, entry := range s.history {
			if entry.AssetID == id {
				asset.History = append(asset.History, entry)
			}
		}
		out = append(out, asset)
	}
	return out, nil
}

func (s *stubAssetRepo) ListPendingReturns(ctx context.Context, scope *uuid.UUID) ([]models.Asset, error) {
	var out []models.Asset
	for _, asset := range s.assets {
		if scope != nil && asset.StoreID != *scope {
			continue
		}
		if asset.ReturnRequestedBy != nil {
			out = append(out, *asset)
		}
	}
	return out, nil
}

func (s *stubAssetRepo) AppendHistory(ctx context.Context, entry *models.AssetHistoryEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	s.history = append(s.history, *entry)
	return nil
}

func (s *stubAssetRepo) FindHistory(ctx context.Context, assetID uuid.UUID) ([]models.AssetHistoryEntry, error) {
	var out []models.AssetHistoryEntry
	for _, entry := range s.history {
		if entry.AssetID == assetID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *stubAssetRepo) inScope(asset *models.Asset, scope *uuid.UUID) bool {
	return scope == nil || asset.StoreID == *scope
}

func (s *stubAssetRepo) CollectUpdate(ctx context.Context, assetID, technicianID uuid.UUID, location string, scope *uuid.UUID) (int64, error) {
	asset, ok := s.assets[assetID]
	if !ok || !s.inScope(asset, scope) || asset.AssignedToID != nil || !asset.Status.IsCollectible() {
		return 0, nil
	}
	asset.Status = enums.AssetStatusUsed
	asset.AssignedToID = &technicianID
	asset.InstallationLocation = &location
	return 1, nil
}

func (s *stubAssetRepo) FaultyUpdate(ctx context.Context, assetID uuid.UUID, holderID *uuid.UUID, scope *uuid.UUID) (int64, error) {
	asset, ok := s.assets[assetID]
	if !ok || !s.inScope(asset, scope) || asset.Status.IsTerminal() {
		return 0, nil
	}
	if holderID != nil && (asset.AssignedToID == nil || *asset.AssignedToID != *holderID) {
		return 0, nil
	}
	asset.Status = enums.AssetStatusFaulty
	asset.AssignedToID = nil
	clearStagedReturn(asset)
	return 1, nil
}

func (s *stubAssetRepo) StageReturnUpdate(ctx context.Context, assetID, requesterID uuid.UUID, condition enums.AssetStatus, ticket string, scope *uuid.UUID) (int64, error) {
	asset, ok := s.assets[assetID]
	if !ok || !s.inScope(asset, scope) || asset.ReturnRequestedBy != nil {
		return 0, nil
	}
	if asset.AssignedToID == nil || *asset.AssignedToID != requesterID {
		return 0, nil
	}
	now := time.Now()
	asset.ReturnRequestedBy = &requesterID
	asset.ReturnCondition = &condition
	asset.ReturnTicketNumber = &ticket
	asset.ReturnRequestedAt = &now
	return 1, nil
}

func (s *stubAssetRepo) ApproveReturnUpdate(ctx context.Context, assetID uuid.UUID, scope *uuid.UUID) (int64, error) {
	asset, ok := s.assets[assetID]
	if !ok || !s.inScope(asset, scope) || asset.ReturnRequestedBy == nil || asset.Status.IsTerminal() {
		return 0, nil
	}
	asset.Status = *asset.ReturnCondition
	asset.AssignedToID = nil
	clearStagedReturn(asset)
	return 1, nil
}

func (s *stubAssetRepo) RejectReturnUpdate(ctx context.Context, assetID uuid.UUID, scope *uuid.UUID) (int64, error) {
	asset, ok := s.assets[assetID]
	if !ok || !s.inScope(asset, scope) || asset.ReturnRequestedBy == nil {
		return 0, nil
	}
	clearStagedReturn(asset)
	return 1, nil
}

func (s *stubAssetRepo) DisposeUpdate(ctx context.Context, assetID uuid.UUID, scope *uuid.UUID) (int64, error) {
	asset, ok := s.assets[assetID]
	if !ok || !s.inScope(asset, scope) || asset.Status != enums.AssetStatusFaulty {
		return 0, nil
	}
	asset.Status = enums.AssetStatusDisposed
	asset.AssignedToID = nil
	clearStagedReturn(asset)
	return 1, nil
}

func (s *stubAssetRepo) ForceStatusUpdate(ctx context.Context, assetID uuid.UUID, status enums.AssetStatus, clearAssignment bool, scope *uuid.UUID) (int64, error) {
	asset, ok := s.assets[assetID]
	if !ok || !s.inScope(asset, scope) {
		return 0, nil
	}
	asset.Status = status
	if clearAssignment {
		asset.AssignedToID = nil
	}
	clearStagedReturn(asset)
	return 1, nil
}

func clearStagedReturn(asset *models.Asset) {
	asset.ReturnRequestedBy = nil
	asset.ReturnCondition = nil
	asset.ReturnTicketNumber = nil
	asset.ReturnRequestedAt = nil
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
	svc, err := NewService(repo, stubTxRunner{}, recorder, nil)
	require.NoError(t, err)
	return svc, recorder
}

func technicianActor() Actor {
	return Actor{ID: uuid.New(), Name: "Tech One", Email: "tech@example.com", Role: enums.UserRoleTechnician}
}

func adminActor() Actor {
	return Actor{ID: uuid.New(), Name: "Admin One", Email: "admin@example.com", Role: enums.UserRoleAdmin}
}

func seedAsset(repo *stubAssetRepo, storeID uuid.UUID, status enums.AssetStatus) *models.Asset {
	asset := &models.Asset{
		ID:           uuid.New(),
		SerialNumber: "SN-" + uuid.NewString()[:8],
		StoreID:      storeID,
		Name:         "Set-top box",
		ModelNumber:  "STB-1000",
		Status:       status,
	}
	repo.assets[asset.ID] = asset
	return asset
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, code), "expected code %s got %v", code, err)
}

func TestCollectAssignsCustodyAndAppendsHistory(t *testing.T) {
	repo := newStubAssetRepo()
	storeID := uuid.New()
	asset := seedAsset(repo, storeID, enums.AssetStatusNew)
	svc, recorder := newTestService(t, repo)
	tech := technicianActor()

	got, err := svc.Collect(context.Background(), CollectInput{
		Actor:                tech,
		Scope:                &storeID,
		AssetID:              asset.ID,
		TicketNumber:         "TCK-100",
		InstallationLocation: "14 Main St",
	})
	require.NoError(t, err)

	assert.Equal(t, enums.AssetStatusUsed, got.Status)
	require.NotNil(t, got.AssignedToID)
	assert.Equal(t, tech.ID, *got.AssignedToID)

	history, err := repo.FindHistory(context.Background(), asset.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, enums.HistoryVerbCollected, history[0].Verb)
	require.NotNil(t, history[0].Qualifier)
	assert.Equal(t, enums.AssetStatusNew, *history[0].Qualifier)
	require.NotNil(t, history[0].TicketNumber)
	assert.Equal(t, "TCK-100", *history[0].TicketNumber)

	require.Len(t, recorder.records, 1)
	assert.Equal(t, "asset.collect", recorder.records[0].Action)
}

func TestCollectLoserSeesAlreadyAssigned(t *testing.T) {
	repo := newStubAssetRepo()
	storeID := uuid.New()
	asset := seedAsset(repo, storeID, enums.AssetStatusNew)
	svc, _ := newTestService(t, repo)

	first := technicianActor()
	_, err := svc.Collect(context.Background(), CollectInput{
		Actor: first, Scope: &storeID, AssetID: asset.ID,
		TicketNumber: "TCK-1", InstallationLocation: "site A",
	})
	require.NoError(t, err)

	second := technicianActor()
	_, err = svc.Collect(context.Background(), CollectInput{
		Actor: second, Scope: &storeID, AssetID: asset.ID,
		TicketNumber: "TCK-2", InstallationLocation: "site B",
	})
	requireCode(t, err, pkgerrors.CodeAlreadyAssigned)

	got, err := repo.FindByID(context.Background(), asset.ID, &storeID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, *got.AssignedToID)
}

func TestCollectDisposedAssetRejected(t *testing.T) {
	repo := newStubAssetRepo()
	storeID := uuid.New()
	asset := seedAsset(repo, storeID, enums.AssetStatusDisposed)
	svc, _ := newTestService(t, repo)

	_, err := svc.Collect(context.Background(), CollectInput{
		Actor: technicianActor(), Scope: &storeID, AssetID: asset.ID,
		TicketNumber: "TCK-1", InstallationLocation: "site A",
	})
	requireCode(t, err, pkgerrors.CodeInvalidTransition)
}

func TestCollectRequiresTicketAndLocation(t *testing.T) {
	repo := newStubAssetRepo()
	storeID := uuid.New()
	asset := seedAsset(repo, storeID, enums.AssetStatusNew)
	svc, _ := newTestService(t, repo)

	_, err := svc.Collect(context.Background(), CollectInput{
		Actor: technicianActor(), Scope: &storeID, AssetID: asset.ID,
		InstallationLocation: "site A",
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Collect(context.Background(), CollectInput{
		Actor: technicianActor(), Scope: &storeID, AssetID: asset.ID,
		TicketNumber: "TCK-1",
	})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestCrossTenantLookupIsNotFound(t *testing.T) {
	repo := newStubAssetRepo()
	homeStore := uuid.New()
	otherStore := uuid.New()
	asset := seedAsset(repo, homeStore, enums.AssetStatusNew)
	svc, _ := newTestService(t, repo)

	_, err := svc.Collect(context.Background(), CollectInput{
		Actor: technicianActor(), Scope: &otherStore, AssetID: asset.ID,
		TicketNumber: "TCK-1", InstallationLocation: "site A",
	})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestReportFaultyByNonHolderForbidden(t *testing.T) {
	repo := newStubAssetRepo()
	storeID := uuid.New()
	asset := seedAsset(repo, storeID, enums.AssetStatusUsed)
	holder := technicianActor()
	asset.AssignedToID = &holder.ID
	svc, _ := newTestService(t, repo)

	outsider := technicianActor()
	_, err := svc.ReportFaulty(context.Background(), FaultyInput{
		Actor: outsider, Scope: &storeID, AssetID: asset.ID, TicketNumber: "TCK-9",
	})
	requireCode(t, err, pkgerrors.CodeForbidden)

	got, findErr := repo.FindByID(context.Background(), asset.ID, &storeID)
	require.NoError(t, findErr)
	assert.Equal(t, enums.AssetStatusUsed, got.Status)
	assert.Equal(t, holder.ID, *got.AssignedToID)
}

func TestReportFaultyByAdminReleasesCustody(t *testing.T) {
	repo := newStubAssetRepo()
	storeID := uuid.New()
	asset := seedAsset(repo, storeID, enums.AssetStatusUsed)
	holder := technicianActor()
	asset.AssignedToID = &holder.ID
	svc, _ := newTestService(t, repo)

	got, err := svc.ReportFaulty(context.Background(), FaultyInput{
		Actor: adminActor(), Scope: &storeID, AssetID: asset.ID, TicketNumber: "TCK-9",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.AssetStatusFaulty, got.Status)
	assert.Nil(t, got.AssignedToID)

	history, err := repo.FindHistory(context.Background(), asset.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, enums.HistoryVerbReportedFaulty, history[0].Verb)
	assert.Nil(t, history[0].Qualifier)
}

func TestRequestReturnStagesWithoutLedgerEntry(t *testing.T) {
	repo := newStubAssetRepo()
	storeID := uuid.New()
	asset := seedAsset(repo, storeID, enums.AssetStatusUsed)
	holder := technicianActor()
	asset.AssignedToID = &holder.ID
	svc, _ := newTestService(t, repo)

	got, err := svc.RequestReturn(context.Background(), ReturnRequestInput{
		Actor: holder, Scope: &storeID, AssetID: asset.ID,
		Condition: enums.AssetStatusUsed, TicketNumber: "TCK-20",
	})
	require.NoError(t, err)
	assert.True(t, got.HasPendingReturn())
	assert.Equal(t, enums.AssetStatusUsed, got.Status)
	assert.Equal(t, holder.ID, *got.AssignedToID)

	history, err := repo.FindHistory(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = svc.RequestReturn(context.Background(), ReturnRequestInput{
		Actor: holder, Scope: &storeID, AssetID: asset.ID,
		Condition: enums.AssetStatusFaulty, TicketNumber: "TCK-21",
	})
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

func TestRequestReturnRejectsBadCondition(t *testing.T) {
	repo := newStubAssetRepo()
	storeID := uuid.New()
	asset := seedAsset(repo, storeID, enums.AssetStatusUsed)
	holder := technicianActor()
	asset.AssignedToID = &holder.ID
	svc, _ := newTestService(t, repo)

	_, err := svc.RequestReturn(context.Background(), ReturnRequestInput{
		Actor: holder, Scope: &storeID, AssetID: asset.ID,
		Condition: enums.AssetStatusDisposed, TicketNumber: "TCK-20",
	})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestApproveReturnAppliesConditionAndClearsCustody(t *testing.T) {
	repo := newStubAssetRepo()
	storeID := uuid.New()
	asset := seedAsset(repo, storeID, enums.AssetStatusUsed)
	holder := technicianActor()
	svc, _ := newTestService(t, repo)

	asset.AssignedToID = &holder.ID
	_, err := svc.RequestReturn(context.Background(), ReturnRequestInput{
		Actor: holder, Scope: &storeID, AssetID: asset.ID,
		Condition: enums.AssetStatusUnderRepair, TicketNumber: "TCK-30",
	})
	require.NoError(t, err)

	admin := adminActor()
	got, err := svc.ApproveReturn(context.Background(), ReturnDecisionInput{
		Actor: admin, Scope: &storeID, AssetID: asset.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.AssetStatusUnderRepair, got.Status)
	assert.Nil(t, got.AssignedToID)
	assert.False(t, got.HasPendingReturn())

	history, err := repo.FindHistory(context.Background(), asset.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, enums.HistoryVerbReturned, history[0].Verb)
	require.NotNil(t, history[0].Qualifier)
	assert.Equal(t, enums.AssetStatusUnderRepair, *history[0].Qualifier)
	require.NotNil(t, history[0].TicketNumber)
	assert.Equal(t, "TCK-30", *history[0].TicketNumber)

	// A second approval must fail deterministically, never silently succeed.
	_, err = svc.ApproveReturn(context.Background(), ReturnDecisionInput{
		Actor: admin, Scope: &storeID, AssetID: asset.ID,
	})
	requireCode(t, err, pkgerrors.CodeNoPendingRequest)
}

func TestApproveAfterRejectIsNoPendingRequest(t *testing.T) {
	repo := newStubAssetRepo()
	storeID := uuid.New()
	asset := seedAsset(repo, storeID, enums.AssetStatusUsed)
	holder := technicianActor()
	asset.AssignedToID = &holder.ID
	svc, _ := newTestService(t, repo)

	_, err := svc.RequestReturn(context.Background(), ReturnRequestInput{
		Actor: holder, Scope: &storeID, AssetID: asset.ID,
		Condition: enums.AssetStatusUsed, TicketNumber: "TCK-40",
	})
	require.NoError(t, err)

	admin := adminActor()
	got, err := svc.RejectReturn(context.Background(), ReturnDecisionInput{
		Actor: admin, Scope: &storeID, AssetID: asset.ID,
	})
	require.NoError(t, err)
	assert.False(t, got.HasPendingReturn())
	assert.Equal(t, holder.ID, *got.AssignedToID)

	history, err := repo.FindHistory(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = svc.ApproveReturn(context.Background(), ReturnDecisionInput{
		Actor: admin, Scope: &storeID, AssetID: asset.ID,
	})
	requireCode(t, err, pkgerrors.CodeNoPendingRequest)
}

func TestDisposeOnlyFromFaulty(t *testing.T) {
	repo := newStubAssetRepo()
	storeID := uuid.New()
	healthy := seedAsset(repo, storeID, enums.AssetStatusUsed)
	faulty := seedAsset(repo, storeID, enums.AssetStatusFaulty)
	svc, _ := newTestService(t, repo)
	admin := adminActor()

	_, err := svc.Dispose(context.Background(), DisposeInput{
		Actor: admin, Scope: &storeID, AssetID: healthy.ID,
	})
	requireCode(t, err, pkgerrors.CodeInvalidTransition)

	got, err := svc.Dispose(context.Background(), DisposeInput{
		Actor: admin, Scope: &storeID, AssetID: faulty.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.AssetStatusDisposed, got.Status)

	history, err := repo.FindHistory(context.Background(), faulty.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, enums.HistoryVerbDisposed, history[0].Verb)

	// Disposed is terminal.
	_, err = svc.Dispose(context.Background(), DisposeInput{
		Actor: admin, Scope: &storeID, AssetID: faulty.ID,
	})
	requireCode(t, err, pkgerrors.CodeInvalidTransition)
}

func TestForceSetStatusSkipsLedgerButAudits(t *testing.T) {
	repo := newStubAssetRepo()
	storeID := uuid.New()
	asset := seedAsset(repo, storeID, enums.AssetStatusUsed)
	holder := technicianActor()
	asset.AssignedToID = &holder.ID
	svc, recorder := newTestService(t, repo)

	reason := "inventory audit correction"
	got, err := svc.ForceSetStatus(context.Background(), ForceStatusInput{
		Actor: adminActor(), Scope: &storeID, AssetID: asset.ID,
		Status: enums.AssetStatusTesting, Reason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.AssetStatusTesting, got.Status)
	assert.Nil(t, got.AssignedToID, "forcing a non-used status clears assignment")

	history, err := repo.FindHistory(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	require.Len(t, recorder.records, 1)
	assert.Equal(t, "asset.force_status", recorder.records[0].Action)
	require.NotNil(t, recorder.records[0].Details)
	assert.Contains(t, *recorder.records[0].Details, reason)
}

func TestIntakeRejectsNonIntakeStatus(t *testing.T) {
	repo := newStubAssetRepo()
	storeID := uuid.New()
	svc, _ := newTestService(t, repo)

	_, err := svc.Intake(context.Background(), IntakeInput{
		Actor: adminActor(), Scope: &storeID,
		SerialNumber: "SN-1", Name: "Router", ModelNumber: "R-1",
		Status: enums.AssetStatusFaulty,
	})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestIntakeAppendsCreatedHistory(t *testing.T) {
	repo := newStubAssetRepo()
	storeID := uuid.New()
	svc, _ := newTestService(t, repo)

	got, err := svc.Intake(context.Background(), IntakeInput{
		Actor: adminActor(), Scope: &storeID,
		SerialNumber: "SN-1", Name: "Router", ModelNumber: "R-1",
		Status: enums.AssetStatusNew,
	})
	require.NoError(t, err)
	assert.Equal(t, storeID, got.StoreID)

	history, err := repo.FindHistory(context.Background(), got.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, enums.HistoryVerbCreated, history[0].Verb)
	require.NotNil(t, history[0].Qualifier)
	assert.Equal(t, enums.AssetStatusNew, *history[0].Qualifier)
}

func TestListMineClassifiesCurrentAndPast(t *testing.T) {
	repo := newStubAssetRepo()
	storeID := uuid.New()
	svc, _ := newTestService(t, repo)
	tech := technicianActor()
	admin := adminActor()
	ctx := context.Background()

	held := seedAsset(repo, storeID, enums.AssetStatusNew)
	returned := seedAsset(repo, storeID, enums.AssetStatusNew)

	for _, asset := range []*models.Asset{held, returned} {
		_, err := svc.Collect(ctx, CollectInput{
			Actor: tech, Scope: &storeID, AssetID: asset.ID,
			TicketNumber: "TCK-1", InstallationLocation: "site A",
		})
		require.NoError(t, err)
	}

	_, err := svc.RequestReturn(ctx, ReturnRequestInput{
		Actor: tech, Scope: &storeID, AssetID: returned.ID,
		Condition: enums.AssetStatusUsed, TicketNumber: "TCK-2",
	})
	require.NoError(t, err)
	_, err = svc.ApproveReturn(ctx, ReturnDecisionInput{Actor: admin, Scope: &storeID, AssetID: returned.ID})
	require.NoError(t, err)

	view, err := svc.ListMine(ctx, tech)
	require.NoError(t, err)
	require.Len(t, view.Current, 1)
	assert.Equal(t, held.ID, view.Current[0].Asset.ID)
	assert.Equal(t, enums.HistoryVerbCollected, view.Current[0].LastVerb)
	require.Len(t, view.Past, 1)
	assert.Equal(t, returned.ID, view.Past[0].Asset.ID)
}

func TestDisposeInvalidatesStagedReturn(t *testing.T) {
	repo := newStubAssetRepo()
	storeID := uuid.New()
	asset := seedAsset(repo, storeID, enums.AssetStatusNew)
	svc, _ := newTestService(t, repo)
	tech := technicianActor()
	admin := adminActor()
	ctx := context.Background()

	_, err := svc.Collect(ctx, CollectInput{
		Actor: tech, Scope: &storeID, AssetID: asset.ID,
		TicketNumber: "TCK-1", InstallationLocation: "site A",
	})
	require.NoError(t, err)
	_, err = svc.RequestReturn(ctx, ReturnRequestInput{
		Actor: tech, Scope: &storeID, AssetID: asset.ID,
		Condition: enums.AssetStatusUsed, TicketNumber: "TCK-2",
	})
	require.NoError(t, err)
	_, err = svc.ReportFaulty(ctx, FaultyInput{
		Actor: admin, Scope: &storeID, AssetID: asset.ID, TicketNumber: "TCK-3",
	})
	require.NoError(t, err)
	_, err = svc.Dispose(ctx, DisposeInput{Actor: admin, Scope: &storeID, AssetID: asset.ID})
	require.NoError(t, err)

	// The staged return died with the custody exit; approval must not
	// resurrect a disposed asset.
	_, err = svc.ApproveReturn(ctx, ReturnDecisionInput{Actor: admin, Scope: &storeID, AssetID: asset.ID})
	requireCode(t, err, pkgerrors.CodeNoPendingRequest)

	got, err := repo.FindByID(ctx, asset.ID, &storeID)
	require.NoError(t, err)
	assert.Equal(t, enums.AssetStatusDisposed, got.Status)
	assert.False(t, got.HasPendingReturn())
}

func replayHistory(history []models.AssetHistoryEntry) (enums.AssetStatus, *uuid.UUID) {
	var status enums.AssetStatus
	var assigned *uuid.UUID
	for _, entry := range history {
		switch entry.Verb {
		case enums.HistoryVerbCreated:
			if entry.Qualifier != nil {
				status = *entry.Qualifier
			}
			assigned = nil
		case enums.HistoryVerbCollected:
			status = enums.AssetStatusUsed
			actor := entry.ActorID
			assigned = &actor
		case enums.HistoryVerbReportedFaulty:
			status = enums.AssetStatusFaulty
			assigned = nil
		case enums.HistoryVerbReturned:
			if entry.Qualifier != nil {
				status = *entry.Qualifier
			}
			assigned = nil
		case enums.HistoryVerbDisposed:
			status = enums.AssetStatusDisposed
			assigned = nil
		}
	}
	return status, assigned
}

func TestHistoryReplayReconstructsState(t *testing.T) {
	repo := newStubAssetRepo()
	storeID := uuid.New()
	svc, _ := newTestService(t, repo)
	first := technicianActor()
	second := technicianActor()
	admin := adminActor()
	ctx := context.Background()

	created, err := svc.Intake(ctx, IntakeInput{
		Actor: admin, Scope: &storeID,
		SerialNumber: "SN-1", Name: "Router", ModelNumber: "R-1",
		Status: enums.AssetStatusNew,
	})
	require.NoError(t, err)
	assetID := created.ID

	steps := []func() error{
		func() error {
			_, err := svc.Collect(ctx, CollectInput{
				Actor: first, Scope: &storeID, AssetID: assetID,
				TicketNumber: "TCK-1", InstallationLocation: "site A",
			})
			return err
		},
		func() error {
			if _, err := svc.RequestReturn(ctx, ReturnRequestInput{
				Actor: first, Scope: &storeID, AssetID: assetID,
				Condition: enums.AssetStatusUsed, TicketNumber: "TCK-2",
			}); err != nil {
				return err
			}
			_, err := svc.ApproveReturn(ctx, ReturnDecisionInput{Actor: admin, Scope: &storeID, AssetID: assetID})
			return err
		},
		func() error {
			_, err := svc.Collect(ctx, CollectInput{
				Actor: second, Scope: &storeID, AssetID: assetID,
				TicketNumber: "TCK-3", InstallationLocation: "site B",
			})
			return err
		},
		func() error {
			_, err := svc.ReportFaulty(ctx, FaultyInput{
				Actor: admin, Scope: &storeID, AssetID: assetID, TicketNumber: "TCK-4",
			})
			return err
		},
		func() error {
			_, err := svc.Dispose(ctx, DisposeInput{Actor: admin, Scope: &storeID, AssetID: assetID})
			return err
		},
	}

	// After every transition the ledger alone must reproduce the live row.
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)

		history, err := repo.FindHistory(ctx, assetID)
		require.NoError(t, err)
		status, assigned := replayHistory(history)

		live, err := repo.FindByID(ctx, assetID, &storeID)
		require.NoError(t, err)
		assert.Equal(t, live.Status, status, "step %d status", i)
		if live.AssignedToID == nil {
			assert.Nil(t, assigned, "step %d assignment", i)
		} else {
			require.NotNil(t, assigned, "step %d assignment", i)
			assert.Equal(t, *live.AssignedToID, *assigned, "step %d holder", i)
		}
	}
}

func TestListPendingReturnsIsStoreScoped(t *testing.T) {
	repo := newStubAssetRepo()
	storeA := uuid.New()
	storeB := uuid.New()
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	inA := seedAsset(repo, storeA, enums.AssetStatusUsed)
	inB := seedAsset(repo, storeB, enums.AssetStatusUsed)
	techA := technicianActor()
	techB := technicianActor()
	inA.AssignedToID = &techA.ID
	inB.AssignedToID = &techB.ID

	_, err := svc.RequestReturn(ctx, ReturnRequestInput{
		Actor: techA, Scope: &storeA, AssetID: inA.ID,
		Condition: enums.AssetStatusUsed, TicketNumber: "TCK-1",
	})
	require.NoError(t, err)
	_, err = svc.RequestReturn(ctx, ReturnRequestInput{
		Actor: techB, Scope: &storeB, AssetID: inB.ID,
		Condition: enums.AssetStatusUsed, TicketNumber: "TCK-2",
	})
	require.NoError(t, err)

	pending, err := svc.ListPendingReturns(ctx, &storeA)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, inA.ID, pending[0].ID)

	all, err := svc.ListPendingReturns(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
