package activity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/scyware/assettrack-backend/pkg/db/models"
	"github.com/scyware/assettrack-backend/pkg/enums"
	"github.com/scyware/assettrack-backend/pkg/pagination"
)

type stubActivityRepo struct {
	entries   []models.ActivityLog
	createErr error
	listRows  []models.ActivityLog
}

func (s *stubActivityRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubActivityRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	if s.createErr != nil {
		return s.createErr
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *stubActivityRepo) List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.ActivityLog, error) {
	return s.listRows, nil
}

func TestRecordPersistsEntry(t *testing.T) {
	repo := &stubActivityRepo{}
	svc, err := NewService(repo, nil)
	require.NoError(t, err)

	storeID := uuid.New()
	details := "collected SN-1"
	svc.Record(context.Background(), RecordInput{
		ActorName:  "Tech One",
		ActorEmail: "tech@example.com",
		ActorRole:  enums.UserRoleTechnician,
		Action:     "asset.collect",
		Details:    &details,
		StoreID:    &storeID,
	})

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, "asset.collect", entry.Action)
	assert.Equal(t, enums.UserRoleTechnician, entry.Role)
	require.NotNil(t, entry.StoreID)
	assert.Equal(t, storeID, *entry.StoreID)
}

func TestRecordSwallowsWriteErrors(t *testing.T) {
	repo := &stubActivityRepo{createErr: fmt.Errorf("connection refused")}
	svc, err := NewService(repo, nil)
	require.NoError(t, err)

	// Must not panic or surface the failure.
	svc.Record(context.Background(), RecordInput{
		ActorName: "Tech One", ActorEmail: "tech@example.com",
		ActorRole: enums.UserRoleTechnician, Action: "asset.collect",
	})
	assert.Empty(t, repo.entries)
}

func TestListPaginatesWithBufferRow(t *testing.T) {
	now := time.Now()
	rows := make([]models.ActivityLog, 3)
	for i := range rows {
		rows[i] = models.ActivityLog{
			ID:        uuid.New(),
			UserName:  "Tech One",
			Action:    "asset.collect",
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		}
	}
	repo := &stubActivityRepo{listRows: rows}
	svc, err := NewService(repo, nil)
	require.NoError(t, err)

	page, err := svc.List(context.Background(), ListInput{Params: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Entries, 2)
	assert.NotEmpty(t, page.NextCursor)

	cursor, err := pagination.ParseCursor(page.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, rows[1].ID, cursor.ID)
}

func TestListNoNextPage(t *testing.T) {
	repo := &stubActivityRepo{listRows: []models.ActivityLog{{ID: uuid.New(), Action: "asset.collect"}}}
	svc, err := NewService(repo, nil)
	require.NoError(t, err)

	page, err := svc.List(context.Background(), ListInput{Params: pagination.Params{Limit: 25}})
	require.NoError(t, err)
	assert.Len(t, page.Entries, 1)
	assert.Empty(t, page.NextCursor)
}
