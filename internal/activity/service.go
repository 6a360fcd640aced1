package activity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/scyware/assettrack-backend/pkg/db/models"
	"github.com/scyware/assettrack-backend/pkg/enums"
	pkgerrors "github.com/scyware/assettrack-backend/pkg/errors"
	"github.com/scyware/assettrack-backend/pkg/logger"
	"github.com/scyware/assettrack-backend/pkg/pagination"
)

// RecordInput captures one audit entry.
type RecordInput struct {
	ActorName  string
	ActorEmail string
	ActorRole  enums.UserRole
	Action     string
	Details    *string
	StoreID    *uuid.UUID
}

// ListFilters narrows the activity listing.
type ListFilters struct {
	Action string
}

// ListInput drives the paginated activity listing.
type ListInput struct {
	Scope   *uuid.UUID
	Filters ListFilters
	Params  pagination.Params
}

// Page is one page of activity entries with an opaque continuation cursor.
type Page struct {
	Entries    []models.ActivityLog
	NextCursor string
}

// Service records and lists audit entries. Record never fails the caller:
// a write error is logged and swallowed.
type Service interface {
	Record(ctx context.Context, input RecordInput)
	List(ctx context.Context, input ListInput) (*Page, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds the activity service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("activity repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) {
	entry := &models.ActivityLog{
		UserName: input.ActorName,
		Email:    input.ActorEmail,
		Role:     input.ActorRole,
		Action:   input.Action,
		Details:  input.Details,
		StoreID:  input.StoreID,
	}
	if err := s.repo.Create(ctx, entry); err != nil && s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"action": input.Action})
		s.logg.Error(ctx, "activity.write_failed", err)
	}
}

func (s *service) List(ctx context.Context, input ListInput) (*Page, error) {
	limit := pagination.NormalizeLimit(input.Params.Limit)
	rows, err := s.repo.List(ctx, input.Scope, input.Filters, input.Params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list activity")
	}

	page := &Page{Entries: rows}
	if len(rows) > limit {
		page.Entries = rows[:limit]
		last := page.Entries[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}
