package requests

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/scyware/assettrack-backend/internal/activity"
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

// Service exposes the procurement request workflow.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Request, error)
	Get(ctx context.Context, requestID uuid.UUID, scope *uuid.UUID) (*models.Request, error)
	List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Request, error)
	UpdateStatus(ctx context.Context, input DecisionInput) (*models.Request, error)
	Export(ctx context.Context, scope *uuid.UUID, filters ListFilters) (*excelize.File, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	audit activityRecorder
}

// NewService builds the request service with its required dependencies.
func NewService(repo Repository, tx txRunner, audit activityRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("request repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if audit == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{repo: repo, tx: tx, audit: audit}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Request, error) {
	if input.ItemName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	storeID := input.StoreID
	if input.Scope != nil {
		storeID = input.Scope
	}

	request := &models.Request{
		ItemName:    input.ItemName,
		Quantity:    input.Quantity,
		Description: input.Description,
		Status:      enums.RequestStatusPending,
		RequesterID: input.Actor.ID,
		StoreID:     storeID,
	}
	created, err := s.repo.Create(ctx, request)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create request")
	}

	s.audit.Record(ctx, activity.RecordInput{
		ActorName:  input.Actor.Name,
		ActorEmail: input.Actor.Email,
		ActorRole:  input.Actor.Role,
		Action:     "request.create",
		Details:    strptr(fmt.Sprintf("requested %dx %s", created.Quantity, created.ItemName)),
		StoreID:    created.StoreID,
	})
	return created, nil
}

func (s *service) Get(ctx context.Context, requestID uuid.UUID, scope *uuid.UUID) (*models.Request, error) {
	request, err := s.repo.FindByID(ctx, requestID, scope)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return request, nil
}

func (s *service) List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Request, error) {
	out, err := s.repo.List(ctx, scope, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}
	return out, nil
}

func (s *service) UpdateStatus(ctx context.Context, input DecisionInput) (*models.Request, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown request status").
			WithDetails(map[string]any{"status": input.Status.String()})
	}

	var out *models.Request
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		request, err := repo.FindByID(ctx, input.RequestID, input.Scope)
		if err != nil {
			return mapFindErr(err)
		}
		if !request.Status.CanTransitionTo(input.Status) {
			return invalidTransition(request.Status, input.Status)
		}

		rows, err := repo.StatusUpdate(ctx, input.RequestID, request.Status, input.Status, input.Scope)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request status")
		}
		if rows == 0 {
			fresh, err := repo.FindByID(ctx, input.RequestID, input.Scope)
			if err != nil {
				return mapFindErr(err)
			}
			if !fresh.Status.CanTransitionTo(input.Status) {
				return invalidTransition(fresh.Status, input.Status)
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request changed concurrently")
		}

		out, err = repo.FindByID(ctx, input.RequestID, input.Scope)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, activity.RecordInput{
		ActorName:  input.Actor.Name,
		ActorEmail: input.Actor.Email,
		ActorRole:  input.Actor.Role,
		Action:     "request.status",
		Details:    strptr(fmt.Sprintf("moved %s to %s", out.ItemName, out.Status)),
		StoreID:    out.StoreID,
	})
	return out, nil
}

func invalidTransition(from, to enums.RequestStatus) error {
	return pkgerrors.New(pkgerrors.CodeInvalidTransition, "request status transition disallowed").
		WithDetails(map[string]any{"from": from.String(), "to": to.String()})
}

func mapFindErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
}

func strptr(value string) *string {
	return &value
}
