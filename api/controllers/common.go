package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/scyware/assettrack-backend/api/middleware"
	"github.com/scyware/assettrack-backend/api/validators"
	"github.com/scyware/assettrack-backend/pkg/enums"
	pkgerrors "github.com/scyware/assettrack-backend/pkg/errors"
	"github.com/scyware/assettrack-backend/pkg/pagination"
)

// actorIdentity is the authenticated caller as resolved by the auth middleware.
type actorIdentity struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  enums.UserRole
}

func requireActor(r *http.Request) (actorIdentity, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return actorIdentity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return actorIdentity{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return actorIdentity{
		ID:    id,
		Name:  middleware.UserNameFromContext(r.Context()),
		Email: middleware.UserEmailFromContext(r.Context()),
		Role:  middleware.RoleFromContext(r.Context()),
	}, nil
}

// scopeFromContext returns the resolved store scope. Nil means the caller acts
// across all stores.
func scopeFromContext(r *http.Request) (*uuid.UUID, error) {
	raw := middleware.StoreIDFromContext(r.Context())
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
	}
	return &id, nil
}

func parsePathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").
			WithDetails(map[string]any{"param": param})
	}
	return id, nil
}

func paginationParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}, nil
}

func parseOptionalUUID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid uuid")
	}
	return &id, nil
}
