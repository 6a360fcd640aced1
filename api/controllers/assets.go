package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/scyware/assettrack-backend/api/responses"
	"github.com/scyware/assettrack-backend/api/validators"
	"github.com/scyware/assettrack-backend/internal/assets"
	"github.com/scyware/assettrack-backend/pkg/enums"
	pkgerrors "github.com/scyware/assettrack-backend/pkg/errors"
	"github.com/scyware/assettrack-backend/pkg/logger"
)

type assetIntakeRequest struct {
	StoreID      string  `json:"store_id" validate:"omitempty,uuid"`
	SerialNumber string  `json:"serial_number" validate:"required,max=120"`
	Name         string  `json:"name" validate:"required,max=180"`
	ModelNumber  string  `json:"model_number" validate:"required,max=120"`
	MACAddress   *string `json:"mac_address" validate:"omitempty,max=64"`
	Status       string  `json:"status" validate:"required"`
	TicketNumber *string `json:"ticket_number" validate:"omitempty,max=64"`
}

func (b assetIntakeRequest) toInput(actor assets.Actor, scope *uuid.UUID) (assets.IntakeInput, error) {
	status, err := enums.ParseAssetStatus(b.Status)
	if err != nil {
		return assets.IntakeInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}
	input := assets.IntakeInput{
		Actor:        actor,
		Scope:        scope,
		SerialNumber: validators.SanitizeString(b.SerialNumber, 120),
		Name:         validators.SanitizeString(b.Name, 180),
		ModelNumber:  validators.SanitizeString(b.ModelNumber, 120),
		MACAddress:   b.MACAddress,
		Status:       status,
		TicketNumber: b.TicketNumber,
	}
	if b.StoreID != "" {
		storeID, err := uuid.Parse(b.StoreID)
		if err != nil {
			return assets.IntakeInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
		}
		input.StoreID = storeID
	}
	return input, nil
}

type bulkIntakeItemRequest struct {
	SerialNumber string  `json:"serial_number" validate:"required,max=120"`
	Name         string  `json:"name" validate:"required,max=180"`
	ModelNumber  string  `json:"model_number" validate:"required,max=120"`
	MACAddress   *string `json:"mac_address" validate:"omitempty,max=64"`
}

type assetBulkIntakeRequest struct {
	StoreID      string                  `json:"store_id" validate:"omitempty,uuid"`
	Status       string                  `json:"status" validate:"required"`
	TicketNumber *string                 `json:"ticket_number" validate:"omitempty,max=64"`
	Items        []bulkIntakeItemRequest `json:"items" validate:"required,min=1,max=500,dive"`
}

func (b assetBulkIntakeRequest) toInput(actor assets.Actor, scope *uuid.UUID) (assets.BulkIntakeInput, error) {
	status, err := enums.ParseAssetStatus(b.Status)
	if err != nil {
		return assets.BulkIntakeInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}
	input := assets.BulkIntakeInput{
		Actor:        actor,
		Scope:        scope,
		Status:       status,
		TicketNumber: b.TicketNumber,
	}
	if b.StoreID != "" {
		storeID, err := uuid.Parse(b.StoreID)
		if err != nil {
			return assets.BulkIntakeInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
		}
		input.StoreID = storeID
	}
	for _, item := range b.Items {
		input.Items = append(input.Items, assets.BulkIntakeItem{
			SerialNumber: validators.SanitizeString(item.SerialNumber, 120),
			Name:         validators.SanitizeString(item.Name, 180),
			ModelNumber:  validators.SanitizeString(item.ModelNumber, 120),
			MACAddress:   item.MACAddress,
		})
	}
	return input, nil
}

type assetCollectRequest struct {
	TicketNumber         string `json:"ticket_number" validate:"required,max=64"`
	InstallationLocation string `json:"installation_location" validate:"required,max=240"`
}

type assetFaultyRequest struct {
	TicketNumber string  `json:"ticket_number" validate:"required,max=64"`
	Detail       *string `json:"detail" validate:"omitempty,max=500"`
}

type assetReturnRequest struct {
	Condition    string `json:"condition" validate:"required"`
	TicketNumber string `json:"ticket_number" validate:"required,max=64"`
}

type assetDisposeRequest struct {
	Detail *string `json:"detail" validate:"omitempty,max=500"`
}

type assetForceStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

// AssetIntake registers a single asset into the fleet.
func AssetIntake(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}
		actor, scope, err := actorAndScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body assetIntakeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput(actor, scope)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		asset, err := svc.Intake(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, asset)
	}
}

// AssetBulkIntake registers a batch of assets from one vendor receipt.
func AssetBulkIntake(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}
		actor, scope, err := actorAndScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body assetBulkIntakeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput(actor, scope)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.IntakeBatch(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AssetList returns a cursor page of assets visible to the caller.
func AssetList(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}
		scope, err := scopeFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters := assets.ListFilters{Search: r.URL.Query().Get("search")}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseAssetStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		assignedTo, err := parseOptionalUUID(r.URL.Query().Get("assigned_to"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.AssignedToID = assignedTo

		page, err := svc.List(r.Context(), scope, filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AssetDetail returns one asset with its full custody history.
func AssetDetail(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}
		scope, err := scopeFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assetID, err := parsePathUUID(r, "assetID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.Get(r.Context(), assetID, scope)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// AssetListMine returns the caller's current and past custody.
func AssetListMine(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}
		actor, _, err := actorAndScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mine, err := svc.ListMine(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mine)
	}
}

// AssetListPendingReturns lists assets with a staged return awaiting review.
func AssetListPendingReturns(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}
		scope, err := scopeFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pending, err := svc.ListPendingReturns(r.Context(), scope)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pending)
	}
}

// AssetCollect claims custody of an available asset for the caller.
func AssetCollect(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}
		actor, scope, err := actorAndScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assetID, err := parsePathUUID(r, "assetID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body assetCollectRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		asset, err := svc.Collect(r.Context(), assets.CollectInput{
			Actor:                actor,
			Scope:                scope,
			AssetID:              assetID,
			TicketNumber:         body.TicketNumber,
			InstallationLocation: body.InstallationLocation,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, asset)
	}
}

// AssetReportFaulty flags an asset faulty and releases custody.
func AssetReportFaulty(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}
		actor, scope, err := actorAndScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assetID, err := parsePathUUID(r, "assetID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body assetFaultyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		asset, err := svc.ReportFaulty(r.Context(), assets.FaultyInput{
			Actor:        actor,
			Scope:        scope,
			AssetID:      assetID,
			TicketNumber: body.TicketNumber,
			Detail:       body.Detail,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, asset)
	}
}

// AssetRequestReturn stages a return for admin review.
func AssetRequestReturn(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}
		actor, scope, err := actorAndScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assetID, err := parsePathUUID(r, "assetID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body assetReturnRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		condition, err := enums.ParseAssetStatus(body.Condition)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid condition"))
			return
		}
		asset, err := svc.RequestReturn(r.Context(), assets.ReturnRequestInput{
			Actor:        actor,
			Scope:        scope,
			AssetID:      assetID,
			Condition:    condition,
			TicketNumber: body.TicketNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, asset)
	}
}

// AssetApproveReturn accepts a staged return and applies its condition.
func AssetApproveReturn(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}
		actor, scope, err := actorAndScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assetID, err := parsePathUUID(r, "assetID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		asset, err := svc.ApproveReturn(r.Context(), assets.ReturnDecisionInput{
			Actor:   actor,
			Scope:   scope,
			AssetID: assetID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, asset)
	}
}

// AssetRejectReturn discards a staged return and keeps custody in place.
func AssetRejectReturn(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}
		actor, scope, err := actorAndScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assetID, err := parsePathUUID(r, "assetID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		asset, err := svc.RejectReturn(r.Context(), assets.ReturnDecisionInput{
			Actor:   actor,
			Scope:   scope,
			AssetID: assetID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, asset)
	}
}

// AssetDispose retires a faulty asset permanently.
func AssetDispose(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}
		actor, scope, err := actorAndScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assetID, err := parsePathUUID(r, "assetID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body assetDisposeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		asset, err := svc.Dispose(r.Context(), assets.DisposeInput{
			Actor:   actor,
			Scope:   scope,
			AssetID: assetID,
			Detail:  body.Detail,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, asset)
	}
}

// AssetForceStatus sets a status directly, bypassing the custody workflow.
func AssetForceStatus(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}
		actor, scope, err := actorAndScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assetID, err := parsePathUUID(r, "assetID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body assetForceStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseAssetStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}
		asset, err := svc.ForceSetStatus(r.Context(), assets.ForceStatusInput{
			Actor:   actor,
			Scope:   scope,
			AssetID: assetID,
			Status:  status,
			Reason:  body.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, asset)
	}
}

func actorAndScope(r *http.Request) (assets.Actor, *uuid.UUID, error) {
	identity, err := requireActor(r)
	if err != nil {
		return assets.Actor{}, nil, err
	}
	scope, err := scopeFromContext(r)
	if err != nil {
		return assets.Actor{}, nil, err
	}
	return assets.Actor{
		ID:    identity.ID,
		Name:  identity.Name,
		Email: identity.Email,
		Role:  identity.Role,
	}, scope, nil
}
