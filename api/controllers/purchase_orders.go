package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/scyware/assettrack-backend/api/responses"
	"github.com/scyware/assettrack-backend/api/validators"
	"github.com/scyware/assettrack-backend/internal/purchaseorders"
	"github.com/scyware/assettrack-backend/pkg/enums"
	pkgerrors "github.com/scyware/assettrack-backend/pkg/errors"
	"github.com/scyware/assettrack-backend/pkg/logger"
)

type purchaseOrderItemRequest struct {
	ItemName string `json:"item_name" validate:"required,max=180"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Rate     string `json:"rate" validate:"required"`
	Tax      string `json:"tax" validate:"omitempty"`
}

type purchaseOrderCreateRequest struct {
	StoreID      string                     `json:"store_id" validate:"omitempty,uuid"`
	VendorID     string                     `json:"vendor_id" validate:"required,uuid"`
	OrderDate    string                     `json:"order_date" validate:"required"`
	DeliveryDate *string                    `json:"delivery_date"`
	Notes        *string                    `json:"notes" validate:"omitempty,max=1000"`
	Attachments  []string                   `json:"attachments" validate:"omitempty,max=10,dive,max=500"`
	Items        []purchaseOrderItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
}

type purchaseOrderDecisionRequest struct {
	Status string `json:"status" validate:"required"`
}

func (b purchaseOrderCreateRequest) toInput(actor purchaseorders.Actor, scope *uuid.UUID) (purchaseorders.CreateInput, error) {
	vendorID, err := uuid.Parse(b.VendorID)
	if err != nil {
		return purchaseorders.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id")
	}
	orderDate, err := time.Parse("2006-01-02", b.OrderDate)
	if err != nil {
		return purchaseorders.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "order_date must be YYYY-MM-DD")
	}
	input := purchaseorders.CreateInput{
		Actor:       actor,
		Scope:       scope,
		VendorID:    vendorID,
		OrderDate:   orderDate,
		Notes:       b.Notes,
		Attachments: b.Attachments,
	}
	if b.StoreID != "" {
		storeID, err := uuid.Parse(b.StoreID)
		if err != nil {
			return purchaseorders.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
		}
		input.StoreID = storeID
	}
	if b.DeliveryDate != nil && *b.DeliveryDate != "" {
		delivery, err := time.Parse("2006-01-02", *b.DeliveryDate)
		if err != nil {
			return purchaseorders.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "delivery_date must be YYYY-MM-DD")
		}
		input.DeliveryDate = &delivery
	}
	for _, item := range b.Items {
		rate, err := decimal.NewFromString(item.Rate)
		if err != nil {
			return purchaseorders.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "rate must be a decimal amount")
		}
		tax := decimal.Zero
		if item.Tax != "" {
			tax, err = decimal.NewFromString(item.Tax)
			if err != nil {
				return purchaseorders.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "tax must be a decimal amount")
			}
		}
		input.Items = append(input.Items, purchaseorders.ItemInput{
			ItemName: item.ItemName,
			Quantity: item.Quantity,
			Rate:     rate,
			Tax:      tax,
		})
	}
	return input, nil
}

// PurchaseOrderCreate opens a draft purchase order against a vendor.
func PurchaseOrderCreate(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}
		identity, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope, err := scopeFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body purchaseOrderCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput(purchaseOrderActor(identity), scope)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// PurchaseOrderList returns a cursor page of purchase orders.
func PurchaseOrderList(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
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
		filters := purchaseorders.ListFilters{}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParsePurchaseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		vendorID, err := parseOptionalUUID(r.URL.Query().Get("vendor_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.VendorID = vendorID

		page, err := svc.List(r.Context(), scope, filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// PurchaseOrderDetail returns one order with its lines and vendor preloaded.
func PurchaseOrderDetail(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}
		scope, err := scopeFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parsePathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		found, err := svc.Get(r.Context(), orderID, scope)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

// PurchaseOrderUpdateStatus moves an order along its workflow.
func PurchaseOrderUpdateStatus(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}
		identity, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope, err := scopeFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parsePathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body purchaseOrderDecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParsePurchaseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}
		updated, err := svc.UpdateStatus(r.Context(), purchaseorders.DecisionInput{
			Actor:   purchaseOrderActor(identity),
			Scope:   scope,
			OrderID: orderID,
			Status:  status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func purchaseOrderActor(identity actorIdentity) purchaseorders.Actor {
	return purchaseorders.Actor{
		ID:    identity.ID,
		Name:  identity.Name,
		Email: identity.Email,
		Role:  identity.Role,
	}
}
