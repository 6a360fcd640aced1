package purchaseorders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

type vendorFinder interface {
	FindByID(ctx context.Context, vendorID uuid.UUID, scope *uuid.UUID) (*models.Vendor, error)
}

// Service manages the purchase order lifecycle.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.PurchaseOrder, error)
	Get(ctx context.Context, orderID uuid.UUID, scope *uuid.UUID) (*models.PurchaseOrder, error)
	List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, input DecisionInput) (*models.PurchaseOrder, error)
}

type service struct {
	repo    Repository
	vendors vendorFinder
	tx      txRunner
	audit   activityRecorder
}

// NewService builds the purchase order service with its required dependencies.
func NewService(repo Repository, vendors vendorFinder, tx txRunner, audit activityRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchase order repository required")
	}
	if vendors == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if audit == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{repo: repo, vendors: vendors, tx: tx, audit: audit}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.PurchaseOrder, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item required")
	}
	for _, item := range input.Items {
		if strings.TrimSpace(item.ItemName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
		}
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
		if item.Rate.IsNegative() || item.Tax.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item amounts must not be negative")
		}
	}
	storeID, err := resolveTargetStore(input.Scope, input.StoreID)
	if err != nil {
		return nil, err
	}

	var out *models.PurchaseOrder
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		vendor, err := s.vendors.FindByID(ctx, input.VendorID, &storeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
		}
		if vendor.Status != enums.VendorStatusActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "vendor is inactive")
		}

		orderDate := input.OrderDate
		if orderDate.IsZero() {
			orderDate = time.Now()
		}

		items, subtotal, taxTotal := buildItems(input.Items)
		order := &models.PurchaseOrder{
			PONumber:     generatePONumber(orderDate),
			VendorID:     vendor.ID,
			OrderDate:    orderDate,
			DeliveryDate: input.DeliveryDate,
			Items:        items,
			Subtotal:     subtotal,
			TaxTotal:     taxTotal,
			GrandTotal:   subtotal.Add(taxTotal),
			Notes:        input.Notes,
			Attachments:  input.Attachments,
			Status:       enums.PurchaseOrderStatusDraft,
			StoreID:      storeID,
			CreatedByID:  input.Actor.ID,
		}
		created, err := repo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase order")
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
		Action:     "purchase_order.create",
		Details:    strptr(fmt.Sprintf("opened %s for %s", out.PONumber, out.GrandTotal.StringFixed(2))),
		StoreID:    &out.StoreID,
	})
	return out, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID, scope *uuid.UUID) (*models.PurchaseOrder, error) {
	order, err := s.repo.FindByID(ctx, orderID, scope)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return order, nil
}

func (s *service) List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.PurchaseOrder, error) {
	out, err := s.repo.List(ctx, scope, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchase orders")
	}
	return out, nil
}

func (s *service) UpdateStatus(ctx context.Context, input DecisionInput) (*models.PurchaseOrder, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown purchase order status").
			WithDetails(map[string]any{"status": input.Status.String()})
	}

	var out *models.PurchaseOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, input.OrderID, input.Scope)
		if err != nil {
			return mapFindErr(err)
		}
		if !order.Status.CanTransitionTo(input.Status) {
			return invalidTransition(order.Status, input.Status)
		}

		rows, err := repo.StatusUpdate(ctx, input.OrderID, order.Status, input.Status, input.Scope)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update purchase order status")
		}
		if rows == 0 {
			fresh, err := repo.FindByID(ctx, input.OrderID, input.Scope)
			if err != nil {
				return mapFindErr(err)
			}
			if !fresh.Status.CanTransitionTo(input.Status) {
				return invalidTransition(fresh.Status, input.Status)
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "purchase order changed concurrently")
		}

		out, err = repo.FindByID(ctx, input.OrderID, input.Scope)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, activity.RecordInput{
		ActorName:  input.Actor.Name,
		ActorEmail: input.Actor.Email,
		ActorRole:  input.Actor.Role,
		Action:     "purchase_order.status",
		Details:    strptr(fmt.Sprintf("moved %s to %s", out.PONumber, out.Status)),
		StoreID:    &out.StoreID,
	})
	return out, nil
}

func buildItems(inputs []ItemInput) ([]models.PurchaseOrderItem, decimal.Decimal, decimal.Decimal) {
	items := make([]models.PurchaseOrderItem, 0, len(inputs))
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, input := range inputs {
		lineSubtotal := input.Rate.Mul(decimal.NewFromInt(int64(input.Quantity)))
		items = append(items, models.PurchaseOrderItem{
			ItemName: input.ItemName,
			Quantity: input.Quantity,
			Rate:     input.Rate,
			Tax:      input.Tax,
			Total:    lineSubtotal.Add(input.Tax),
		})
		subtotal = subtotal.Add(lineSubtotal)
		taxTotal = taxTotal.Add(input.Tax)
	}
	return items, subtotal, taxTotal
}

func generatePONumber(orderDate time.Time) string {
	return fmt.Sprintf("PO-%s-%s", orderDate.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}

func invalidTransition(from, to enums.PurchaseOrderStatus) error {
	return pkgerrors.New(pkgerrors.CodeInvalidTransition, "purchase order status transition disallowed").
		WithDetails(map[string]any{"from": from.String(), "to": to.String()})
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

func mapFindErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase order")
}

func strptr(value string) *string {
	return &value
}
