package assets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scyware/assettrack-backend/internal/activity"
	"github.com/scyware/assettrack-backend/pkg/db"
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

type custodyMetrics interface {
	ObserveDuration(event string, duration time.Duration)
	IncAccepted(event string)
	IncRejected(event string)
	IncFailed(event string)
}

// Service exposes custody transitions and ledger reads.
type Service interface {
	Intake(ctx context.Context, input IntakeInput) (*models.Asset, error)
	IntakeBatch(ctx context.Context, input BulkIntakeInput) ([]models.Asset, error)
	Collect(ctx context.Context, input CollectInput) (*models.Asset, error)
	ReportFaulty(ctx context.Context, input FaultyInput) (*models.Asset, error)
	RequestReturn(ctx context.Context, input ReturnRequestInput) (*models.Asset, error)
	ApproveReturn(ctx context.Context, input ReturnDecisionInput) (*models.Asset, error)
	RejectReturn(ctx context.Context, input ReturnDecisionInput) (*models.Asset, error)
	Dispose(ctx context.Context, input DisposeInput) (*models.Asset, error)
	ForceSetStatus(ctx context.Context, input ForceStatusInput) (*models.Asset, error)
	Get(ctx context.Context, assetID uuid.UUID, scope *uuid.UUID) (*AssetDetail, error)
	List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Asset, error)
	ListMine(ctx context.Context, actor Actor) (*MyAssets, error)
	ListPendingReturns(ctx context.Context, scope *uuid.UUID) ([]models.Asset, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	audit   activityRecorder
	metrics custodyMetrics
}

// NewService builds the custody service with its required dependencies.
func NewService(repo Repository, tx txRunner, audit activityRecorder, metrics custodyMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("asset repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if audit == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{repo: repo, tx: tx, audit: audit, metrics: metrics}, nil
}

func (s *service) Intake(ctx context.Context, input IntakeInput) (*models.Asset, error) {
	start := time.Now()
	asset, err := s.intake(ctx, input)
	s.instrument("intake", start, err)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, activity.RecordInput{
		ActorName:  input.Actor.Name,
		ActorEmail: input.Actor.Email,
		ActorRole:  input.Actor.Role,
		Action:     "asset.intake",
		Details:    strptr(fmt.Sprintf("registered %s (%s)", asset.Name, asset.SerialNumber)),
		StoreID:    &asset.StoreID,
	})
	return asset, nil
}

func (s *service) intake(ctx context.Context, input IntakeInput) (*models.Asset, error) {
	if !input.Status.IsIntakeStatus() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "intake status must be new or used").
			WithDetails(map[string]any{"status": input.Status.String()})
	}
	storeID, err := resolveTargetStore(input.Scope, input.StoreID)
	if err != nil {
		return nil, err
	}

	var out *models.Asset
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		asset := &models.Asset{
			SerialNumber: input.SerialNumber,
			StoreID:      storeID,
			Name:         input.Name,
			ModelNumber:  input.ModelNumber,
			MACAddress:   input.MACAddress,
			Status:       input.Status,
		}
		created, err := repo.Create(ctx, asset)
		if err != nil {
			if db.IsUniqueViolation(err, "idx_assets_serial_store") {
				return pkgerrors.New(pkgerrors.CodeConflict, "serial number already registered in this store")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create asset")
		}
		if err := repo.AppendHistory(ctx, intakeHistory(created, input.Actor, input.TicketNumber)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append intake history")
		}
		out = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) IntakeBatch(ctx context.Context, input BulkIntakeInput) ([]models.Asset, error) {
	start := time.Now()
	batch, err := s.intakeBatch(ctx, input)
	s.instrument("intake", start, err)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, activity.RecordInput{
		ActorName:  input.Actor.Name,
		ActorEmail: input.Actor.Email,
		ActorRole:  input.Actor.Role,
		Action:     "asset.intake",
		Details:    strptr(fmt.Sprintf("registered %d assets from vendor receipt", len(batch))),
		StoreID:    &batch[0].StoreID,
	})
	return batch, nil
}

func (s *service) intakeBatch(ctx context.Context, input BulkIntakeInput) ([]models.Asset, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item required")
	}
	if !input.Status.IsIntakeStatus() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "intake status must be new or used").
			WithDetails(map[string]any{"status": input.Status.String()})
	}
	storeID, err := resolveTargetStore(input.Scope, input.StoreID)
	if err != nil {
		return nil, err
	}

	batch := make([]models.Asset, 0, len(input.Items))
	for _, item := range input.Items {
		batch = append(batch, models.Asset{
			SerialNumber: item.SerialNumber,
			StoreID:      storeID,
			Name:         item.Name,
			ModelNumber:  item.ModelNumber,
			MACAddress:   item.MACAddress,
			Status:       input.Status,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateBatch(ctx, batch); err != nil {
			if db.IsUniqueViolation(err, "idx_assets_serial_store") {
				return pkgerrors.New(pkgerrors.CodeConflict, "serial number already registered in this store")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assets")
		}
		for i := range batch {
			if err := repo.AppendHistory(ctx, intakeHistory(&batch[i], input.Actor, input.TicketNumber)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append intake history")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

func (s *service) Collect(ctx context.Context, input CollectInput) (*models.Asset, error) {
	start := time.Now()
	asset, err := s.collect(ctx, input)
	s.instrument("collect", start, err)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, activity.RecordInput{
		ActorName:  input.Actor.Name,
		ActorEmail: input.Actor.Email,
		ActorRole:  input.Actor.Role,
		Action:     "asset.collect",
		Details:    strptr(fmt.Sprintf("collected %s for %s (ticket %s)", asset.SerialNumber, input.InstallationLocation, input.TicketNumber)),
		StoreID:    &asset.StoreID,
	})
	return asset, nil
}

func (s *service) collect(ctx context.Context, input CollectInput) (*models.Asset, error) {
	if input.TicketNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket number required")
	}
	if input.InstallationLocation == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "installation location required")
	}

	var out *models.Asset
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		asset, err := repo.FindByID(ctx, input.AssetID, input.Scope)
		if err != nil {
			return mapFindErr(err)
		}
		prior := asset.Status

		rows, err := repo.CollectUpdate(ctx, input.AssetID, input.Actor.ID, input.InstallationLocation, input.Scope)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "collect asset")
		}
		if rows == 0 {
			return s.diagnoseCollect(ctx, repo, input)
		}

		entry := &models.AssetHistoryEntry{
			AssetID:      asset.ID,
			Verb:         enums.HistoryVerbCollected,
			Qualifier:    &prior,
			ActorID:      input.Actor.ID,
			ActorName:    input.Actor.Name,
			TicketNumber: &input.TicketNumber,
			Detail:       strptr("installed at " + input.InstallationLocation),
		}
		if err := repo.AppendHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append collect history")
		}

		out, err = repo.FindByID(ctx, input.AssetID, input.Scope)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) diagnoseCollect(ctx context.Context, repo Repository, input CollectInput) error {
	asset, err := repo.FindByID(ctx, input.AssetID, input.Scope)
	if err != nil {
		return mapFindErr(err)
	}
	switch {
	case asset.Status.IsTerminal():
		return pkgerrors.New(pkgerrors.CodeInvalidTransition, "asset is disposed")
	case asset.AssignedToID != nil:
		return pkgerrors.New(pkgerrors.CodeAlreadyAssigned, "asset already in custody").
			WithDetails(map[string]any{"assigned_to": asset.AssignedToID.String()})
	case !asset.Status.IsCollectible():
		return pkgerrors.New(pkgerrors.CodeInvalidTransition, "asset status does not allow collection").
			WithDetails(map[string]any{"status": asset.Status.String()})
	default:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "asset changed concurrently")
	}
}

func (s *service) ReportFaulty(ctx context.Context, input FaultyInput) (*models.Asset, error) {
	start := time.Now()
	asset, err := s.reportFaulty(ctx, input)
	s.instrument("report_faulty", start, err)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, activity.RecordInput{
		ActorName:  input.Actor.Name,
		ActorEmail: input.Actor.Email,
		ActorRole:  input.Actor.Role,
		Action:     "asset.report_faulty",
		Details:    strptr(fmt.Sprintf("reported %s faulty (ticket %s)", asset.SerialNumber, input.TicketNumber)),
		StoreID:    &asset.StoreID,
	})
	return asset, nil
}

func (s *service) reportFaulty(ctx context.Context, input FaultyInput) (*models.Asset, error) {
	if input.TicketNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket number required")
	}

	var out *models.Asset
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		asset, err := repo.FindByID(ctx, input.AssetID, input.Scope)
		if err != nil {
			return mapFindErr(err)
		}

		var holder *uuid.UUID
		if !input.Actor.Role.IsElevated() {
			if asset.AssignedToID == nil || *asset.AssignedToID != input.Actor.ID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "custody of the asset required")
			}
			holder = &input.Actor.ID
		}

		rows, err := repo.FaultyUpdate(ctx, input.AssetID, holder, input.Scope)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "report faulty")
		}
		if rows == 0 {
			fresh, err := repo.FindByID(ctx, input.AssetID, input.Scope)
			if err != nil {
				return mapFindErr(err)
			}
			if fresh.Status.IsTerminal() {
				return pkgerrors.New(pkgerrors.CodeInvalidTransition, "asset is disposed")
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "asset changed concurrently")
		}

		entry := &models.AssetHistoryEntry{
			AssetID:      asset.ID,
			Verb:         enums.HistoryVerbReportedFaulty,
			ActorID:      input.Actor.ID,
			ActorName:    input.Actor.Name,
			TicketNumber: &input.TicketNumber,
			Detail:       input.Detail,
		}
		if err := repo.AppendHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append faulty history")
		}

		out, err = repo.FindByID(ctx, input.AssetID, input.Scope)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) RequestReturn(ctx context.Context, input ReturnRequestInput) (*models.Asset, error) {
	start := time.Now()
	asset, err := s.requestReturn(ctx, input)
	s.instrument("return_request", start, err)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, activity.RecordInput{
		ActorName:  input.Actor.Name,
		ActorEmail: input.Actor.Email,
		ActorRole:  input.Actor.Role,
		Action:     "asset.return_request",
		Details:    strptr(fmt.Sprintf("requested return of %s as %s", asset.SerialNumber, input.Condition)),
		StoreID:    &asset.StoreID,
	})
	return asset, nil
}

func (s *service) requestReturn(ctx context.Context, input ReturnRequestInput) (*models.Asset, error) {
	if input.TicketNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket number required")
	}
	if !input.Condition.IsReturnCondition() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid return condition").
			WithDetails(map[string]any{"condition": input.Condition.String()})
	}

	var out *models.Asset
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		asset, err := repo.FindByID(ctx, input.AssetID, input.Scope)
		if err != nil {
			return mapFindErr(err)
		}
		if asset.AssignedToID == nil || *asset.AssignedToID != input.Actor.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "custody of the asset required")
		}
		if asset.HasPendingReturn() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "return already requested")
		}

		rows, err := repo.StageReturnUpdate(ctx, input.AssetID, input.Actor.ID, input.Condition, input.TicketNumber, input.Scope)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stage return request")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "asset changed concurrently")
		}

		out, err = repo.FindByID(ctx, input.AssetID, input.Scope)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) ApproveReturn(ctx context.Context, input ReturnDecisionInput) (*models.Asset, error) {
	start := time.Now()
	asset, err := s.approveReturn(ctx, input)
	s.instrument("return_approve", start, err)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, activity.RecordInput{
		ActorName:  input.Actor.Name,
		ActorEmail: input.Actor.Email,
		ActorRole:  input.Actor.Role,
		Action:     "asset.return_approve",
		Details:    strptr(fmt.Sprintf("approved return of %s as %s", asset.SerialNumber, asset.Status)),
		StoreID:    &asset.StoreID,
	})
	return asset, nil
}

func (s *service) approveReturn(ctx context.Context, input ReturnDecisionInput) (*models.Asset, error) {
	var out *models.Asset
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		asset, err := repo.FindByID(ctx, input.AssetID, input.Scope)
		if err != nil {
			return mapFindErr(err)
		}
		if !asset.HasPendingReturn() {
			return pkgerrors.New(pkgerrors.CodeNoPendingRequest, "no pending return request")
		}
		condition := *asset.ReturnCondition
		ticket := asset.ReturnTicketNumber

		rows, err := repo.ApproveReturnUpdate(ctx, input.AssetID, input.Scope)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve return")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNoPendingRequest, "no pending return request")
		}

		entry := &models.AssetHistoryEntry{
			AssetID:      asset.ID,
			Verb:         enums.HistoryVerbReturned,
			Qualifier:    &condition,
			ActorID:      input.Actor.ID,
			ActorName:    input.Actor.Name,
			TicketNumber: ticket,
		}
		if err := repo.AppendHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append return history")
		}

		out, err = repo.FindByID(ctx, input.AssetID, input.Scope)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) RejectReturn(ctx context.Context, input ReturnDecisionInput) (*models.Asset, error) {
	start := time.Now()
	asset, err := s.rejectReturn(ctx, input)
	s.instrument("return_reject", start, err)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, activity.RecordInput{
		ActorName:  input.Actor.Name,
		ActorEmail: input.Actor.Email,
		ActorRole:  input.Actor.Role,
		Action:     "asset.return_reject",
		Details:    strptr(fmt.Sprintf("rejected return of %s", asset.SerialNumber)),
		StoreID:    &asset.StoreID,
	})
	return asset, nil
}

func (s *service) rejectReturn(ctx context.Context, input ReturnDecisionInput) (*models.Asset, error) {
	var out *models.Asset
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		asset, err := repo.FindByID(ctx, input.AssetID, input.Scope)
		if err != nil {
			return mapFindErr(err)
		}
		if !asset.HasPendingReturn() {
			return pkgerrors.New(pkgerrors.CodeNoPendingRequest, "no pending return request")
		}

		rows, err := repo.RejectReturnUpdate(ctx, input.AssetID, input.Scope)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject return")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNoPendingRequest, "no pending return request")
		}

		out, err = repo.FindByID(ctx, input.AssetID, input.Scope)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Dispose(ctx context.Context, input DisposeInput) (*models.Asset, error) {
	start := time.Now()
	asset, err := s.dispose(ctx, input)
	s.instrument("dispose", start, err)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, activity.RecordInput{
		ActorName:  input.Actor.Name,
		ActorEmail: input.Actor.Email,
		ActorRole:  input.Actor.Role,
		Action:     "asset.dispose",
		Details:    strptr(fmt.Sprintf("disposed %s", asset.SerialNumber)),
		StoreID:    &asset.StoreID,
	})
	return asset, nil
}

func (s *service) dispose(ctx context.Context, input DisposeInput) (*models.Asset, error) {
	var out *models.Asset
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		asset, err := repo.FindByID(ctx, input.AssetID, input.Scope)
		if err != nil {
			return mapFindErr(err)
		}

		rows, err := repo.DisposeUpdate(ctx, input.AssetID, input.Scope)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dispose asset")
		}
		if rows == 0 {
			fresh, err := repo.FindByID(ctx, input.AssetID, input.Scope)
			if err != nil {
				return mapFindErr(err)
			}
			if fresh.Status.IsTerminal() {
				return pkgerrors.New(pkgerrors.CodeInvalidTransition, "asset already disposed")
			}
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "only faulty assets can be disposed").
				WithDetails(map[string]any{"status": fresh.Status.String()})
		}

		entry := &models.AssetHistoryEntry{
			AssetID:   asset.ID,
			Verb:      enums.HistoryVerbDisposed,
			ActorID:   input.Actor.ID,
			ActorName: input.Actor.Name,
			Detail:    input.Detail,
		}
		if err := repo.AppendHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append dispose history")
		}

		out, err = repo.FindByID(ctx, input.AssetID, input.Scope)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ForceSetStatus bypasses the transition guards. It writes no ledger history;
// the audit entry is the only trace, so replaying history will not reproduce a
// forced status.
func (s *service) ForceSetStatus(ctx context.Context, input ForceStatusInput) (*models.Asset, error) {
	start := time.Now()
	asset, err := s.forceSetStatus(ctx, input)
	s.instrument("force_status", start, err)
	if err != nil {
		return nil, err
	}

	details := fmt.Sprintf("forced %s to %s", asset.SerialNumber, input.Status)
	if input.Reason != nil {
		details = fmt.Sprintf("%s: %s", details, *input.Reason)
	}
	s.audit.Record(ctx, activity.RecordInput{
		ActorName:  input.Actor.Name,
		ActorEmail: input.Actor.Email,
		ActorRole:  input.Actor.Role,
		Action:     "asset.force_status",
		Details:    &details,
		StoreID:    &asset.StoreID,
	})
	return asset, nil
}

func (s *service) forceSetStatus(ctx context.Context, input ForceStatusInput) (*models.Asset, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown asset status").
			WithDetails(map[string]any{"status": input.Status.String()})
	}

	var out *models.Asset
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, input.AssetID, input.Scope); err != nil {
			return mapFindErr(err)
		}

		clearAssignment := input.Status != enums.AssetStatusUsed
		rows, err := repo.ForceStatusUpdate(ctx, input.AssetID, input.Status, clearAssignment, input.Scope)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "force status")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
		}

		out, err = repo.FindByID(ctx, input.AssetID, input.Scope)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, assetID uuid.UUID, scope *uuid.UUID) (*AssetDetail, error) {
	asset, err := s.repo.FindByID(ctx, assetID, scope)
	if err != nil {
		return nil, mapFindErr(err)
	}
	history, err := s.repo.FindHistory(ctx, assetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load history")
	}
	return &AssetDetail{Asset: *asset, History: history}, nil
}

func (s *service) List(ctx context.Context, scope *uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Asset, error) {
	out, err := s.repo.List(ctx, scope, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assets")
	}
	return out, nil
}

func (s *service) ListMine(ctx context.Context, actor Actor) (*MyAssets, error) {
	touched, err := s.repo.ListTouchedBy(ctx, actor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list held assets")
	}

	view := &MyAssets{}
	for _, asset := range touched {
		verb, at := lastVerbBy(asset.History, actor.ID)
		held := HeldAsset{Asset: asset, LastVerb: verb, LastAt: at}
		if asset.AssignedToID != nil && *asset.AssignedToID == actor.ID {
			view.Current = append(view.Current, held)
			continue
		}
		view.Past = append(view.Past, held)
	}
	return view, nil
}

func (s *service) ListPendingReturns(ctx context.Context, scope *uuid.UUID) ([]models.Asset, error) {
	out, err := s.repo.ListPendingReturns(ctx, scope)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending returns")
	}
	return out, nil
}

func (s *service) instrument(event string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDuration(event, time.Since(start))
	switch {
	case err == nil:
		s.metrics.IncAccepted(event)
	case pkgerrors.HasCode(err, pkgerrors.CodeDependency) || pkgerrors.HasCode(err, pkgerrors.CodeInternal):
		s.metrics.IncFailed(event)
	default:
		s.metrics.IncRejected(event)
	}
}

func intakeHistory(asset *models.Asset, actor Actor, ticket *string) *models.AssetHistoryEntry {
	status := asset.Status
	return &models.AssetHistoryEntry{
		AssetID:      asset.ID,
		Verb:         enums.HistoryVerbCreated,
		Qualifier:    &status,
		ActorID:      actor.ID,
		ActorName:    actor.Name,
		TicketNumber: ticket,
	}
}

func lastVerbBy(history []models.AssetHistoryEntry, actorID uuid.UUID) (enums.HistoryVerb, time.Time) {
	var verb enums.HistoryVerb
	var at time.Time
	for _, entry := range history {
		if entry.ActorID != actorID {
			continue
		}
		if entry.CreatedAt.After(at) || verb == "" {
			verb = entry.Verb
			at = entry.CreatedAt
		}
	}
	return verb, at
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
		return pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load asset")
}

func strptr(value string) *string {
	return &value
}
