package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/scyware/assettrack-backend/internal/activity"
	"github.com/scyware/assettrack-backend/internal/assets"
	"github.com/scyware/assettrack-backend/internal/auth"
	"github.com/scyware/assettrack-backend/internal/purchaseorders"
	"github.com/scyware/assettrack-backend/internal/requests"
	"github.com/scyware/assettrack-backend/internal/stores"
	"github.com/scyware/assettrack-backend/internal/vendors"
	pkgAuth "github.com/scyware/assettrack-backend/pkg/auth"
	"github.com/scyware/assettrack-backend/pkg/config"
	"github.com/scyware/assettrack-backend/pkg/db/models"
	"github.com/scyware/assettrack-backend/pkg/enums"
	"github.com/scyware/assettrack-backend/pkg/logger"
	"github.com/scyware/assettrack-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, input auth.LoginInput) (*auth.LoginResult, error) {
	return &auth.LoginResult{Token: "stub"}, nil
}

type stubAssetService struct{}

func (stubAssetService) Intake(ctx context.Context, input assets.IntakeInput) (*models.Asset, error) {
	return &models.Asset{}, nil
}

func (stubAssetService) IntakeBatch(ctx context.Context, input assets.BulkIntakeInput) ([]models.Asset, error) {
	return nil, nil
}

func (stubAssetService) Collect(ctx context.Context, input assets.CollectInput) (*models.Asset, error) {
	return &models.Asset{}, nil
}

func (stubAssetService) ReportFaulty(ctx context.Context, input assets.FaultyInput) (*models.Asset, error) {
	return &models.Asset{}, nil
}

func (stubAssetService) RequestReturn(ctx context.Context, input assets.ReturnRequestInput) (*models.Asset, error) {
	return &models.Asset{}, nil
}

func (stubAssetService) ApproveReturn(ctx context.Context, input assets.ReturnDecisionInput) (*models.Asset, error) {
	return &models.Asset{}, nil
}

func (stubAssetService) RejectReturn(ctx context.Context, input assets.ReturnDecisionInput) (*models.Asset, error) {
	return &models.Asset{}, nil
}

func (stubAssetService) Dispose(ctx context.Context, input assets.DisposeInput) (*models.Asset, error) {
	return &models.Asset{}, nil
}

func (stubAssetService) ForceSetStatus(ctx context.Context, input assets.ForceStatusInput) (*models.Asset, error) {
	return &models.Asset{}, nil
}

func (stubAssetService) Get(ctx context.Context, assetID uuid.UUID, scope *uuid.UUID) (*assets.AssetDetail, error) {
	return &assets.AssetDetail{}, nil
}

func (stubAssetService) List(ctx context.Context, scope *uuid.UUID, filters assets.ListFilters, params pagination.Params) ([]models.Asset, error) {
	return nil, nil
}

func (stubAssetService) ListMine(ctx context.Context, actor assets.Actor) (*assets.MyAssets, error) {
	return &assets.MyAssets{}, nil
}

func (stubAssetService) ListPendingReturns(ctx context.Context, scope *uuid.UUID) ([]models.Asset, error) {
	return nil, nil
}

type stubRequestService struct{}

func (stubRequestService) Create(ctx context.Context, input requests.CreateInput) (*models.Request, error) {
	return &models.Request{}, nil
}

func (stubRequestService) Get(ctx context.Context, requestID uuid.UUID, scope *uuid.UUID) (*models.Request, error) {
	return &models.Request{}, nil
}

func (stubRequestService) List(ctx context.Context, scope *uuid.UUID, filters requests.ListFilters, params pagination.Params) ([]models.Request, error) {
	return nil, nil
}

func (stubRequestService) UpdateStatus(ctx context.Context, input requests.DecisionInput) (*models.Request, error) {
	return &models.Request{}, nil
}

func (stubRequestService) Export(ctx context.Context, scope *uuid.UUID, filters requests.ListFilters) (*excelize.File, error) {
	return excelize.NewFile(), nil
}

type stubStoreService struct{}

func (stubStoreService) Create(ctx context.Context, input stores.CreateInput) (*models.Store, error) {
	return &models.Store{}, nil
}

func (stubStoreService) Get(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	return &models.Store{}, nil
}

func (stubStoreService) List(ctx context.Context) ([]models.Store, error) {
	return nil, nil
}

func (stubStoreService) Rename(ctx context.Context, input stores.RenameInput) (*models.Store, error) {
	return &models.Store{}, nil
}

type stubVendorService struct{}

func (stubVendorService) Create(ctx context.Context, input vendors.CreateInput) (*models.Vendor, error) {
	return &models.Vendor{}, nil
}

func (stubVendorService) Get(ctx context.Context, vendorID uuid.UUID, scope *uuid.UUID) (*models.Vendor, error) {
	return &models.Vendor{}, nil
}

func (stubVendorService) List(ctx context.Context, scope *uuid.UUID, filters vendors.ListFilters, params pagination.Params) ([]models.Vendor, error) {
	return nil, nil
}

func (stubVendorService) Update(ctx context.Context, input vendors.UpdateInput) (*models.Vendor, error) {
	return &models.Vendor{}, nil
}

type stubPurchaseOrderService struct{}

func (stubPurchaseOrderService) Create(ctx context.Context, input purchaseorders.CreateInput) (*models.PurchaseOrder, error) {
	return &models.PurchaseOrder{}, nil
}

func (stubPurchaseOrderService) Get(ctx context.Context, orderID uuid.UUID, scope *uuid.UUID) (*models.PurchaseOrder, error) {
	return &models.PurchaseOrder{}, nil
}

func (stubPurchaseOrderService) List(ctx context.Context, scope *uuid.UUID, filters purchaseorders.ListFilters, params pagination.Params) ([]models.PurchaseOrder, error) {
	return nil, nil
}

func (stubPurchaseOrderService) UpdateStatus(ctx context.Context, input purchaseorders.DecisionInput) (*models.PurchaseOrder, error) {
	return &models.PurchaseOrder{}, nil
}

type stubActivityService struct{}

func (stubActivityService) Record(ctx context.Context, input activity.RecordInput) {}

func (stubActivityService) List(ctx context.Context, input activity.ListInput) (*activity.Page, error) {
	return &activity.Page{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(cfg, logg, Deps{DB: stubPinger{}}, Services{
		Auth:           stubAuthService{},
		Assets:         stubAssetService{},
		Requests:       stubRequestService{},
		Stores:         stubStoreService{},
		Vendors:        stubVendorService{},
		PurchaseOrders: stubPurchaseOrderService{},
		Activity:       stubActivityService{},
	})
}

func requestBody(payload string) io.Reader {
	return strings.NewReader(payload)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole, assignedStore *uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:          uuid.New(),
		Name:            "Test User",
		Email:           "test@example.com",
		Role:            role,
		AssignedStoreID: assignedStore,
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for live probe got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	store := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleTechnician, &store))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestAdminPingRequiresElevatedRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	store := uuid.New()

	technician := httptest.NewRequest(http.MethodGet, "/api/v1/admin/ping", nil)
	technician.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleTechnician, &store))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, technician)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for technician got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/admin/ping", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin, &store))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestAssetIntakeRequiresElevatedRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	store := uuid.New()

	body := `{"serial_number":"SN-1","name":"Router","model_number":"RTX-1","status":"new"}`
	technician := httptest.NewRequest(http.MethodPost, "/api/v1/assets/", nil)
	technician.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleTechnician, &store))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, technician)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for technician intake got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPost, "/api/v1/assets/", requestBody(body))
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin, &store))
	admin.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin intake got %d", resp.Code)
	}
}

func TestStoreCreateRequiresSuperAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	store := uuid.New()

	body := `{"name":"Main Warehouse","is_main_store":true}`
	admin := httptest.NewRequest(http.MethodPost, "/api/v1/stores/", requestBody(body))
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin, &store))
	admin.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin store create got %d", resp.Code)
	}

	super := httptest.NewRequest(http.MethodPost, "/api/v1/stores/", requestBody(body))
	super.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleSuperAdmin, nil))
	super.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, super)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for super admin store create got %d", resp.Code)
	}
}

func TestStoreScopeResolution(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	store := uuid.New()

	super := httptest.NewRequest(http.MethodGet, "/api/v1/assets/", nil)
	super.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleSuperAdmin, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, super)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for super admin wildcard list got %d", resp.Code)
	}

	pinned := httptest.NewRequest(http.MethodGet, "/api/v1/assets/", nil)
	pinned.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleTechnician, &store))
	pinned.Header.Set("X-Active-Store", uuid.NewString())
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, pinned)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for pinned technician list got %d", resp.Code)
	}
}

type memoryIdempotencyStore struct {
	data map[string]string
}

func (m *memoryIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	return m.data[key], nil
}

func (m *memoryIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	m.data[key] = str
	return true, nil
}

func (m *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "test:" + scope + ":" + id
}

func TestCustodyRoutesEnforceIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	router := NewRouter(cfg, logg, Deps{
		DB:         stubPinger{},
		Idempotent: &memoryIdempotencyStore{data: map[string]string{}},
	}, Services{
		Auth:           stubAuthService{},
		Assets:         stubAssetService{},
		Requests:       stubRequestService{},
		Stores:         stubStoreService{},
		Vendors:        stubVendorService{},
		PurchaseOrders: stubPurchaseOrderService{},
		Activity:       stubActivityService{},
	})
	store := uuid.New()
	token := buildToken(t, cfg, enums.UserRoleTechnician, &store)
	target := "/api/v1/assets/" + uuid.NewString() + "/collect"
	body := `{"ticket_number":"TCK-1","installation_location":"site A"}`

	noKey := httptest.NewRequest(http.MethodPost, target, requestBody(body))
	noKey.Header.Set("Authorization", "Bearer "+token)
	noKey.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, noKey)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for collect without idempotency key got %d", resp.Code)
	}

	keyed := httptest.NewRequest(http.MethodPost, target, requestBody(body))
	keyed.Header.Set("Authorization", "Bearer "+token)
	keyed.Header.Set("Content-Type", "application/json")
	keyed.Header.Set("Idempotency-Key", "abc")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, keyed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for keyed collect got %d", resp.Code)
	}

	// Reads stay unguarded.
	read := httptest.NewRequest(http.MethodGet, "/api/v1/assets/my", nil)
	read.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, read)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for unguarded read got %d", resp.Code)
	}
}

func TestLoginIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", requestBody(`{"identifier":"tech","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for stub login got %d", resp.Code)
	}
}
