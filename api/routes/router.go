package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scyware/assettrack-backend/api/controllers"
	"github.com/scyware/assettrack-backend/api/middleware"
	"github.com/scyware/assettrack-backend/internal/activity"
	"github.com/scyware/assettrack-backend/internal/assets"
	"github.com/scyware/assettrack-backend/internal/auth"
	"github.com/scyware/assettrack-backend/internal/purchaseorders"
	"github.com/scyware/assettrack-backend/internal/requests"
	"github.com/scyware/assettrack-backend/internal/stores"
	"github.com/scyware/assettrack-backend/internal/vendors"
	"github.com/scyware/assettrack-backend/pkg/config"
	"github.com/scyware/assettrack-backend/pkg/db"
	"github.com/scyware/assettrack-backend/pkg/enums"
	"github.com/scyware/assettrack-backend/pkg/logger"
	pkgredis "github.com/scyware/assettrack-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth           auth.Service
	Assets         assets.Service
	Requests       requests.Service
	Stores         stores.Service
	Vendors        vendors.Service
	PurchaseOrders purchaseorders.Service
	Activity       activity.Service
}

// Deps carries infrastructure handles the router needs beyond services.
type Deps struct {
	DB         db.Pinger
	Redis      *pkgredis.Client
	Gatherer   prometheus.Gatherer
	Idempotent pkgredis.IdempotencyStore
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps, svcs Services) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	var cachePing pkgredis.Pinger
	if deps.Redis != nil {
		cachePing = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, cachePing, logg))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.StoreContext(logg))
		if deps.Idempotent != nil {
			r.Use(middleware.Idempotency(deps.Idempotent, logg))
		}

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", controllers.AssetList(svcs.Assets, logg))
			r.Get("/my", controllers.AssetListMine(svcs.Assets, logg))
			r.Get("/{assetID}", controllers.AssetDetail(svcs.Assets, logg))
			r.Post("/{assetID}/collect", controllers.AssetCollect(svcs.Assets, logg))
			r.Post("/{assetID}/faulty", controllers.AssetReportFaulty(svcs.Assets, logg))
			r.Post("/{assetID}/return", controllers.AssetRequestReturn(svcs.Assets, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireElevated(logg))
				r.Get("/return-pending", controllers.AssetListPendingReturns(svcs.Assets, logg))
				r.Post("/", controllers.AssetIntake(svcs.Assets, logg))
				r.Post("/bulk", controllers.AssetBulkIntake(svcs.Assets, logg))
				r.Post("/{assetID}/return/approve", controllers.AssetApproveReturn(svcs.Assets, logg))
				r.Post("/{assetID}/return/reject", controllers.AssetRejectReturn(svcs.Assets, logg))
				r.Post("/{assetID}/dispose", controllers.AssetDispose(svcs.Assets, logg))
				r.Put("/{assetID}/status", controllers.AssetForceStatus(svcs.Assets, logg))
			})
		})

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", controllers.RequestCreate(svcs.Requests, logg))
			r.Get("/", controllers.RequestList(svcs.Requests, logg))
			r.Get("/{requestID}", controllers.RequestDetail(svcs.Requests, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireElevated(logg))
				r.Put("/{requestID}/status", controllers.RequestUpdateStatus(svcs.Requests, logg))
				r.Get("/export", controllers.RequestExport(svcs.Requests, logg))
			})
		})

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", controllers.StoreList(svcs.Stores, logg))
			r.Get("/{storeID}", controllers.StoreDetail(svcs.Stores, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleSuperAdmin, logg))
				r.Post("/", controllers.StoreCreate(svcs.Stores, logg))
				r.Put("/{storeID}/name", controllers.StoreRename(svcs.Stores, logg))
			})
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Use(middleware.RequireElevated(logg))
			r.Post("/", controllers.VendorCreate(svcs.Vendors, logg))
			r.Get("/", controllers.VendorList(svcs.Vendors, logg))
			r.Get("/{vendorID}", controllers.VendorDetail(svcs.Vendors, logg))
			r.Put("/{vendorID}", controllers.VendorUpdate(svcs.Vendors, logg))
		})

		r.Route("/purchase-orders", func(r chi.Router) {
			r.Use(middleware.RequireElevated(logg))
			r.Post("/", controllers.PurchaseOrderCreate(svcs.PurchaseOrders, logg))
			r.Get("/", controllers.PurchaseOrderList(svcs.PurchaseOrders, logg))
			r.Get("/{orderID}", controllers.PurchaseOrderDetail(svcs.PurchaseOrders, logg))
			r.Put("/{orderID}/status", controllers.PurchaseOrderUpdateStatus(svcs.PurchaseOrders, logg))
		})

		r.Route("/activity", func(r chi.Router) {
			r.Use(middleware.RequireElevated(logg))
			r.Get("/", controllers.ActivityList(svcs.Activity, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireElevated(logg))
			r.Get("/admin/ping", controllers.AdminPing())
		})
	})

	return r
}
