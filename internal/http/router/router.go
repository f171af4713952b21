package router

import (
	"net/http"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/auth"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/config"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/http/handler"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	authMiddleware   *auth.Middleware
	rateLimiter      *middleware.RateLimiter
	authHandler      *handler.AuthHandler
	userHandler      *handler.UserHandler
	supplierHandler  *handler.SupplierHandler
	directoryHandler *handler.DirectoryHandler
	quotationHandler *handler.QuotationHandler
	orderHandler     *handler.OrderHandler
	dashboardHandler *handler.DashboardHandler
	settingsHandler  *handler.SettingsHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	supplierHandler *handler.SupplierHandler,
	directoryHandler *handler.DirectoryHandler,
	quotationHandler *handler.QuotationHandler,
	orderHandler *handler.OrderHandler,
	dashboardHandler *handler.DashboardHandler,
	settingsHandler *handler.SettingsHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		authHandler:      authHandler,
		userHandler:      userHandler,
		supplierHandler:  supplierHandler,
		directoryHandler: directoryHandler,
		quotationHandler: quotationHandler,
		orderHandler:     orderHandler,
		dashboardHandler: dashboardHandler,
		settingsHandler:  settingsHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)
		r.Post("/auth/portal-login", rt.authHandler.PortalLogin)

		// Supplier portal routes (portal token required)
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			r.Get("/portal/quotations", rt.quotationHandler.ListForPortal)
			r.Post("/portal/quotations/{id}/prices", rt.quotationHandler.SubmitPrices)
		})

		// Staff routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.authMiddleware.RequireStaff)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)
			r.Post("/auth/logout", rt.authHandler.Logout)

			// Users
			r.Route("/users", func(r chi.Router) {
				r.Get("/", rt.userHandler.List)
				r.Get("/{id}", rt.userHandler.Get)
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireCapability(domain.CapManageUsers))
					r.Post("/", rt.userHandler.Create)
					r.Put("/{id}", rt.userHandler.Update)
				})
			})

			// Suppliers
			r.Route("/suppliers", func(r chi.Router) {
				r.Get("/", rt.supplierHandler.List)
				r.Get("/{id}", rt.supplierHandler.Get)
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireCapability(domain.CapManageSuppliers))
					r.Post("/", rt.supplierHandler.Create)
					r.Put("/{id}", rt.supplierHandler.Update)
				})
			})

			// Sectors
			r.Route("/sectors", func(r chi.Router) {
				r.Get("/", rt.directoryHandler.ListSectors)
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireCapability(domain.CapManageSectors))
					r.Post("/", rt.directoryHandler.CreateSector)
					r.Put("/{id}", rt.directoryHandler.UpdateSector)
					r.Delete("/{id}", rt.directoryHandler.DeleteSector)
				})
			})

			// Roles
			r.Route("/roles", func(r chi.Router) {
				r.Get("/", rt.directoryHandler.ListRoles)
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireCapability(domain.CapManageRoles))
					r.Post("/", rt.directoryHandler.CreateRole)
					r.Put("/{id}", rt.directoryHandler.UpdateRole)
					r.Delete("/{id}", rt.directoryHandler.DeleteRole)
				})
			})

			// Quotations
			r.Route("/quotations", func(r chi.Router) {
				r.Get("/", rt.quotationHandler.List)
				r.Get("/{id}", rt.quotationHandler.Get)
				r.Get("/{id}/best-prices", rt.quotationHandler.BestPrices)

				r.With(rt.authMiddleware.RequireCapability(domain.CapCreateQuotations)).
					Post("/", rt.quotationHandler.Create)
				r.With(rt.authMiddleware.RequireCapability(domain.CapEditQuotations)).
					Put("/{id}", rt.quotationHandler.Update)
				r.With(rt.authMiddleware.RequireCapability(domain.CapDeleteQuotations)).
					Delete("/{id}", rt.quotationHandler.Delete)

				// Lifecycle endpoints
				r.With(rt.authMiddleware.RequireCapability(domain.CapEditQuotations)).
					Post("/{id}/send", rt.quotationHandler.Send)
				r.With(rt.authMiddleware.RequireCapability(domain.CapEditQuotations)).
					Post("/{id}/prices", rt.quotationHandler.SubmitPrices)
				r.With(rt.authMiddleware.RequireCapability(domain.CapEditQuotations)).
					Put("/{id}/suppliers/{supplierId}/price", rt.quotationHandler.SetPrice)
				r.With(rt.authMiddleware.RequireCapability(domain.CapCreateOrders)).
					Post("/{id}/orders", rt.quotationHandler.CreateOrder)
			})

			// Orders
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", rt.orderHandler.List)
				r.Get("/{id}", rt.orderHandler.Get)

				r.With(rt.authMiddleware.RequireCapability(domain.CapApproveOrders)).
					Post("/{id}/approve", rt.orderHandler.Approve)
				r.With(rt.authMiddleware.RequireCapability(domain.CapCancelOrders)).
					Post("/{id}/cancel", rt.orderHandler.Cancel)
				r.With(rt.authMiddleware.RequireCapability(domain.CapConfirmDelivery)).
					Post("/{id}/delivery", rt.orderHandler.RecordDelivery)
				r.With(rt.authMiddleware.RequireCapability(domain.CapEvaluateSupplier)).
					Post("/{id}/evaluation", rt.orderHandler.RecordEvaluation)
			})

			// Dashboard
			r.Get("/dashboard/metrics", rt.dashboardHandler.Metrics)
			r.Get("/cash-flow", rt.dashboardHandler.CashFlow)

			// Settings
			r.Get("/settings", rt.settingsHandler.Get)
			r.Put("/settings", rt.settingsHandler.Update)
		})
	})

	return r
}
