package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/booknook/storefront/internal/api/handler"
	"github.com/booknook/storefront/internal/api/middleware"
	"github.com/booknook/storefront/internal/core/domain"
	"github.com/booknook/storefront/internal/core/ports"
)

// Dependencies is everything the router wires into handlers.
type Dependencies struct {
	Navigation ports.NavigationService
	Sessions   ports.SessionService
	Orders     ports.OrderService
	Catalog    ports.CatalogService
	Identities ports.IdentityResolver
	// Checkers are probed by /health/ready.
	Checkers []handler.DependencyChecker
	// JWTSecret enables HS256 verification of incoming tokens when set.
	JWTSecret string
	// Registerer receives the HTTP metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "storefront",
		Registerer: registerer,
	}))

	// --- Handlers ---
	navigationHandler := handler.NewNavigationHandler(deps.Navigation)
	sessionHandler := handler.NewSessionHandler(deps.Sessions, deps.Catalog)
	orderHandler := handler.NewOrderHandler(deps.Orders)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog)
	authMiddleware := middleware.Auth(deps.Identities, deps.JWTSecret)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checkers...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – is the backend reachable?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Public routes ---
	api.GET("/navigate", navigationHandler.Navigate, middleware.Token(deps.JWTSecret))
	api.POST("/auth/verify-email", catalogHandler.VerifyEmail)

	// --- Authenticated routes ---
	authed := api.Group("", authMiddleware)
	authed.GET("/session", sessionHandler.Get)
	authed.POST("/session/logout", sessionHandler.Logout)
	authed.POST("/live", sessionHandler.Connect)
	authed.DELETE("/live", sessionHandler.Disconnect)
	authed.GET("/notifications", sessionHandler.Notifications)

	authed.GET("/orders", orderHandler.Orders)
	authed.GET("/return-orders", orderHandler.ReturnOrders)

	authed.GET("/books/bestsellers", catalogHandler.Bestsellers)
	authed.GET("/books/borrow", catalogHandler.BorrowBooks)
	authed.GET("/books/borrow/:id", catalogHandler.BorrowBook)
	authed.GET("/books/purchase", catalogHandler.PurchaseBooks)
	authed.GET("/books/purchase/:id", catalogHandler.PurchaseBook)
	authed.GET("/books/settings", catalogHandler.Settings)

	// --- Client-only routes ---
	clientOnly := middleware.RBAC(domain.RoleClient)
	authed.GET("/interests", catalogHandler.Interests, clientOnly)
	authed.POST("/interests", catalogHandler.SaveInterests, clientOnly)
	authed.GET("/books/by-interests", catalogHandler.BooksByInterests, clientOnly)

	// --- Manager-only routes ---
	manager := authed.Group("/manager", middleware.RBAC(domain.RoleManager))
	manager.PATCH("/settings", catalogHandler.UpdateSettings)
	manager.GET("/users", catalogHandler.Users)

	return e
}
