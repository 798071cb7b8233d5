package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bookshelf/secureapp/docs"
	"github.com/bookshelf/secureapp/internal/api/handler"
	"github.com/bookshelf/secureapp/internal/api/middleware"
	"github.com/bookshelf/secureapp/internal/core/domain"
	"github.com/bookshelf/secureapp/internal/core/entity"
	"github.com/bookshelf/secureapp/internal/core/ports"
	"github.com/bookshelf/secureapp/internal/infrastructure/http/handlers"
	"github.com/bookshelf/secureapp/pkg/logger"
)

// Route policies.
var (
	AdminOnly  = domain.AllOf(domain.RoleAdmin)
	AnyMember  = domain.AnyOf(domain.RoleAdmin, domain.RoleUser)
	BookWriter = domain.AnyOf(domain.RoleAdmin, domain.RoleUser)
)

// Services are the use cases the HTTP layer is built on.
type Services struct {
	Auth     ports.AuthService
	Sessions ports.SessionManager
	Identity ports.IdentityService
	Books    ports.BookService
	Entities ports.EntityService
}

// Options tune the transport.
type Options struct {
	CORSOrigins  []string
	SecureCookie bool
	// Readiness lists the dependencies checked by GET /health/ready.
	Readiness map[string]handlers.Pinger
	// Metrics mounts the Prometheus middleware and GET /metrics.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: opts.CORSOrigins,
	}))
	if opts.Metrics {
		e.Use(echoprometheus.NewMiddleware("secureapp"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Health probes and docs (no session) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(opts.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Application routes: every request carries a resolved session ---
	app := e.Group("", middleware.Session(svc.Sessions, svc.Identity, log))

	pages := handler.NewPageHandler()
	app.GET("/", pages.Home)
	app.GET("/help", pages.Help)
	app.GET("/test_admin", pages.TestAdmin, middleware.Require(AdminOnly))
	app.GET("/test_user", pages.TestUser, middleware.Require(AnyMember))

	auth := handler.NewAuthHandler(svc.Auth, opts.SecureCookie)
	app.POST("/register", auth.Register)
	app.POST("/login", auth.Login)
	app.POST("/logout", auth.Logout)
	app.GET("/me", auth.Me)

	books := handler.NewBookHandler(svc.Books)
	write := middleware.Require(BookWriter)
	app.GET("/books", books.List)
	app.GET("/books/new", books.New, write)
	app.POST("/books", books.Create, write)
	app.GET("/books/:id", books.Show)
	app.GET("/books/:id/edit", books.Edit, write)
	app.POST("/books/:id/edit", books.Update, write)
	app.PUT("/books/:id", books.Update, write)
	app.POST("/books/:id/delete", books.Delete, write)
	app.DELETE("/books/:id", books.Delete, write)

	admin := middleware.Require(AdminOnly)
	entities := handler.NewEntityHandler(svc.Entities)
	app.GET("/api/:kind", entities.List, middleware.AllowedParam("kind", entity.ExposedKinds()), admin)

	roles := handler.NewRoleHandler(svc.Identity)
	app.POST("/admin/accounts/:id/roles/:role", roles.Grant, admin)
	app.DELETE("/admin/accounts/:id/roles/:role", roles.Revoke, admin)

	return e
}
