package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/vertextarget/portal-gateway/docs"
	"github.com/vertextarget/portal-gateway/internal/api/handler"
	"github.com/vertextarget/portal-gateway/internal/api/middleware"
	"github.com/vertextarget/portal-gateway/internal/core/domain"
	"github.com/vertextarget/portal-gateway/internal/core/service"
)

// Deps is everything the router needs. Registerer and Gatherer default to
// the prometheus default registry.
type Deps struct {
	Log zerolog.Logger

	Session middleware.SessionConfig

	Portfolio    *service.Portfolio
	Testimonials *service.Testimonials
	Users        *service.UserService
	Strategy     *service.StrategyService
	Contact      *service.ContactService
	Audit        handler.AuditReader // nil disables GET /api/admin/audit
	Checks       map[string]handler.Check

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "vertex",
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Ops (no session) ---
	health := handler.NewHealthHandler(d.Checks)
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	cached := map[string]handler.CachedResource{
		d.Portfolio.Name():    d.Portfolio,
		d.Testimonials.Name(): d.Testimonials,
	}

	portfolio := handler.NewPortfolioHandler(d.Portfolio)
	testimonials := handler.NewTestimonialHandler(d.Testimonials)
	auth := handler.NewAuthHandler()
	users := handler.NewUserHandler(d.Users)
	strategy := handler.NewStrategyHandler(d.Strategy)
	contact := handler.NewContactHandler(d.Contact)
	caches := handler.NewCacheHandler(cached)
	audit := handler.NewAuditHandler(d.Audit)
	dashboards := handler.NewDashboardHandler(cached)

	session := middleware.Session(d.Session)
	member := middleware.Guard("")
	adminOnly := middleware.Guard(domain.RoleAdmin)

	// --- Dashboards ---
	e.GET(domain.UserDashboardRoute, dashboards.User, session, member)
	e.GET(domain.AdminDashboardRoute, dashboards.Admin, session, adminOnly)

	// --- API, bound to the browser session ---
	api := e.Group("/api", session)

	api.GET("/portfolio", portfolio.List)
	api.GET("/portfolio/category/:category", portfolio.ByCategory)
	api.GET("/portfolio/:id", portfolio.Get)
	api.GET("/testimonials", testimonials.List)
	api.GET("/testimonials/rating/:min", testimonials.ByRating)
	api.GET("/testimonials/:id", testimonials.Get)
	api.POST("/strategy", strategy.Generate)
	api.GET("/strategy/cache/health", strategy.CacheHealth)
	api.POST("/contact", contact.Submit)

	api.POST("/auth/login", auth.Login)
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/logout", auth.Logout)
	api.GET("/auth/me", auth.Me)

	api.PUT("/users/profile", users.UpdateProfile, member)

	admin := api.Group("/admin", adminOnly)
	admin.POST("/portfolio", portfolio.Create)
	admin.PUT("/portfolio/:id", portfolio.Update)
	admin.DELETE("/portfolio/:id", portfolio.Delete)
	admin.POST("/testimonials", testimonials.Create)
	admin.PUT("/testimonials/:id", testimonials.Update)
	admin.DELETE("/testimonials/:id", testimonials.Delete)
	admin.GET("/users", users.List)
	admin.POST("/users", users.Create)
	admin.PUT("/users/:id", users.Update)
	admin.GET("/contact", contact.List)
	admin.GET("/cache", caches.Stats)
	admin.GET("/cache/strategy", strategy.CacheStats)
	admin.DELETE("/cache/strategy", strategy.ClearCache)
	admin.DELETE("/cache/:resource", caches.Clear)
	admin.POST("/cache/:resource/refresh", caches.Refresh)
	admin.GET("/audit", audit.Recent)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
