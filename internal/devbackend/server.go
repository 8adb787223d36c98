// Package devbackend is an in-memory implementation of the VERTEX TARGET
// REST contract for local runs and integration tests. Errors use the
// {"detail": ...} envelope of the production backend.
package devbackend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

const (
	defaultTokenTTL         = 24 * time.Hour
	defaultStrategyCacheTTL = 24 * time.Hour
)

// Config seeds the backend.
type Config struct {
	JWTSecret         string
	TokenTTL          time.Duration
	SeedAdminEmail    string
	SeedAdminPassword string
	StrategyCacheTTL  time.Duration
	// Now replaces time.Now, for tests.
	Now func() time.Time
}

// Server holds the backend state.
type Server struct {
	store    *store
	tokens   tokens
	strategy *strategyCache
	validate *validator.Validate
	log      zerolog.Logger
	now      func() time.Time
}

// New builds a server and seeds the admin account when credentials are set.
func New(cfg Config, log zerolog.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("devbackend: JWT secret is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.StrategyCacheTTL <= 0 {
		cfg.StrategyCacheTTL = defaultStrategyCacheTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		store:    newStore(now),
		tokens:   tokens{secret: []byte(cfg.JWTSecret), ttl: cfg.TokenTTL, now: now},
		strategy: newStrategyCache(cfg.StrategyCacheTTL, now),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
		now:      now,
	}
	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPassword != "" {
		if _, err := s.store.createAccount(cfg.SeedAdminEmail, cfg.SeedAdminPassword, "Administrator", domain.RoleAdmin); err != nil {
			return nil, fmt.Errorf("devbackend: seed admin: %w", err)
		}
		log.Info().Str("email", cfg.SeedAdminEmail).Msg("seeded admin account")
	}
	return s, nil
}

// Handler returns the HTTP surface.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	api := e.Group("/api")
	api.GET("/health", s.health)

	api.POST("/auth/login", s.login)
	api.POST("/auth/register", s.register)

	api.GET("/portfolio", s.listProjects)
	api.GET("/portfolio/:id", s.getProject)
	api.GET("/testimonials", s.listTestimonials)
	api.GET("/testimonials/:id", s.getTestimonial)

	api.PUT("/users/profile", s.updateProfile, s.authenticate)
	api.POST("/v1/ai/generate-strategy", s.generateStrategy, s.authenticate)
	api.GET("/v1/ai/cache/stats", s.strategyCacheStats, s.authenticate)
	api.DELETE("/v1/ai/cache/clear", s.clearStrategyCache, s.authenticate)
	api.GET("/v1/ai/cache/health", s.strategyCacheHealth)

	api.POST("/contact", s.submitContact)
	api.GET("/contact", s.listContacts, s.authenticate)

	admin := []echo.MiddlewareFunc{s.authenticate, s.requireAdmin}
	api.POST("/portfolio", s.createProject, admin...)
	api.PUT("/portfolio/:id", s.updateProject, admin...)
	api.DELETE("/portfolio/:id", s.deleteProject, admin...)
	api.POST("/testimonials", s.createTestimonial, admin...)
	api.PUT("/testimonials/:id", s.updateTestimonial, admin...)
	api.DELETE("/testimonials/:id", s.deleteTestimonial, admin...)
	api.GET("/admin/users", s.listUsers, admin...)
	api.PUT("/admin/users/:id", s.updateUser, admin...)

	return e
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

type detailError struct {
	Detail any `json:"detail"`
}

type fieldDetail struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	var detail any = "internal server error"

	var he *echo.HTTPError
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &ve):
		code = http.StatusUnprocessableEntity
		items := make([]fieldDetail, 0, len(ve))
		for _, fe := range ve {
			items = append(items, fieldDetail{
				Loc: []string{"body", jsonName(fe.Field())},
				Msg: fmt.Sprintf("failed on %q", fe.Tag()),
			})
		}
		detail = items
	case errors.As(err, &he):
		code = he.Code
		detail = fmt.Sprint(he.Message)
	default:
		s.log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}
	_ = c.JSON(code, detailError{Detail: detail})
}

// jsonName converts a Go field name to the snake_case used on the wire.
func jsonName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Server) bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "malformed request body")
	}
	return s.validate.Struct(dst)
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

const userKey = "user"

func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
		}
		sub, err := s.tokens.verify(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		u, ok := s.store.user(sub)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
		}
		if !u.IsActive {
			return echo.NewHTTPError(http.StatusForbidden, "account disabled")
		}
		c.Set(userKey, u)
		return next(c)
	}
}

func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if u, _ := c.Get(userKey).(domain.User); u.Role != domain.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	u, err := s.store.authenticate(req.Email, req.Password)
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "account disabled")
	case err != nil:
		return echo.NewHTTPError(http.StatusUnauthorized, "incorrect email or password")
	}
	return s.respondToken(c, http.StatusOK, u)
}

func (s *Server) register(c echo.Context) error {
	var req domain.RegisterInput
	if err := s.bind(c, &req); err != nil {
		return err
	}
	u, err := s.store.createAccount(req.Email, req.Password, req.FullName, req.Role)
	if errors.Is(err, domain.ErrUserExists) {
		return echo.NewHTTPError(http.StatusBadRequest, "email already registered")
	}
	if err != nil {
		return err
	}
	s.log.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("account registered")
	return s.respondToken(c, http.StatusOK, u)
}

func (s *Server) respondToken(c echo.Context, status int, u domain.User) error {
	token, err := s.tokens.issue(u)
	if err != nil {
		return err
	}
	return c.JSON(status, tokenResponse{AccessToken: token, TokenType: "bearer", User: u})
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func (s *Server) listUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.users())
}

func (s *Server) updateUser(c echo.Context) error {
	var req domain.UserUpdate
	if err := s.bind(c, &req); err != nil {
		return err
	}
	u, err := s.store.updateAccount(c.Param("id"), req.FullName, req.Email, req.Role, req.IsActive, nil)
	return s.accountResult(c, u, err)
}

func (s *Server) updateProfile(c echo.Context) error {
	var req domain.ProfileUpdate
	if err := s.bind(c, &req); err != nil {
		return err
	}
	me, _ := c.Get(userKey).(domain.User)
	u, err := s.store.updateAccount(me.ID, req.FullName, req.Email, nil, nil, req.Password)
	return s.accountResult(c, u, err)
}

func (s *Server) accountResult(c echo.Context, u domain.User, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	case errors.Is(err, domain.ErrUserExists):
		return echo.NewHTTPError(http.StatusBadRequest, "email already registered")
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// ---------------------------------------------------------------------------
// Portfolio & testimonials
// ---------------------------------------------------------------------------

type message struct {
	Message string `json:"message"`
}

func (s *Server) listProjects(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.listProjects())
}

func (s *Server) getProject(c echo.Context) error {
	p, ok := s.store.project(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "portfolio item not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) createProject(c echo.Context) error {
	var in domain.ProjectInput
	if err := s.bind(c, &in); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.store.createProject(in))
}

func (s *Server) updateProject(c echo.Context) error {
	var in domain.ProjectInput
	if err := s.bind(c, &in); err != nil {
		return err
	}
	p, ok := s.store.updateProject(c.Param("id"), in)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "portfolio item not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProject(c echo.Context) error {
	if !s.store.deleteProject(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "portfolio item not found")
	}
	return c.JSON(http.StatusOK, message{Message: "item deleted"})
}

func (s *Server) listTestimonials(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.listTestimonials())
}

func (s *Server) getTestimonial(c echo.Context) error {
	t, ok := s.store.testimonial(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "testimonial not found")
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) createTestimonial(c echo.Context) error {
	var in domain.TestimonialInput
	if err := s.bind(c, &in); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.store.createTestimonial(in))
}

func (s *Server) updateTestimonial(c echo.Context) error {
	var in domain.TestimonialInput
	if err := s.bind(c, &in); err != nil {
		return err
	}
	t, ok := s.store.updateTestimonial(c.Param("id"), in)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "testimonial not found")
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) deleteTestimonial(c echo.Context) error {
	if !s.store.deleteTestimonial(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "testimonial not found")
	}
	return c.JSON(http.StatusOK, message{Message: "testimonial deleted"})
}

// ---------------------------------------------------------------------------
// Strategy & health
// ---------------------------------------------------------------------------

type strategyRequest struct {
	Industry  string `json:"industry" validate:"required"`
	Objective string `json:"objective" validate:"required"`
}

func (s *Server) generateStrategy(c echo.Context) error {
	var req strategyRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	if e, ok := s.strategy.get(req.Industry, req.Objective); ok {
		at := e.at
		return c.JSON(http.StatusOK, domain.Strategy{Strategy: e.text, Cached: true, CacheTimestamp: &at})
	}
	e := s.strategy.put(req.Industry, req.Objective, composeStrategy(req.Industry, req.Objective))
	at := e.at
	return c.JSON(http.StatusOK, domain.Strategy{Strategy: e.text, Cached: false, CacheTimestamp: &at})
}

func (s *Server) strategyCacheStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.strategy.stats())
}

func (s *Server) clearStrategyCache(c echo.Context) error {
	me, _ := c.Get(userKey).(domain.User)
	n := s.strategy.clear()
	s.log.Info().Str("by", me.Email).Int("cleared", n).Msg("strategy cache cleared")
	return c.JSON(http.StatusOK, domain.StrategyCacheCleared{
		ClearedEntries: n,
		ClearedBy:      me.Email,
		Timestamp:      s.now().UTC(),
	})
}

func (s *Server) strategyCacheHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, s.strategy.health())
}

// ---------------------------------------------------------------------------
// Contact
// ---------------------------------------------------------------------------

func (s *Server) submitContact(c echo.Context) error {
	var in domain.ContactInput
	if err := s.bind(c, &in); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.store.createContact(in))
}

func (s *Server) listContacts(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.listContacts())
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "healthy",
		"database":  "in-memory",
		"timestamp": s.now().UTC(),
	})
}

// Serve runs the backend on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	e := s.Handler()
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
