// Package httpapi is the HTTP face of the admin server: the session gate,
// the JSON API under /api, the login and home pages and /metrics.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/collectadmin/internal/logging"
	"github.com/dmitrijs2005/collectadmin/internal/server/gate"
	"github.com/dmitrijs2005/collectadmin/internal/server/metrics"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Services groups what the handlers call into.
type Services struct {
	Users            UserService
	Companies        CompanyService
	Vehicles         VehicleService
	CollectionPoints CollectionPointService
	Export           Exporter
}

type Server struct {
	address         string
	services        Services
	rules           gate.Rules
	logger          logging.Logger
	metrics         *metrics.Metrics
	sessionValidity time.Duration
	engine          *gin.Engine
}

func NewServer(address string, svc Services, sessionValidity time.Duration, l logging.Logger, m *metrics.Metrics) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		address:         address,
		services:        svc,
		rules:           gate.DefaultRules(),
		logger:          l.With("module", "http_server"),
		metrics:         m,
		sessionValidity: sessionValidity,
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(pageTemplates)

	r.Use(s.recovery(), s.requestLogger(), s.observe(), s.sessionGate())

	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	r.GET("/auth", s.loginPage)
	r.POST("/auth", s.loginForm)
	r.POST("/auth/logout", s.logoutForm)
	r.GET("/", s.homePage)

	api := r.Group("/api")
	api.POST("/auth/login", s.apiLogin)

	protected := api.Group("", s.requireSession())
	protected.POST("/auth/logout", s.apiLogout)
	protected.GET("/auth/session", s.apiSession)

	registerCRUD(s, protected, "/users", "User", s.services.Users)
	registerCRUD(s, protected, "/companies", "Company", s.services.Companies)
	registerCRUD(s, protected, "/vehicles", "Vehicle", s.services.Vehicles)
	registerCRUD(s, protected, "/collection-point", "Collection point", s.services.CollectionPoints)

	protected.POST("/export/:resource", s.export)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
