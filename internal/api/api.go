package api

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	middleware "github.com/oapi-codegen/echo-middleware"
	"go.uber.org/zap"

	"github.com/rryowa/taskmanager/internal/controller"
	"github.com/rryowa/taskmanager/internal/metrics"
	"github.com/rryowa/taskmanager/internal/service"
	"github.com/rryowa/taskmanager/internal/util"
)

const (
	shutdownTimeout = 5 * time.Second
	metricsPath     = "/metrics"
)

type API struct {
	server          *echo.Echo
	controller      *controller.Controller
	tokenService    *service.TokenService
	authService     *service.AuthService
	cascadeService  *service.CascadeService
	metrics         *metrics.Metrics
	log             *zap.SugaredLogger
	gracefulTimeout time.Duration
	cleanupFuncs    []func()

	setupOnce sync.Once
	setupErr  error
}

func NewAPI(
	c *controller.Controller,
	tokenService *service.TokenService,
	authService *service.AuthService,
	cascadeService *service.CascadeService,
	m *metrics.Metrics,
	sc *util.ServerConfig,
	l *zap.SugaredLogger,
	cleanupFuncs []func(),
) *API {
	e := echo.New()
	e.HideBanner = true

	e.Server.Addr = sc.ServerAddr
	e.Server.WriteTimeout = sc.WriteTimeout
	e.Server.ReadTimeout = sc.ReadTimeout
	e.Server.IdleTimeout = sc.IdleTimeout
	e.HTTPErrorHandler = ErrorHandler(l)

	return &API{
		server:          e,
		controller:      c,
		tokenService:    tokenService,
		authService:     authService,
		cascadeService:  cascadeService,
		metrics:         m,
		log:             l,
		gracefulTimeout: sc.GracefulTimeout,
		cleanupFuncs:    cleanupFuncs,
	}
}

// Handler wires middleware and routes on first use and returns the echo instance.
func (a *API) Handler() (http.Handler, error) {
	a.setupOnce.Do(func() {
		a.setupErr = a.setupRoutes()
	})
	return a.server, a.setupErr
}

func (a *API) setupRoutes() error {
	swagger, err := controller.GetSwagger()
	if err != nil {
		return err
	}
	swagger.Servers = nil

	a.server.Use(echomiddleware.Recover())
	a.server.Use(echomiddleware.CORSWithConfig(CORSConfig()))
	a.server.Use(echomiddleware.RequestLoggerWithConfig(GetLoggerMiddlewareConfig(a)))
	a.server.Use(MetricsMiddleware(a.metrics))

	a.server.GET(metricsPath, echo.WrapHandler(a.metrics.Handler()))

	g := a.server.Group("")
	g.Use(middleware.OapiRequestValidator(swagger))
	controller.RegisterHandlersWithBaseURL(g, a.controller, controller.Gates{
		Access:  AccessGate(a.tokenService),
		Session: SessionGate(a.authService),
	}, "")

	return nil
}

func (a *API) Run(ctxBackground context.Context) {
	ctx, stop := signal.NotifyContext(ctxBackground, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := a.Handler(); err != nil {
		a.log.Fatalf("Failed to load OpenAPI specification: %v", err)
	}

	a.ListenGracefulShutdown(ctx)
}

func (a *API) ListenGracefulShutdown(ctx context.Context) {
	go func() {
		err := a.server.Start(a.server.Server.Addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()
	a.log.Infof("Listening on: %s", a.server.Server.Addr)

	<-ctx.Done()
	a.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.log.Errorf("shutdown: %v", err)
	}

	cascadeCtx, cancelCascade := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancelCascade()

	if err := a.cascadeService.Wait(cascadeCtx); err != nil {
		a.log.Warnw("pending list cascades abandoned", "error", err)
	}

	for i := len(a.cleanupFuncs) - 1; i >= 0; i-- {
		a.cleanupFuncs[i]()
	}
	a.log.Info("server shutdown completed")
}
