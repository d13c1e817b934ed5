package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/appclacks/slo-dashboard/internal/http/handlers"
	"github.com/appclacks/slo-dashboard/internal/http/middlewares"
	"github.com/appclacks/slo-dashboard/internal/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

const serviceName = "slo-dashboard"

type Server struct {
	config *Configuration
	server *echo.Echo
	wg     sync.WaitGroup
	logger *slog.Logger
}

type CustomValidator struct {
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := validator.Validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func NewServer(logger *slog.Logger, config Configuration, registry *prometheus.Registry, builder *handlers.Builder) (*Server, error) {
	err := validator.Validator.Struct(config)
	if err != nil {
		return nil, err
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{}
	respCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_responses_total",
			Help: "Count the number of HTTP responses.",
		},
		[]string{"method", "status", "path"})

	buckets := []float64{
		0.05, 0.1, 0.2, 0.4, 0.8, 1,
		1.5, 2, 3, 5}
	err = registry.Register(respCounter)
	if err != nil {
		return nil, err
	}

	reqHistogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_duration_second",
			Help:    "Time to execute http requests",
			Buckets: buckets,
		},
		[]string{"method", "path"})

	err = registry.Register(reqHistogram)
	if err != nil {
		return nil, err
	}

	e.HTTPErrorHandler = errorHandler(logger)
	e.Use(otelecho.Middleware(serviceName))
	e.Use(middlewares.MetricsMiddleware(reqHistogram, respCounter, logger))
	e.GET("/healthz", func(ec echo.Context) error {
		return ec.JSON(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	apiGroup := e.Group("/api/v1")
	if config.BasicAuth.Username != "" {
		apiGroup.Use(middleware.BasicAuth(middlewares.BasicAuthValidator(config.BasicAuth.Username, config.BasicAuth.Password)))
	}

	apiGroup.POST("/slo", builder.CreateSLO)
	apiGroup.POST("/slo/validate", builder.ValidateSLO)
	apiGroup.POST("/slo/bulk", builder.BulkAction)
	apiGroup.POST("/slo/export", builder.ExportSLOs)
	apiGroup.GET("/slo", builder.ListSLOs)
	apiGroup.GET("/slo/:id", builder.GetSLO)
	apiGroup.PUT("/slo/:id", builder.UpdateSLO)
	apiGroup.DELETE("/slo/:id", builder.DeleteSLO)

	apiGroup.GET("/dashboard", builder.Dashboard)

	apiGroup.GET("/draft", builder.GetDraft)
	apiGroup.PUT("/draft", builder.SaveDraft)
	apiGroup.DELETE("/draft", builder.DeleteDraft)
	apiGroup.PATCH("/draft/field", builder.EditDraftField)

	return &Server{
		server: e,
		config: &config,
		logger: logger,
	}, nil

}

// Start binds the listener synchronously and serves requests in the background
func (s *Server) Start() error {
	address := net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))
	s.logger.Info(fmt.Sprintf("http server starting on %s", address))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("fail to listen on %s: %w", address, err)
	}
	var tlsServer *http.Server
	if s.config.Cert != "" {
		s.logger.Info("tls is enabled on the http server")
		tlsConfig, err := getTLSConfig(s.config.Key, s.config.Cert, s.config.Cacert, s.config.ServerName, s.config.Insecure)
		if err != nil {
			listener.Close()
			return fmt.Errorf("fail to create tls configuration: %w", err)
		}
		if !s.server.DisableHTTP2 {
			tlsConfig.NextProtos = append(tlsConfig.NextProtos, "h2")
		}
		tlsServer = s.server.TLSServer
		tlsServer.TLSConfig = tlsConfig
		tlsServer.Addr = address
		s.server.TLSListener = tls.NewListener(listener, tlsConfig)
	} else {
		s.server.Listener = listener
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		var err error
		if tlsServer != nil {
			err = s.server.StartServer(tlsServer)
		} else {
			err = s.server.Start(address)
		}
		if err != nil && err != http.ErrServerClosed {
			s.logger.Error(fmt.Sprintf("http server error: %s", err.Error()))
		}
	}()
	return nil
}

func (s *Server) Stop() error {
	s.logger.Info("stopping the http server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	s.wg.Wait()
	if err != nil {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}
