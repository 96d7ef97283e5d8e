// Package server exposes the relay over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/valpere/tlumach/internal"
	"github.com/valpere/tlumach/internal/catalog"
	"github.com/valpere/tlumach/internal/observability"
	"github.com/valpere/tlumach/internal/relay"
)

const RequestIDHeader = "X-Request-ID"

// AllowedHeaders are the request headers browsers may send cross-origin.
var AllowedHeaders = []string{"authorization", "x-client-info", "apikey", "content-type", "x-request-id"}

// Translator is what the HTTP layer needs from the relay.
type Translator interface {
	Translate(ctx context.Context, req internal.TranslationRequest) (*internal.TranslationResult, error)
}

type Options struct {
	ServiceName string
	Catalog     *catalog.Catalog
}

// NewRouter wires middleware and routes around t.
func NewRouter(t Translator, logger *zap.Logger, opts Options) *gin.Engine {
	if opts.ServiceName == "" {
		opts.ServiceName = "tlumach"
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(otelgin.Middleware(opts.ServiceName))
	router.Use(accessLog(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = AllowedHeaders
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	router.Use(cors.New(corsConfig))

	h := &handler{translator: t, logger: logger, catalog: opts.Catalog}

	router.POST("/translate", h.translate)
	// Path the browser client used when the relay was a hosted function.
	router.POST("/functions/v1/translate", h.translate)
	router.GET("/languages", h.languages)
	router.GET("/healthz", h.health)

	return router
}

type handler struct {
	translator Translator
	logger     *zap.Logger
	catalog    *catalog.Catalog
}

func (h *handler) translate(c *gin.Context) {
	ctx := c.Request.Context()

	var req internal.TranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		observability.Ctx(ctx, h.logger).Warn("invalid translation request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, internal.ErrorResponse{Error: "Invalid request body: expected JSON with text, sourceLanguage and targetLanguage"})
		return
	}

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("translation.source_language", req.SourceLanguage),
		attribute.String("translation.target_language", req.TargetLanguage),
		attribute.Int("translation.text_length", len([]rune(req.Text))),
	)

	res, err := h.translator.Translate(ctx, req)
	if err != nil {
		status := http.StatusInternalServerError
		var rerr *relay.Error
		if errors.As(err, &rerr) {
			status = rerr.HTTPStatus()
			span.SetAttributes(attribute.String("translation.error_kind", string(rerr.Kind)))
		}
		_ = c.Error(err)
		c.JSON(status, internal.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *handler) languages(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.All())
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestID propagates or mints X-Request-ID and stores it for logging.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(observability.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		log := observability.Ctx(c.Request.Context(), logger)
		switch {
		case status >= 500:
			log.Error("request completed", fields...)
		case status >= 400:
			log.Warn("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}

// Server owns the http.Server lifecycle.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func New(cfg Config, h http.Handler, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           h,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("relay listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down relay")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
