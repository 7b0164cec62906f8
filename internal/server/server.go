// Package server exposes the diagnosis and spam pipelines over HTTP.
package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crimson-sun/leafcheck/internal/engine"
	"github.com/crimson-sun/leafcheck/internal/metrics"
	"github.com/crimson-sun/leafcheck/internal/model"
)

// Service is the pipeline surface the handlers need. *engine.Engine
// satisfies it.
type Service interface {
	Diagnose(ctx context.Context, raw []byte, meta model.RequestMetadata) (model.Diagnosis, error)
	ClassifyText(ctx context.Context, message string) (model.TextVerdict, error)
	Catalog() []model.DiseaseSummary
	Disease(label string) (model.DiseaseRecord, error)
	Status() engine.Status
}

// Server holds handler dependencies.
type Server struct {
	svc            Service
	logger         *zap.Logger
	metrics        *metrics.Metrics
	version        string
	maxUploadBytes int64
	now            func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request metrics and serves them on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithVersion sets the version reported by the welcome endpoint.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithMaxUploadBytes caps request body size.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) { s.maxUploadBytes = n }
}

// WithClock replaces the timestamp source of the health endpoint.
func WithClock(fn func() time.Time) Option {
	return func(s *Server) { s.now = fn }
}

// New creates a Server.
func New(svc Service, logger *zap.Logger, opts ...Option) *Server {
	s := &Server{
		svc:            svc,
		logger:         logger,
		version:        "dev",
		maxUploadBytes: 10 << 20,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router creates and configures the gin engine.
func (s *Server) Router() *gin.Engine {
	router := gin.New()

	router.Use(RequestID())
	router.Use(Logger(s.logger))
	router.Use(Recovery(s.logger))
	router.Use(CORS())
	if s.metrics != nil {
		router.Use(Metrics(s.metrics))
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	router.GET("/", s.Root)

	api := router.Group("/api")
	{
		api.GET("/health", s.Health)
		api.POST("/predict", MaxBodySize(s.maxUploadBytes), s.Predict)
		api.GET("/diseases", s.ListDiseases)
		api.GET("/disease/:label", s.GetDisease)
	}

	router.POST("/predict", MaxBodySize(s.maxUploadBytes), s.PredictText)

	return router
}
