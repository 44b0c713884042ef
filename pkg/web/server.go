// Package web serves the image submission form as a server-rendered page.
// The form posts to /preview (file selection) and /analyze (submission);
// both run the same form.Controller the browser binding uses.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/menta2k/skin-analyzer/pkg/client"
	"github.com/menta2k/skin-analyzer/pkg/form"
)

//go:embed templates/index.html
var templatesFS embed.FS

// APIVersion is reported by the health endpoint
const APIVersion = "1.0"

// DefaultMaxUploadBytes bounds the request body when no limit is configured
const DefaultMaxUploadBytes = 16 << 20

// Server is the HTTP front end of the form
type Server struct {
	engine    *gin.Engine
	predictor client.Predictor
	previewer form.Previewer
	logger    zerolog.Logger
	backend   string
	maxUpload int64
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the server logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithBackendName sets the backend name reported by /health
func WithBackendName(name string) Option {
	return func(s *Server) {
		s.backend = name
	}
}

// WithMaxUploadBytes limits the size of submitted forms
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// New creates a server that classifies uploads with predictor
func New(predictor client.Predictor, previewer form.Previewer, opts ...Option) *Server {
	s := &Server{
		predictor: predictor,
		previewer: previewer,
		logger:    zerolog.Nop(),
		backend:   "http",
		maxUpload: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	tmpl := template.Must(template.New("index.html").ParseFS(templatesFS, "templates/index.html"))

	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), accessLog(s.logger))
	engine.SetHTMLTemplate(tmpl)
	engine.MaxMultipartMemory = s.maxUpload

	engine.GET("/", s.handleIndex)
	engine.POST("/preview", s.handlePreview)
	engine.POST("/analyze", s.handleAnalyze)
	engine.GET("/health", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine = engine
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", addr).Str("backend", s.backend).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info().Msg("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
