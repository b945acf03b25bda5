// Package api exposes the catalog over REST for non-conversational
// clients. All writes pass through the same schema validation the chat
// surface uses.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/adalundhe/trailhead/core/catalog"
	trailerrors "github.com/adalundhe/trailhead/core/errors"
)

// Config carries the server's collaborators and listen settings.
type Config struct {
	Store          *catalog.Store
	Addr           string
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server wraps the gin engine and the catalog store.
type Server struct {
	store  *catalog.Store
	engine *gin.Engine
	addr   string
	logger *slog.Logger
	http   *http.Server
}

func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	engine.Use(cors.New(corsConfig))

	s := &Server{
		store:  cfg.Store,
		engine: engine,
		addr:   cfg.Addr,
		logger: logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthcheck", s.healthcheck)

	locations := s.engine.Group("/api/locations")
	locations.GET("", s.listLocations)
	locations.GET("/:id", s.getLocation)
	locations.POST("", s.createLocation)
	locations.PUT("/:id", s.updateLocation)
	locations.DELETE("/:id", s.deleteLocation)
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()
	s.logger.Info("api listening", slog.String("addr", s.addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if kind, ok := trailerrors.KindOf(err); ok {
		switch kind {
		case trailerrors.KindNotFound:
			status = http.StatusNotFound
		case trailerrors.KindValidation:
			status = http.StatusBadRequest
		}
	}
	c.JSON(status, gin.H{"status": "error", "message": err.Error()})
}
