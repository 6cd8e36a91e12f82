// Package server exposes the cover lookup endpoint consumed by cover.Client.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rcliao/game-backlog/internal/igdb"
)

// CoverFinder is the catalog lookup the server delegates to.
type CoverFinder interface {
	Configured() bool
	CoverURL(ctx context.Context, title string) (igdb.Cover, error)
}

// CoverResponse is the success payload of GET /api/igdb/cover-url.
type CoverResponse struct {
	Title   string  `json:"title"`
	ImageID *string `json:"imageId"`
	URL     *string `json:"url"`
}

// Server wires the HTTP routes.
type Server struct {
	finder CoverFinder
	engine *gin.Engine
}

// New builds the router. An empty origins list allows any origin.
func New(finder CoverFinder, origins []string) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	cc := cors.DefaultConfig()
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	cc.AllowMethods = []string{http.MethodGet, http.MethodOptions}
	r.Use(cors.New(cc))

	s := &Server{finder: finder, engine: r}
	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/igdb/cover-url", s.coverURL)
	}
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) coverURL(c *gin.Context) {
	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing title"})
		return
	}
	if !s.finder.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": igdb.ErrMissingCredentials.Error()})
		return
	}

	cv, err := s.finder.CoverURL(c.Request.Context(), title)
	if err != nil {
		var ue *igdb.UpstreamError
		if errors.As(err, &ue) {
			slog.Warn("igdb upstream failure", "title", title, "status", ue.Status)
			c.JSON(http.StatusBadGateway, gin.H{"error": ue.Error(), "detail": ue.Body})
			return
		}
		slog.Warn("cover lookup failed", "title", title, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, CoverResponse{Title: title, ImageID: cv.ImageID, URL: cv.URL})
}
