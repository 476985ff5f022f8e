// internal/observability/server.go
package observability

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Snapshot is the latest tick as served on GET /status.
type Snapshot struct {
	Seq         uint64    `json:"seq"`
	At          time.Time `json:"at"`
	HandPresent bool      `json:"hand_present"`
	Frame       string    `json:"frame"`
	LastSent    string    `json:"last_sent,omitempty"`
	LinkState   string    `json:"link_state"`
	LastError   string    `json:"last_error,omitempty"`
}

// StatusServer serves /metrics and /status on a side goroutine.
// It only reads the snapshot the control loop hands it.
type StatusServer struct {
	log    zerolog.Logger
	srv    *http.Server
	router *gin.Engine

	mu   sync.RWMutex
	snap Snapshot
}

func NewStatusServer(addr string, log zerolog.Logger) *StatusServer {
	RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)

	s := &StatusServer{
		log:    log.With().Str("component", "status").Logger(),
		router: gin.New(),
	}
	s.router.Use(gin.Recovery())
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/status", s.handleStatus)
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the router for in-process use.
func (s *StatusServer) Handler() http.Handler {
	return s.router
}

// Update replaces the served snapshot.
func (s *StatusServer) Update(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Start listens in the background until ctx is cancelled.
// A listen failure is logged only: status is never worth stopping the loop.
func (s *StatusServer) Start(ctx context.Context) {
	go func() {
		s.log.Info().Str("addr", s.srv.Addr).Msg("status server listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Str("addr", s.srv.Addr).Msg("status server stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
	}()
}

func (s *StatusServer) handleStatus(c *gin.Context) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	c.JSON(http.StatusOK, snap)
}
