// Package receiver is a minimal HTTP endpoint accepting presence reports.
package receiver

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Veraticus/online-check/pkg/presence"
)

// Path is the endpoint that accepts reports.
const Path = "/presence"

// Report is a received presence report.
type Report struct {
	Timestamp  string    `json:"timestamp"`
	ReceivedAt time.Time `json:"received_at"`
	RemoteAddr string    `json:"remote_addr"`
}

// presenceRequest binds the request body.
type presenceRequest struct {
	Timestamp string `json:"timestamp" binding:"required"`
}

// Handler serves the presence endpoint.
type Handler struct {
	token  string
	logger zerolog.Logger
	now    func() time.Time

	mu    sync.RWMutex
	last  *Report
	count int
}

// NewHandler creates a handler. An empty token accepts any Authorization.
func NewHandler(token string, logger zerolog.Logger) *Handler {
	return &Handler{token: token, logger: logger, now: time.Now}
}

// Router builds the gin engine.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(h.logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.POST(Path, h.authorize, h.CreateReport)
	router.GET(Path, h.authorize, h.LastReport)

	return router
}

// authorize rejects requests whose Authorization header differs from the token.
func (h *Handler) authorize(c *gin.Context) {
	if h.token == "" {
		c.Next()
		return
	}
	got := c.GetHeader("Authorization")
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

// CreateReport handles POST /presence
func (h *Handler) CreateReport(c *gin.Context) {
	var req presenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "timestamp is required"})
		return
	}

	report := Report{
		Timestamp:  req.Timestamp,
		ReceivedAt: h.now(),
		RemoteAddr: c.ClientIP(),
	}

	h.mu.Lock()
	h.last = &report
	h.count++
	h.mu.Unlock()

	h.logger.Info().Str("timestamp", report.Timestamp).Str("remote", report.RemoteAddr).Msg("Presence received")
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// LastReport handles GET /presence
func (h *Handler) LastReport(c *gin.Context) {
	last, count := h.Last()
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no reports received"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": last, "count": count})
}

// Last returns the most recent report and the number received.
func (h *Handler) Last() (Report, int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.last == nil {
		return Report{}, h.count
	}
	return *h.last, h.count
}

// ParseTimestamp parses a received timestamp written by a reporter.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(presence.LocalTimestampLayout, s)
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request")
	}
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h *Handler) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      h.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info().Str("addr", addr).Msg("Starting presence receiver")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	h.logger.Info().Msg("Shutting down presence receiver")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
