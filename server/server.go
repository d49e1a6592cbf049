// Package server exposes the HTTP surface: the play endpoint, the deposit
// endpoints and the payment gateway webhooks.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"raspadinha/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Server wires the services into a gin engine.
type Server struct {
	games    service.GameService
	deposits service.DepositService
	ledger   service.LedgerService
	engine   *gin.Engine
}

// New creates the HTTP server. serviceName tags the traces emitted by the
// otelgin middleware.
func New(serviceName string, games service.GameService, deposits service.DepositService, ledger service.LedgerService) *Server {
	s := &Server{
		games:    games,
		deposits: deposits,
		ledger:   ledger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware(serviceName))
	engine.Use(requestLogger())

	engine.GET("/healthz", s.handleHealth)

	api := engine.Group("/api")
	{
		api.POST("/game/process", s.handleProcessGame)
		api.POST("/deposits", s.handleCreateDeposit)
		api.GET("/deposits/:id", s.handleGetDeposit)
		api.POST("/admin/adjust", s.handleAdminAdjust)
	}

	hooks := engine.Group("/webhooks")
	{
		hooks.POST("/woovi", s.handlePaymentWebhook)
		hooks.POST("/woovi/expired", s.handleExpiryWebhook)
	}

	s.engine = engine
	return s
}

// Handler returns the http.Handler for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Shutting down HTTP server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestLogger logs each request with its status and latency.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if len(c.Errors) > 0 {
			entry.Error(c.Errors.String())
		} else if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error("Request failed")
		} else {
			entry.Debug("Request handled")
		}
	}
}
