package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"

	"github.com/artefactventures/artefact-mcp/internal/api/handler"
	"github.com/artefactventures/artefact-mcp/internal/api/handler/router"
	"github.com/artefactventures/artefact-mcp/internal/config"
	"github.com/artefactventures/artefact-mcp/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
}

// New builds the HTTP host for the streamable MCP transport. mcpHandler is
// the transport handler produced by the MCP SDK; everything else is ambient
// plumbing around it.
func New(cfg *config.Config, version string, mcpHandler http.Handler) (*Server, error) {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck(version)...),
		router.WithRoutes(handler.MCP(mcpHandler)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
		middleware.AuthMiddleware(cfg.Auth.Secret),
	}

	chain := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           chain,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("HTTP server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("HTTP server terminated unexpectedly")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("interrupt signal received")
	case <-ctx.Done():
		logrus.Info("application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("starting graceful shutdown")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("error during server shutdown")
		return err
	}

	logrus.Info("server stopped")
	return nil
}

// Shutdown drains in-flight requests, including open SSE streams, within the
// context deadline.
func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
