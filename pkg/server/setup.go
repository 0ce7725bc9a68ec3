package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/LambdaTest/covdiff/config"
	"github.com/LambdaTest/covdiff/pkg/api"
	"github.com/LambdaTest/covdiff/pkg/global"
	"github.com/LambdaTest/covdiff/pkg/lumber"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// ListenAndServe initializes a server to respond to HTTP network requests.
// It returns once ctx is done and the server has shut down.
func ListenAndServe(ctx context.Context, router api.Router, cfg *config.Config, logger lumber.Logger) error {
	// set gin to release mode
	gin.SetMode(gin.ReleaseMode)

	logger.Infof("Setting up http handler")

	errChan := make(chan error, 1)

	// HTTP server instance
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Handler(),
		ReadHeaderTimeout: global.DefaultHTTPTimeout,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("listen: %v", err)
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Infof("Caller has requested graceful shutdown. shutting down the server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Server Shutdown, error: %v", err)
			return err
		}
		return nil
	case err := <-errChan:
		return err
	}
}
