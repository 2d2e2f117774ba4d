package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/flickfinder/flickfinder/config"
	"github.com/flickfinder/flickfinder/logging/logger"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			return runServe(cmd.Context(), configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	app, err := newApplication(ctx, configPath)
	if err != nil {
		return err
	}
	defer app.cleanup()

	switch app.conf.RunMode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(app.conf.RunMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	app.handler.Register(router)

	addr := fmt.Sprintf("%s:%d", app.conf.Host, app.conf.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	config.Watch(func(c *config.Config) {
		logger.Infof(ctx, "configuration reloaded")
	})

	go func() {
		logger.Infof(ctx, "%s listening on %s", app.conf.AppName, addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "server forced to shutdown: %v", err)
		return err
	}

	logger.Infof(ctx, "server exited")
	return nil
}
