package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/questforge/questmap/internal/config"
	apiv1alpha1 "github.com/questforge/questmap/internal/handlers/api/v1alpha1"
	frameorch "github.com/questforge/questmap/internal/orchestrators/frame"
	worldorch "github.com/questforge/questmap/internal/orchestrators/world"
	"github.com/questforge/questmap/internal/pkg/clock"
	"github.com/questforge/questmap/internal/pkg/idgen"
	redisclient "github.com/questforge/questmap/internal/redis"
	"github.com/questforge/questmap/internal/repositories/dungeons"
	"github.com/questforge/questmap/internal/repositories/zones"
	framesvc "github.com/questforge/questmap/internal/services/frame"
)

var configPath string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  `Start the questmap HTTP server with the authoring API and the frame evaluation websocket.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Received shutdown signal, gracefully stopping...")
		cancel()
	}()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	client, err := redisclient.NewClient(cfg.Redis.Address, &redisclient.Options{
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}

	zoneRepo := zones.NewRedisRepository(client)
	dungeonRepo := dungeons.NewRedisRepository(client)

	worldService, err := worldorch.NewOrchestrator(&worldorch.Config{
		ZoneRepo:    zoneRepo,
		DungeonRepo: dungeonRepo,
		IDGenerator: idgen.NewUUID("qm"),
		Clock:       clock.New(),
		Margin:      cfg.Tuning.Margin,
		MinDistance: cfg.Tuning.MinDistance,
	})
	if err != nil {
		return fmt.Errorf("failed to create world service: %w", err)
	}

	frameService, err := frameorch.NewOrchestrator(&frameorch.Config{
		DungeonRepo:      dungeonRepo,
		InteractionRange: cfg.Tuning.InteractionRange,
		CullDistance:     cfg.Tuning.CullDistance,
		DriftTolerance:   cfg.Tuning.DriftTolerance,
	})
	if err != nil {
		return fmt.Errorf("failed to create frame service: %w", err)
	}

	if _, err := frameService.Reload(ctx, &framesvc.ReloadInput{}); err != nil {
		return fmt.Errorf("failed to load frame snapshot: %w", err)
	}

	handler, err := apiv1alpha1.NewHandler(&apiv1alpha1.Config{
		WorldService: worldService,
		FrameService: frameService,
	})
	if err != nil {
		return fmt.Errorf("failed to create API handler: %w", err)
	}

	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "address", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down HTTP server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed, forcing close", "error", err)
			return srv.Close()
		}
		slog.Info("Server stopped gracefully")

		return nil
	case err := <-errChan:
		return err
	}
}
