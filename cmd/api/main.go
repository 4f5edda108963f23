package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ewilliams-labs/remixense/internal/adapters/rest"
	"github.com/ewilliams-labs/remixense/internal/adapters/spotify"
	"github.com/ewilliams-labs/remixense/internal/adapters/storage"
	"github.com/ewilliams-labs/remixense/internal/config"
	"github.com/ewilliams-labs/remixense/internal/core/mixing"
	"github.com/ewilliams-labs/remixense/internal/core/ports"
	"github.com/ewilliams-labs/remixense/internal/core/services"
	"github.com/ewilliams-labs/remixense/internal/worker"
)

func main() {
	configFile := flag.String("config", "", "optional config file (yaml, json or toml)")
	flag.Parse()

	// 1. Configuration
	// Crash early if the config is invalid.
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize "Driven" Adapters (The Tools)
	// -- Database Adapter
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	defer store.Close()
	log.Printf("DEBUG: storage driver %s", cfg.StorageDriver)

	// -- Spotify Adapter (optional; import is disabled without credentials)
	var provider ports.MetadataProvider
	if cfg.SpotifyEnabled() {
		provider = spotify.NewClientCredentials(ctx, cfg.SpotifyClientID, cfg.SpotifyClientSecret,
			spotify.WithRetry(cfg.SpotifyMaxRetries, cfg.SpotifyRetryBackoff))
	} else {
		log.Println("WARN: SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET not set, track import disabled")
	}

	// 3. Initialize Core Logic (The Driver)
	var engineOpts []mixing.Option
	if cfg.MixFullKeyWheel {
		engineOpts = append(engineOpts, mixing.WithKeyTable(mixing.FullCamelotWheel()))
	}
	svc := services.NewOrchestrator(store, store, provider, mixing.NewEngine(engineOpts...),
		services.WithDefaultMaxTracks(cfg.MixDefaultMaxTracks))

	// 4. Initialize "Driving" Adapter (The Interface)
	pool := worker.NewPool(store, worker.NewPreviewAnalyzer(nil), cfg.WorkerCount, cfg.WorkerQueueSize)
	pool.Start(ctx)
	defer pool.Stop()

	handler := rest.NewHandler(svc, pool)

	// 5. Start the Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Println("------------------------------------------------")
	log.Printf("RemiXense API is running on http://localhost%s", addr)
	log.Println("------------------------------------------------")

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Printf("server error: %v", err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
