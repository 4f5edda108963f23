// Command importer seeds the track catalog from tagged audio files.
//
//	importer [-config file] <dir>...
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/ewilliams-labs/remixense/internal/adapters/storage"
	"github.com/ewilliams-labs/remixense/internal/adapters/tagreader"
	"github.com/ewilliams-labs/remixense/internal/config"
	"github.com/ewilliams-labs/remixense/internal/core/domain"
	"github.com/ewilliams-labs/remixense/internal/core/services"
)

func main() {
	configFile := flag.String("config", "", "optional config file (yaml, json or toml)")
	flag.Parse()
	if flag.NArg() == 0 {
		log.Fatal("usage: importer [-config file] <dir>...")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	defer store.Close()

	svc := services.NewOrchestrator(store, store, nil, nil)

	var imported, failed int
	for _, dir := range flag.Args() {
		if ctx.Err() != nil {
			log.Printf("WARN importer: interrupted after %d tracks", imported)
			break
		}
		tracks, errs := tagreader.ScanDir(dir)
		for _, err := range errs {
			log.Printf("WARN importer: %v", err)
			failed++
		}

		saved, rejected, err := svc.AddTracks(ctx, toNewTracks(tracks))
		for _, r := range rejected {
			log.Printf("WARN importer: %v", r)
			failed++
		}
		if err != nil {
			log.Printf("WARN importer: %s: %v", dir, err)
			failed += len(tracks) - len(rejected)
			continue
		}
		imported += len(saved)
	}
	log.Printf("imported %d tracks, %d failed", imported, failed)
}

func toNewTracks(tracks []domain.Track) []services.NewTrack {
	out := make([]services.NewTrack, 0, len(tracks))
	for _, t := range tracks {
		artist := t.Artist
		if artist == "" {
			artist = "Unknown Artist"
		}
		out = append(out, services.NewTrack{
			ID:       t.ID,
			Title:    t.Title,
			Artist:   artist,
			Tempo:    t.Tempo,
			Key:      t.Key,
			Energy:   t.Energy,
			Duration: t.Duration,
		})
	}
	return out
}
