package main

import (
	"audiopress/internal/adapters/eventbroker"
	"audiopress/internal/adapters/metrics"
	"audiopress/internal/adapters/registry/memory"
	"audiopress/internal/adapters/storage/localfs"
	"audiopress/internal/config"
	"audiopress/internal/core/domain"
	"audiopress/internal/core/service/recovery"
	"audiopress/internal/core/service/sweep"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	var (
		dir    string
		ttl    time.Duration
		dryRun bool
	)

	flag.StringVar(&dir, "dir", "", "Storage directory to sweep (default: UPLOAD_DIR)")
	flag.DurationVar(&ttl, "ttl", 0, "Artifact time to live (default: AUTO_DELETE_AFTER)")
	flag.BoolVar(&dryRun, "dry-run", false, "List sweep candidates without touching anything")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if dir != "" {
		cfg.Upload.Dir = dir
	}
	if ttl > 0 {
		cfg.Upload.TTL = ttl
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := context.Background()

	store, err := localfs.NewAdapter(cfg.Upload.Dir, logger)
	if err != nil {
		log.Fatalf("failed to init storage: %v", err)
	}

	// dry run reads the directory only, so crash leftovers survive it too
	if dryRun {
		blobs, err := store.List(ctx)
		if err != nil {
			log.Fatalf("failed to scan storage directory: %v", err)
		}

		cutoff := time.Now().Add(-cfg.Upload.TTL)
		expirable := 0
		for _, blob := range blobs {
			if _, ok := domain.ParseFinalBlobKey(blob.Key); !ok {
				fmt.Printf("%s\t%d bytes\tleftover\n", blob.Key, blob.SizeBytes)
				continue
			}
			if blob.ModTime.Before(cutoff) {
				expirable++
				fmt.Printf("%s\t%d bytes\tmodified %s\n", blob.Key, blob.SizeBytes, blob.ModTime.Format(time.RFC3339))
			}
		}
		log.Printf("%d of %d blobs past their TTL (dry run, nothing removed)", expirable, len(blobs))
		return
	}

	artifactRegistry := memory.NewRegistry()

	recoveryService := recovery.NewRecoveryService(artifactRegistry, store, logger)
	restored, err := recoveryService.RestoreArtifacts(ctx)
	if err != nil {
		log.Fatalf("failed to rebuild artifact registry: %v", err)
	}
	log.Printf("found %d artifacts under %s", restored, cfg.Upload.Dir)

	sweepService := sweep.NewSweepService(artifactRegistry, store, eventbroker.NewNoopPublisher(), metrics.NewNoop(), cfg.Upload, logger)

	removed, err := sweepService.SweepExpired(ctx, time.Now())
	if err != nil {
		log.Fatalf("failed to sweep expired artifacts: %v", err)
	}
	log.Printf("swept %d expired artifacts", removed)
}
