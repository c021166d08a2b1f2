package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/theoremus-urban-solutions/entur-deviations/collector"
	"github.com/theoremus-urban-solutions/entur-deviations/config"
	"github.com/theoremus-urban-solutions/entur-deviations/entur"
	"github.com/theoremus-urban-solutions/entur-deviations/export"
	"github.com/theoremus-urban-solutions/entur-deviations/internal"
	"github.com/theoremus-urban-solutions/entur-deviations/storage"
)

func main() {
	mode := flag.String("mode", "collect", "collect|oneshot|export")
	configPath := flag.String("config", "", "path to config.yml (default: ./config.yml)")
	format := flag.String("format", "csv", "export format: csv|xlsx")
	from := flag.String("from", "", "export range start, RFC3339 (default: 24h ago)")
	to := flag.String("to", "", "export range end, RFC3339 (default: now)")
	out := flag.String("out", "", "export output path (default: stdout for csv)")
	flag.Parse()

	internal.InitLogging()
	if err := config.LoadAppConfig(*configPath); err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewPostgresStore(ctx, config.Config.Database.DSN)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	switch *mode {
	case "collect", "oneshot":
		runCollect(ctx, store, *mode == "oneshot")
	case "export":
		runExport(ctx, store, *format, *from, *to, *out)
	default:
		log.Fatalf("unknown mode: %s", *mode)
	}
}

func runCollect(ctx context.Context, store storage.Store, oneshot bool) {
	cfg := config.Config
	client := entur.NewClient(cfg.Entur)
	coll := collector.New(client, store, cfg.Entur)

	var archiver *collector.Archiver
	if cfg.Archive.Enabled {
		var err error
		archiver, err = collector.NewArchiver(cfg.Archive.RawDir, cfg.Archive.ProcessedDir)
		if err != nil {
			log.Fatalf("archive dirs: %v", err)
		}
		coll.WithArchiver(archiver)
	}

	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Printf("invalid redis url, skipping fan-out: %v", err)
		} else {
			client := redis.NewClient(opts)
			if err := client.Ping(ctx).Err(); err != nil {
				log.Printf("redis ping failed, skipping fan-out: %v", err)
			} else {
				coll.WithRedis(client, cfg.Redis.Channel)
				defer func() { _ = client.Close() }()
			}
		}
	}

	if oneshot {
		res, err := coll.RunOnce(ctx)
		if err != nil {
			log.Fatalf("batch failed: %v", err)
		}
		fmt.Printf("observed=%d stored=%d skipped=%d failed=%d\n",
			res.Observed, res.Stored, res.Skipped, res.Failed)
		return
	}

	server := collector.StartServer(cfg.Server.Port)
	defer collector.ShutdownServer(server)

	sched := collector.NewScheduler(coll, cfg.Schedule)
	if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("scheduler failed: %v", err)
	}

	if archiver != nil {
		if err := archiver.MoveProcessed(); err != nil {
			log.Printf("move processed failed: %v", err)
		}
		if path, err := archiver.ArchiveProcessed(); err != nil {
			log.Printf("archive failed: %v", err)
		} else if path != "" {
			log.Printf("archived snapshots to %s", path)
		}
	}
}

func runExport(ctx context.Context, store storage.Store, format, fromStr, toStr, out string) {
	now := time.Now().UTC()
	from := now.Add(-24 * time.Hour)
	to := now
	var err error
	if fromStr != "" {
		if from, err = time.Parse(time.RFC3339, fromStr); err != nil {
			log.Fatalf("invalid -from: %v", err)
		}
	}
	if toStr != "" {
		if to, err = time.Parse(time.RFC3339, toStr); err != nil {
			log.Fatalf("invalid -to: %v", err)
		}
	}

	records, err := store.ListDeviations(ctx, from, to)
	if err != nil {
		log.Fatalf("list deviations failed: %v", err)
	}

	w := os.Stdout
	if out == "" && format == "xlsx" {
		out = fmt.Sprintf("deviations_%s.xlsx", now.Format("20060102_150405"))
	}
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			log.Fatalf("create %s: %v", out, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	switch format {
	case "csv":
		err = export.WriteCSV(w, records)
	case "xlsx":
		err = export.WriteXLSX(w, records)
	default:
		log.Fatalf("unknown format: %s", format)
	}
	if err != nil {
		log.Fatalf("export failed: %v", err)
	}
	log.Printf("exported %d records", len(records))
}
