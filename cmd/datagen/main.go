// The datagen command writes a synthetic student dataset to a CSV file.
// The same seed always produces the same file.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"gradeviz/internal/config"
	"gradeviz/internal/dataset"
	"gradeviz/internal/infrastructure"
)

func main() {
	count := flag.Int("count", 0, "number of records to generate (defaults to configured count)")
	seed := flag.Int64("seed", 0, "random seed for reproducible output (omit for a random dataset)")
	schema := flag.String("schema", "exam", "dataset schema: exam or profile")
	out := flag.String("out", "", "output CSV path (defaults to the data directory)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogger()

	opts := dataset.GenerateOptions{Count: *count}
	if opts.Count == 0 {
		opts.Count = cfg.Generator.DefaultCount
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			opts.Seed = seed
		}
	})

	generator := dataset.NewGenerator(logger, cfg.Generator)
	writer := dataset.NewWriter(logger)
	ctx := context.Background()

	path := *out
	switch *schema {
	case "exam":
		if path == "" {
			path = cfg.Paths.DataPath(config.DefaultCSVName)
		}
		table, err := generator.GenerateExam(ctx, opts)
		if err != nil {
			logger.Error("Generation failed", "error", err)
			os.Exit(1)
		}
		if err := writer.WriteExam(ctx, path, table); err != nil {
			logger.Error("Failed to write dataset", "error", err, "path", path)
			os.Exit(1)
		}
		logger.Info("Dataset written",
			"path", path,
			"records", table.Len(),
			"provenance", table.Provenance.ID)

	case "profile":
		if path == "" {
			path = cfg.Paths.DataPath(config.DefaultProfileCSVName)
		}
		table, err := generator.GenerateProfile(ctx, opts)
		if err != nil {
			logger.Error("Generation failed", "error", err)
			os.Exit(1)
		}
		if err := writer.WriteProfile(ctx, path, table); err != nil {
			logger.Error("Failed to write dataset", "error", err, "path", path)
			os.Exit(1)
		}
		logger.Info("Dataset written",
			"path", path,
			"records", table.Len(),
			"provenance", table.Provenance.ID)

	default:
		logger.Error("Unknown schema", "schema", *schema)
		os.Exit(1)
	}
}
