package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"prefslots/internal/config"
	"prefslots/internal/dataset"
	"prefslots/internal/logging"
	"prefslots/internal/models"
	"prefslots/internal/repository"
	"prefslots/internal/service"
	"prefslots/internal/writer"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type options struct {
	configDir string
	file      string
	out       string
	format    string
	sheet     string
	encoding  string
	maxSlots  int
	pad       float64
	publish   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configDir, "config", "configs", "Directory containing app.env")
	flag.StringVar(&opts.file, "file", "", "Path to the .xlsx or .csv dataset (default INPUT_FILE)")
	flag.StringVar(&opts.out, "out", "", "Path of the generated table (default OUTPUT_FILE)")
	flag.StringVar(&opts.format, "format", "", "Output format: ts or json (default from -out extension)")
	flag.StringVar(&opts.sheet, "sheet", "", "Worksheet to read (default first sheet)")
	flag.StringVar(&opts.encoding, "encoding", "", "CSV encoding: utf-8 or shift-jis")
	flag.IntVar(&opts.maxSlots, "max-slots", 0, "Cities kept per prefecture (default SLOT_MAX)")
	flag.Float64Var(&opts.pad, "pad", -1, "Layout margin in percent (default SLOT_PAD)")
	flag.BoolVar(&opts.publish, "publish", false, "Also store the table in the database at DB_SOURCE")
	flag.Parse()

	cfg, err := config.LoadConfig(opts.configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogPretty); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}

	applyConfig(&opts, cfg)

	if err := run(context.Background(), opts, cfg); err != nil {
		log.Fatal().Err(err).Msg("slot generation failed")
	}
}

// applyConfig fills every flag left at its zero value from the loaded config.
func applyConfig(opts *options, cfg config.Config) {
	if opts.file == "" {
		opts.file = cfg.InputFile
	}
	if opts.out == "" {
		opts.out = cfg.OutputFile
	}
	if opts.format == "" {
		opts.format = cfg.OutputFormat
	}
	if opts.sheet == "" {
		opts.sheet = cfg.InputSheet
	}
	if opts.encoding == "" {
		opts.encoding = cfg.InputEncoding
	}
	if opts.maxSlots == 0 {
		opts.maxSlots = cfg.MaxSlots
	}
	if opts.pad < 0 {
		opts.pad = cfg.Pad
	}
}

func run(ctx context.Context, opts options, cfg config.Config) error {
	if opts.file == "" {
		return fmt.Errorf("-file flag or INPUT_FILE is required")
	}

	format := opts.format
	if format == "" {
		f, err := writer.FormatFromPath(opts.out)
		if err != nil {
			return err
		}
		format = f
	}
	enc, err := writer.ForFormat(format)
	if err != nil {
		return err
	}

	generator, err := service.NewSlotGenerator(service.SlotOptions{MaxSlots: opts.maxSlots, Pad: opts.pad})
	if err != nil {
		return err
	}

	log.Info().Str("file", opts.file).Msg("loading dataset")
	records, stats, err := dataset.Load(opts.file, dataset.Options{Sheet: opts.sheet, Encoding: opts.encoding})
	if err != nil {
		return err
	}
	log.Debug().
		Int("rows", stats.Rows).
		Int("valid", stats.Valid).
		Int("dropped", stats.Dropped).
		Msg("parsed dataset")

	table := generator.Generate(records)
	log.Info().
		Int("records", stats.Valid).
		Int("prefectures", len(table.Layouts)).
		Int("max_slots", opts.maxSlots).
		Float64("pad", opts.pad).
		Msg("generated slot table")

	if err := writer.WriteFile(opts.out, enc, table); err != nil {
		return err
	}
	log.Info().Str("format", format).Msgf("Wrote: %s", opts.out)

	if opts.publish {
		if err := publish(ctx, cfg.DBSource, table); err != nil {
			return err
		}
		log.Info().Int("prefectures", len(table.Layouts)).Msg("published slot table")
	}
	return nil
}

func publish(ctx context.Context, dbSource string, table models.SlotTable) error {
	if dbSource == "" {
		return fmt.Errorf("DB_SOURCE is required to publish")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbSource)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	repo := repository.NewRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	return repo.ReplaceTable(ctx, table)
}
