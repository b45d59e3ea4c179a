package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"star-pass/internal/amplify"
	"star-pass/internal/config"
	"star-pass/internal/shifts"
)

func main() {
	var (
		envPath string
		dryRun  bool
		input   string
		output  string
	)
	flag.StringVar(&envPath, "env", "", "path to load env from")
	flag.BoolVar(&dryRun, "dry-run", true, "construct and print requests without sending them")
	flag.StringVar(&input, "input", "", "shift export CSV (overrides INPUT_FILE)")
	flag.StringVar(&output, "output", "", "payload JSON export path (overrides OUTPUT_FILE)")
	flag.Parse()

	if envPath != "" {
		log.Printf("loading env from file %s", envPath)
		if err := godotenv.Load(envPath); err != nil {
			log.Fatalf("error loading .env file '%s': %v", envPath, err)
		}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	// The flag wins over DRY_RUN only when passed explicitly.
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "dry-run" {
			cfg.DryRun = dryRun
		}
	})
	if input != "" {
		cfg.InputFile = input
	}
	if output != "" {
		cfg.OutputFile = output
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	pipeline, err := shifts.NewPipeline(cfg)
	if err != nil {
		log.Fatalf("error building shift payload: %v", err)
	}

	var dispatcher shifts.Dispatcher
	if cfg.DryRun {
		dispatcher = &amplify.Printer{BaseURL: cfg.BaseURL, Out: os.Stdout}
	} else {
		dispatcher = amplify.NewClient(cfg.BaseURL, cfg.Token, cfg.HTTPTimeout)
	}

	sent, err := pipeline.Submit(context.Background(), dispatcher)
	if err != nil {
		log.Fatalf("submission aborted after %d of %d needs: %v", sent, len(pipeline.Payload()), err)
	}
	slog.Info("done", "needs", sent, "dry_run", cfg.DryRun)
}
