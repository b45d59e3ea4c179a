// Bulk user deactivation utility. Reads a newline-delimited email list,
// resolves each address to a user id, and deletes the matching users.
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
)

func main() {
	var (
		envPath string
		input   string
		output  string
	)
	flag.StringVar(&envPath, "env", "", "path to load env from")
	flag.StringVar(&input, "input", "", "file containing one user email per line")
	flag.StringVar(&output, "output", "", "optional file to write resolved user ids to")
	flag.Parse()

	if envPath != "" {
		log.Printf("loading env from file %s", envPath)
		if err := godotenv.Load(envPath); err != nil {
			log.Fatalf("error loading .env file '%s': %v", envPath, err)
		}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if input == "" {
		log.Fatalf("-input is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	if cfg.BaseURL == "" || cfg.Token == "" {
		log.Fatalf("BASE_URL and GC_TOKEN are required")
	}

	emails, err := amplify.ReadEmailList(input)
	if err != nil {
		log.Fatalf("error reading email list: %v", err)
	}

	ctx := context.Background()
	service := amplify.NewUserService(cfg.BaseURL, cfg.Token, cfg.HTTPTimeout)

	ids, err := service.LookupIDs(ctx, emails)
	if err != nil {
		log.Fatalf("error resolving user ids: %v", err)
	}
	if output != "" {
		if err := amplify.WriteIDList(output, ids); err != nil {
			log.Fatalf("error writing user id list: %v", err)
		}
	}

	if err := service.Deactivate(ctx, ids); err != nil {
		log.Fatalf("error deactivating users: %v", err)
	}
	slog.Info("deactivation complete", "emails", len(emails), "deactivated", len(ids))
}
