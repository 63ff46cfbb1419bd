package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	dbfs "github.com/garnizeh/billing/db"
	"github.com/garnizeh/billing/internal/config"
	"github.com/garnizeh/billing/internal/db"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	seed := flag.Bool("seed", true, "Load the demo marketplace data")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	database, err := db.New(ctx, cfg.DatabasePath, cfg.Logger(os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}
	if *seed {
		if err := db.Seed(ctx, database, dbfs.SeedFiles); err != nil {
			fmt.Fprintf(os.Stderr, "Seed error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("Database initialized successfully.")
}
