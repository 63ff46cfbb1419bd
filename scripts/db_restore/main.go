package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/garnizeh/billing/internal/config"
	"github.com/garnizeh/billing/internal/db"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	dst := cfg.DatabasePath
	src := dst + ".bak"

	if err := checkBackup(context.Background(), src); err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database restore completed. Restart the server to pick it up.")
}

// checkBackup makes sure src is a migrated billing database before it
// replaces the live one.
func checkBackup(ctx context.Context, src string) error {
	if _, err := os.Stat(src); err != nil {
		return err
	}
	backup, err := db.New(ctx, "file:"+src+"?mode=ro", nil)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer backup.Close()

	var applied int
	if err := backup.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&applied); err != nil {
		return fmt.Errorf("backup %s is not a billing database: %w", src, err)
	}
	if applied == 0 {
		return fmt.Errorf("backup %s has no applied migrations", src)
	}
	return nil
}
