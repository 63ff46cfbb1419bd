package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/garnizeh/billing/api"
	"github.com/garnizeh/billing/internal/config"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	subject := flag.String("sub", "admin", "Subject recorded in the token")
	ttl := flag.Duration("ttl", time.Hour, "Token lifetime")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if !cfg.AdminAuthEnabled() {
		fmt.Fprintln(os.Stderr, "admin_jwt_secret is not set; admin routes are open")
		os.Exit(1)
	}

	token, err := api.NewAdminToken(cfg.AdminJWTSecret, *subject, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Token error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
