package api

import (
	"net/http"

	"github.com/garnizeh/billing/internal/billing"
	"github.com/garnizeh/billing/internal/config"
	"github.com/garnizeh/billing/internal/db"
	"github.com/garnizeh/billing/internal/repository/sqlite"
	"github.com/gorilla/mux"
)

// SetupRoutes wires the billing service over conn and returns the HTTP handler.
func SetupRoutes(cfg *config.Config, version, buildTime string, conn *db.DB) http.Handler {
	repo := sqlite.New(conn, logger)
	svc := billing.NewService(billing.Repos{
		Profiles:  repo,
		Contracts: repo,
		Jobs:      repo,
		Reports:   repo,
		Tx:        repo,
	}, billing.WithLogger(logger))

	return NewRouter(cfg, version, buildTime, svc)
}

// NewRouter builds the router for svc.
func NewRouter(cfg *config.Config, version, buildTime string, svc *billing.Service) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)

	// Create handlers
	systemHandler := &SystemHandler{}
	contractsHandler := NewContractsHandler(svc)
	jobsHandler := NewJobsHandler(svc)
	balancesHandler := NewBalancesHandler(svc)
	adminHandler := NewAdminHandler(svc)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods(http.MethodGet)
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods(http.MethodGet)

	// Profile authenticated routes
	authed := r.NewRoute().Subrouter()
	authed.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)
	authed.Use(ProfileAuthMiddleware(svc))

	authed.HandleFunc("/contracts", contractsHandler.ListContracts).Methods(http.MethodGet)
	authed.HandleFunc("/contracts/{id}", contractsHandler.GetContract).Methods(http.MethodGet)
	authed.HandleFunc("/jobs/unpaid", jobsHandler.ListUnpaid).Methods(http.MethodGet)
	authed.HandleFunc("/jobs/{jobId}/pay", jobsHandler.PayJob).Methods(http.MethodPost)
	authed.HandleFunc("/balances/deposit/{userId}", balancesHandler.Deposit).Methods(http.MethodPost)

	admin := authed.PathPrefix("/admin").Subrouter()
	admin.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)
	if cfg.AdminAuthEnabled() {
		admin.Use(AdminAuthMiddleware(cfg.AdminJWTSecret))
	}
	admin.HandleFunc("/best-profession", adminHandler.BestProfession).Methods(http.MethodGet)
	admin.HandleFunc("/best-clients", adminHandler.BestClients).Methods(http.MethodGet)

	// Middleware chain. Applied outside the router so unmatched routes are
	// logged too.
	var h http.Handler = r
	h = RecoveryMiddleware(h)
	h = LoggingMiddleware(h)
	h = RequestIDMiddleware(h)
	h = CORSMiddleware(cfg.CORSAllowedOrigins)(h)

	return h
}
