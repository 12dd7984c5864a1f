package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/codyseavey/card-ledger/backend/internal/api"
	"github.com/codyseavey/card-ledger/backend/internal/database"
	"github.com/codyseavey/card-ledger/backend/internal/services"
	"github.com/codyseavey/card-ledger/backend/internal/store"
)

func main() {
	// Pick the store backend. SQLite is the row-addressable default; the
	// CSV backend is bulk-only and forces edits through the full-replace
	// save path.
	var st store.Store
	switch backend := os.Getenv("STORE_BACKEND"); backend {
	case "", "sqlite":
		dbPath := os.Getenv("DB_PATH")
		if dbPath == "" {
			dbPath = "./card_ledger.db"
		}
		if err := database.Initialize(dbPath); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		st = store.NewGormStore(database.GetDB())
	case "csv":
		csvPath := os.Getenv("CSV_STORE_PATH")
		if csvPath == "" {
			csvPath = "./card_ledger.csv"
		}
		st = store.NewCSVStore(csvPath)
		log.Printf("Using bulk-only CSV store at %s; incremental reconcile disabled", csvPath)
	default:
		log.Fatalf("Unknown STORE_BACKEND %q (want sqlite or csv)", backend)
	}

	// Optional write pacing for eventually-consistent or fragile
	// backends: a token-bucket on mutations plus a settle pause before
	// the next read cycle can start.
	writesPerSec := 0.0
	if s := os.Getenv("STORE_WRITES_PER_SEC"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			writesPerSec = v
		}
	}
	settle := time.Duration(0)
	if s := os.Getenv("SETTLE_DELAY_MS"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			settle = time.Duration(v) * time.Millisecond
		}
	}
	if writesPerSec > 0 || settle > 0 {
		st = store.NewPaced(st, writesPerSec, settle)
		log.Printf("Store pacing enabled: %.1f writes/sec, settle %s", writesPerSec, settle)
	}

	// Initialize services
	loader := services.NewSnapshotLoader(st)
	registry := services.NewViewRegistry()
	reconciler := services.NewReconciler(st)
	replacer := services.NewFullReplacer(st)

	// Setup router
	router := api.SetupRouter(loader, registry, reconciler, replacer, st)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
