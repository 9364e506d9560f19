package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"examtrack/internal/catalog"
	"examtrack/internal/config"
	"examtrack/internal/database"
	"examtrack/internal/handlers"
	"examtrack/internal/repository"
	"examtrack/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Open the statistics store backend (supports sqlite, postgres, mysql, bolt, memory)
	kv, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open statistics store: %v", err)
	}
	defer kv.Close()

	log.Printf("Statistics store opened (type: %s)", cfg.DatabaseType)

	// Load the exam catalog
	cat, err := catalog.Load(cfg.ManifestPath)
	if err != nil {
		log.Fatalf("Failed to load exam catalog: %v", err)
	}

	// Bring the persisted store through decode, migration, and repair
	repo := repository.NewStoreRepository(kv, cfg.StoreKey, cfg.CorruptionThreshold)
	tracker, err := service.NewTrackerService(repo, cat)
	if err != nil {
		log.Fatalf("Failed to load statistics: %v", err)
	}

	log.Println("Statistics loaded successfully")

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(tracker)
	attemptHandler := handlers.NewAttemptHandler(tracker)
	statsHandler := handlers.NewStatsHandler(tracker)
	examHandler := handlers.NewExamHandler(cat)
	healthHandler := handlers.NewHealthHandler(cfg.DatabaseType)

	// Setup routes
	mux := http.NewServeMux()

	// Session lifecycle
	mux.HandleFunc("POST /api/sessions/start", sessionHandler.StartSession)
	mux.HandleFunc("POST /api/sessions/end", sessionHandler.EndSession)

	// Attempt tracking
	mux.HandleFunc("POST /api/attempts", attemptHandler.RecordAttempt)
	mux.HandleFunc("POST /api/attempts/reset", attemptHandler.ResetAttempt)
	mux.HandleFunc("POST /api/highlights/view", attemptHandler.HighlightView)
	mux.HandleFunc("POST /api/highlights/click", attemptHandler.HighlightClick)

	// Statistics
	mux.HandleFunc("GET /api/stats/global", statsHandler.GlobalStats)
	mux.HandleFunc("GET /api/stats/current", statsHandler.CurrentStats)
	mux.HandleFunc("GET /api/stats/combined", statsHandler.CombinedStats)
	mux.HandleFunc("GET /api/stats/exams/{code}", statsHandler.ExamStats)
	mux.HandleFunc("DELETE /api/stats", statsHandler.ResetStats)
	mux.HandleFunc("GET /api/export", statsHandler.Export)

	// Exam catalog
	mux.HandleFunc("GET /api/exams", examHandler.ListExams)
	mux.HandleFunc("GET /api/exams/{code}", examHandler.GetExam)

	mux.HandleFunc("GET /health", healthHandler.Health)

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// The active session stays persisted as-is and is resumed on the
	// next start, so shutdown never discards study progress.
	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}
