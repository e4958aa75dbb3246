package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/expocc/showdesk/internal/cache"
	"github.com/expocc/showdesk/internal/config"
	"github.com/expocc/showdesk/internal/handlers"
	"github.com/expocc/showdesk/internal/messaging"
	"github.com/expocc/showdesk/internal/repository"
	"github.com/expocc/showdesk/internal/service"
	"github.com/expocc/showdesk/internal/sheets"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Connect to Google Sheets. A failed connection is not fatal: the
	// service starts anyway and every read degrades to an empty result
	// until credentials are fixed.
	var sheetsClient sheets.Client
	credentialsFile, err := sheets.ResolveCredentialsFile(cfg.CredentialsJSON, cfg.CredentialsFile)
	if err != nil {
		log.Printf("Error setting up credentials: %v", err)
	} else {
		sheetsClient, err = sheets.NewClient(context.Background(), cfg.SpreadsheetID, credentialsFile)
		if err != nil {
			log.Printf("Error setting up Google Sheets client: %v", err)
			sheetsClient = nil
		} else {
			log.Printf("Google Sheets client initialized for spreadsheet %s", cfg.SpreadsheetID)
		}
	}

	// Initialize Kafka producer (optional)
	var producer messaging.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = messaging.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		log.Println("Kafka producer initialized")
	}

	// Initialize repository and services
	orderRepo := repository.NewSheetRepository(sheetsClient, cfg.PrimaryWorksheet)
	orderCache := cache.New(cfg.CacheTTL)
	orderService := service.NewOrderService(orderRepo, orderCache, producer, cfg.PrimaryWorksheet)
	orderHandler := handlers.NewOrderHandler(orderService, sheetsClient != nil, cfg.CacheTTL)

	// Setup router
	router := mux.NewRouter()
	orderHandler.RegisterRoutes(router)
	router.PathPrefix("/").Handler(handlers.NewSPAHandler(cfg.StaticDir))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	// Start HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting showdesk (%s) on port %s", cfg.ServiceID, cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited gracefully")
	return nil
}
