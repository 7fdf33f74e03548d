// main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/gewnthar/meetsync/config"
	"github.com/gewnthar/meetsync/database"
	"github.com/gewnthar/meetsync/handlers"
	"github.com/gewnthar/meetsync/services"
)

func main() {
	log.Println("Starting MeetSync Aggregator...")

	// .env is optional; env vars may come from the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment overrides from .env")
	}

	configPath := "config/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = "config.yaml"
		if _, errFallback := os.Stat(configPath); os.IsNotExist(errFallback) {
			log.Fatalf("Config file not found at default paths. Error: %v", errFallback)
		}
	}

	err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	log.Printf("Configuration loaded. Server port: %s, DB name: %s",
		config.AppConfig.Server.Port, config.AppConfig.Database.DBName)
	log.Printf("Root server seeds: %d, discovery page: %s",
		len(config.AppConfig.RootServers), config.AppConfig.Discovery.ListPageURL)

	err = database.InitDB(config.AppConfig.Database)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer database.CloseDB()

	if err := database.EnsureSchema(); err != nil {
		log.Fatalf("Error ensuring database schema: %v", err)
	}

	// Register configured and discovered root servers so sync targets exist.
	if err := services.RegisterRootServers(); err != nil {
		log.Printf("WARN: Root server registration incomplete: %v", err)
	}

	// --- Setup HTTP routes ---
	http.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := database.DB.Ping(); err != nil {
			http.Error(w, `{"status": "error", "message": "database connection error"}`, http.StatusInternalServerError)
			log.Printf("Health check failed: DB ping error: %v", err)
			return
		}
		fmt.Fprintln(w, `{"status": "ok", "message": "meetsync backend is healthy"}`)
	})

	// Admin routes for running imports
	http.HandleFunc("/api/admin/sync/", handlers.SyncRootServerHandler) // Path ends with / to catch sub-paths
	http.HandleFunc("/api/admin/refresh-rootservers", handlers.RefreshRootServerListHandler)

	// Read-side routes
	http.HandleFunc("/api/rootservers", handlers.ListRootServersHandler)
	http.HandleFunc("/api/problems", handlers.ListImportProblemsHandler)
	http.HandleFunc("/api/export/meetings/", handlers.ExportMeetingsHandler)

	serverAddr := ":" + config.AppConfig.Server.Port
	log.Printf("Server starting on http://localhost%s\n", serverAddr)
	err = http.ListenAndServe(serverAddr, nil)
	if err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
