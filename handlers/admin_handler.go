// handlers/admin_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gewnthar/meetsync/database"
	"github.com/gewnthar/meetsync/services"
)

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling JSON response: %v", err)
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	log.Printf("API Error %d: %s", code, message)
	respondWithJSON(w, code, map[string]string{"error": message})
}

// SyncRootServerHandler handles requests to import one root server, or all
// of them. Expects POST requests to /api/admin/sync/{id} where {id} is a
// root server ID or the literal "all".
func SyncRootServerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// Expected path: api/admin/sync/{id}
	if len(pathParts) < 3 {
		respondWithError(w, http.StatusBadRequest, "Invalid path. Expected /api/admin/sync/{id}")
		return
	}
	target := strings.ToLower(pathParts[2])

	if target == "all" {
		if err := services.SyncAllRootServers(); err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to sync all root servers: %v", err))
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"message": "Sync of all root servers completed."})
		return
	}

	rootServerID, err := strconv.ParseInt(target, 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid root server ID '%s'. Use a numeric ID or 'all'.", target))
		return
	}

	server, err := database.GetRootServer(rootServerID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load root server %d: %v", rootServerID, err))
		return
	}
	if server == nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Root server %d is not registered.", rootServerID))
		return
	}

	if err := services.SyncRootServer(server); err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to sync root server %d: %v", rootServerID, err))
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Sync of root server %d completed.", rootServerID)})
}

// RefreshRootServerListHandler handles requests to re-run root server
// registration (config seeds plus discovery scrape).
// Expects POST requests to /api/admin/refresh-rootservers
func RefreshRootServerListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	if err := services.RegisterRootServers(); err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to refresh root server list: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Root server list refreshed."})
}
