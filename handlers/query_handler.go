// handlers/query_handler.go
package handlers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gewnthar/meetsync/database"
	"github.com/gewnthar/meetsync/services"
)

// ListRootServersHandler handles GET /api/rootservers and returns the
// registered root servers with their last-import stats.
func ListRootServersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	servers, err := database.GetRootServers()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to list root servers: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, servers)
}

// ListImportProblemsHandler handles GET /api/problems?root_server_id=N&limit=M
// and returns the most recent import problems for one root server.
func ListImportProblemsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	rootServerID, err := strconv.ParseInt(r.URL.Query().Get("root_server_id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing or invalid 'root_server_id' query parameter")
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			respondWithError(w, http.StatusBadRequest, "Invalid 'limit' query parameter")
			return
		}
	}

	problems, err := database.GetImportProblems(rootServerID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to list import problems: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, problems)
}

// ExportMeetingsHandler handles GET /api/export/meetings/{id}.csv and streams
// the meeting export for one root server as a CSV download.
func ExportMeetingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// Expected path: api/export/meetings/{id}.csv
	if len(pathParts) < 4 {
		respondWithError(w, http.StatusBadRequest, "Invalid path. Expected /api/export/meetings/{id}.csv")
		return
	}
	idPart := strings.TrimSuffix(pathParts[3], ".csv")
	rootServerID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid root server ID '%s'", idPart))
		return
	}

	// Buffer the export so a mid-query failure can still become a JSON error
	// instead of a truncated download.
	var buf bytes.Buffer
	if _, err := services.ExportMeetingsCSV(rootServerID, &buf); err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to export meetings for root server %d: %v", rootServerID, err))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"meetings-%d.csv\"", rootServerID))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("ERROR: Failed writing meeting export for root server %d: %v\n", rootServerID, err)
	}
}
