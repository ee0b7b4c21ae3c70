package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/usecase"
	"flightlog-service/pkg/logger"

	"github.com/gorilla/mux"
)

const maxIngestMemory = 32 << 20 // multipart buffer, larger files spill to disk

// Router wraps the mux router and the collection controller
type Router struct {
	*mux.Router
	controller *usecase.CollectionController
	logger     logger.Logger
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(controller *usecase.CollectionController, logger logger.Logger) *Router {
	r := &Router{
		Router:     mux.NewRouter(),
		controller: controller,
		logger:     logger,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Report collection
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/reports", r.listReports).Methods("GET")
	api.HandleFunc("/reports", r.clearReports).Methods("DELETE")
	api.HandleFunc("/reports/ingest", r.ingestReports).Methods("POST")
	api.HandleFunc("/reports/{id}", r.removeReport).Methods("DELETE")

	// Backup
	api.HandleFunc("/backup/export", r.exportBackup).Methods("GET")
	api.HandleFunc("/backup/import", r.importBackup).Methods("POST")

	// Remote sync
	api.HandleFunc("/sync/status", r.syncStatus).Methods("GET")
	api.HandleFunc("/sync/config", r.setSyncConfig).Methods("PUT")
	api.HandleFunc("/sync/config", r.clearSyncConfig).Methods("DELETE")
	api.HandleFunc("/sync/now", r.syncNow).Methods("POST")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listReports returns the full collection, newest-first
func (r *Router) listReports(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.controller.Reports())
}

// ingestReports accepts a multipart batch of scanned documents under the
// "documents" field and runs them through the ingestion pipeline. Partial
// failure is not an HTTP error: accepted reports are kept and the failure
// count is reported in the body.
func (r *Router) ingestReports(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseMultipartForm(maxIngestMemory); err != nil {
		respondError(w, http.StatusBadRequest, "expected multipart form data")
		return
	}

	files := req.MultipartForm.File["documents"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "no documents provided")
		return
	}

	docs := make([]entity.Document, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			respondError(w, http.StatusBadRequest, "unreadable document: "+header.Filename)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			respondError(w, http.StatusBadRequest, "unreadable document: "+header.Filename)
			return
		}
		docs = append(docs, entity.Document{
			Name:     header.Filename,
			MIMEType: header.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	result, err := r.controller.IngestBatch(req.Context(), docs)
	if result == nil {
		r.logger.Error("Ingestion unavailable", "error", err)
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	resp := map[string]interface{}{
		"accepted": len(result.Accepted),
		"failed":   result.Failed,
		"reports":  result.Accepted,
	}
	if err != nil {
		resp["warning"] = err.Error()
	}
	respondJSON(w, http.StatusOK, resp)
}

// removeReport drops one report; removing an unknown id is a no-op
func (r *Router) removeReport(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	r.controller.RemoveRecord(req.Context(), id)
	respondJSON(w, http.StatusOK, map[string]string{"removed": id})
}

// clearReports empties the collection and the local store
func (r *Router) clearReports(w http.ResponseWriter, req *http.Request) {
	r.controller.ClearAll(req.Context())
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// exportBackup offers the collection as a date-stamped, indented JSON file
func (r *Router) exportBackup(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+usecase.BackupFilename(time.Now())+`"`)

	if err := usecase.WriteBackup(w, r.controller.Reports()); err != nil {
		r.logger.Error("Backup export failed", "error", err)
	}
}

// importBackup replaces the collection from an uploaded JSON array. The first
// request answers with the parsed record count; the operator resubmits with
// confirm=true to apply.
func (r *Router) importBackup(w http.ResponseWriter, req *http.Request) {
	reports, err := usecase.ReadBackup(req.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.URL.Query().Get("confirm") != "true" {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"records": len(reports),
			"applied": false,
		})
		return
	}

	r.controller.ReplaceAll(req.Context(), reports)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"records": len(reports),
		"applied": true,
	})
}

// syncStatus returns endpoint, status and last sync time
func (r *Router) syncStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.controller.SyncState())
}

// setSyncConfig configures the remote endpoint and triggers the initial pull
func (r *Router) setSyncConfig(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Endpoint string `json:"endpoint"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := r.controller.ConfigureSync(req.Context(), body.Endpoint); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, r.controller.SyncState())
}

// clearSyncConfig returns the service to local-only mode
func (r *Router) clearSyncConfig(w http.ResponseWriter, req *http.Request) {
	r.controller.ClearSyncConfig(req.Context())
	respondJSON(w, http.StatusOK, r.controller.SyncState())
}

// syncNow performs a manual pull. A failed pull is reported through the sync
// state, local data stays untouched.
func (r *Router) syncNow(w http.ResponseWriter, req *http.Request) {
	if err := r.controller.SyncNow(req.Context()); err != nil {
		respondJSON(w, http.StatusBadGateway, r.controller.SyncState())
		return
	}
	respondJSON(w, http.StatusOK, r.controller.SyncState())
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
