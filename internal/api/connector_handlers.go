package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/google/uuid"

	"github.com/baykus/baykus/internal/connectors"
	"github.com/baykus/baykus/internal/database"
	"github.com/baykus/baykus/internal/models"
)

// ConnectorHandler serves connector CRUD plus the operations that act
// through a connector: connection tests, searches and raw request execution.
type ConnectorHandler struct {
	repo     *database.ConnectorRepository
	requests *database.RequestRepository
	service  *connectors.Service
	logger   *slog.Logger
}

func NewConnectorHandler(repo *database.ConnectorRepository, requests *database.RequestRepository, service *connectors.Service, logger *slog.Logger) *ConnectorHandler {
	return &ConnectorHandler{repo: repo, requests: requests, service: service, logger: logger}
}

// List handles GET /api/connectors with optional type and status filters.
func (h *ConnectorHandler) List(w http.ResponseWriter, r *http.Request) {
	conns, err := h.repo.List(r.Context(), r.URL.Query().Get("type"), r.URL.Query().Get("status"))
	if err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"connectors": conns, "count": len(conns)})
}

// Create handles POST /api/connectors.
func (h *ConnectorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var conn models.Connector
	if err := json.NewDecoder(r.Body).Decode(&conn); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := conn.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	conn.ID = uuid.New().String()
	if err := h.repo.Create(r.Context(), &conn); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}

	h.logger.Info("connector created", "id", conn.ID, "name", conn.Name, "type", conn.Type)
	writeJSON(w, http.StatusCreated, conn)
}

// Get handles GET /api/connectors/{id}.
func (h *ConnectorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/connectors/")
	if id == "" {
		http.Error(w, "Connector ID required", http.StatusBadRequest)
		return
	}
	conn, err := h.repo.GetConnector(r.Context(), id)
	if err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

// Update handles PUT /api/connectors/{id}.
func (h *ConnectorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/connectors/")
	if id == "" {
		http.Error(w, "Connector ID required", http.StatusBadRequest)
		return
	}

	var conn models.Connector
	if err := json.NewDecoder(r.Body).Decode(&conn); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	conn.ID = id
	if err := conn.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.repo.Update(r.Context(), &conn); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

// Delete handles DELETE /api/connectors/{id}. Credentials and request
// history go with it.
func (h *ConnectorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/connectors/")
	if id == "" {
		http.Error(w, "Connector ID required", http.StatusBadRequest)
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	h.logger.Info("connector deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Test handles POST /api/connectors/{id}/test.
func (h *ConnectorHandler) Test(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/connectors/")
	ok, message, err := h.service.TestConnection(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": ok, "message": message})
}

type SearchRequest struct {
	Query      string  `json:"query"`
	SearchType string  `json:"search_type"`
	MaxResults int     `json:"max_results"`
	Start      int     `json:"start"`
	RecordType string  `json:"record_type"`
	Platform   string  `json:"platform"`
	FromDate   string  `json:"from_date"`
	ToDate     string  `json:"to_date"`
	CompareTo  string  `json:"compare_to"`
	Threshold  float64 `json:"threshold"`
}

// Search handles POST /api/connectors/{id}/search.
func (h *ConnectorHandler) Search(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/connectors/")

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Search(r.Context(), id, req.Query, connectors.SearchOptions{
		SearchType: req.SearchType,
		MaxResults: req.MaxResults,
		Start:      req.Start,
		RecordType: req.RecordType,
		Platform:   req.Platform,
		FromDate:   req.FromDate,
		ToDate:     req.ToDate,
		CompareTo:  req.CompareTo,
		Threshold:  req.Threshold,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Requests handles GET /api/connectors/{id}/requests.
func (h *ConnectorHandler) Requests(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/connectors/")

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := h.requests.ListByConnector(r.Context(), id, limit)
	if err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": records, "count": len(records)})
}

type ExecuteRequest struct {
	ConnectorID string            `json:"connector_id"`
	Endpoint    string            `json:"endpoint"`
	Method      string            `json:"method"`
	Params      map[string]string `json:"params"`
	Headers     map[string]string `json:"headers"`
	Body        string            `json:"body"`
}

// Execute handles POST /api/requests/execute.
func (h *ConnectorHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ConnectorID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "connector_id is required"})
		return
	}

	record, err := h.service.Execute(r.Context(), connectors.ExecuteInput{
		ConnectorID: req.ConnectorID,
		Endpoint:    req.Endpoint,
		Method:      req.Method,
		Params:      req.Params,
		Headers:     req.Headers,
		Body:        req.Body,
	})
	if err != nil {
		// The audit record, when one was written, still carries the failure.
		if record != nil {
			writeJSON(w, http.StatusOK, record)
			return
		}
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
