package api

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/google/uuid"

	"github.com/baykus/baykus/internal/database"
	"github.com/baykus/baykus/internal/models"
)

// AlertHandler serves alert CRUD and triage transitions.
type AlertHandler struct {
	repo   *database.AlertRepository
	logger *slog.Logger
}

func NewAlertHandler(repo *database.AlertRepository, logger *slog.Logger) *AlertHandler {
	return &AlertHandler{repo: repo, logger: logger}
}

// ListByTarget handles GET /api/targets/{id}/alerts with optional ?status=.
func (h *AlertHandler) ListByTarget(w http.ResponseWriter, r *http.Request) {
	targetID := pathID(r.URL.Path, "/api/targets/")
	status := models.AlertStatus(r.URL.Query().Get("status"))

	alerts, err := h.repo.ListByTarget(r.Context(), targetID, status)
	if err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts, "count": len(alerts)})
}

// Create handles POST /api/alerts.
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var alert models.Alert
	if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if alert.TargetID == "" || alert.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "target_id and title are required"})
		return
	}
	if alert.Severity == "" {
		alert.Severity = models.SeverityMedium
	}

	alert.ID = uuid.New().String()
	if err := h.repo.Create(r.Context(), &alert); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}

	h.logger.Info("alert created", "id", alert.ID, "target_id", alert.TargetID, "severity", alert.Severity)
	writeJSON(w, http.StatusCreated, alert)
}

// Get handles GET /api/alerts/{id}.
func (h *AlertHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/alerts/")
	alert, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

// Acknowledge handles POST /api/alerts/{id}/acknowledge.
func (h *AlertHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.AlertStatusAcknowledged)
}

// Resolve handles POST /api/alerts/{id}/resolve. An optional body field
// false_positive selects that terminal state instead.
func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FalsePositive bool `json:"false_positive"`
	}
	// Empty body means a plain resolve.
	json.NewDecoder(r.Body).Decode(&req)

	status := models.AlertStatusResolved
	if req.FalsePositive {
		status = models.AlertStatusFalsePositive
	}
	h.transition(w, r, status)
}

func (h *AlertHandler) transition(w http.ResponseWriter, r *http.Request, status models.AlertStatus) {
	id := pathID(r.URL.Path, "/api/alerts/")
	if err := h.repo.UpdateStatus(r.Context(), id, status); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}

	alert, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

// Delete handles DELETE /api/alerts/{id}.
func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/alerts/")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
