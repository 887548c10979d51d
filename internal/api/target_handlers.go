package api

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/google/uuid"

	"github.com/baykus/baykus/internal/database"
	"github.com/baykus/baykus/internal/models"
)

// TargetHandler serves investigation target CRUD.
type TargetHandler struct {
	repo   *database.TargetRepository
	assets *database.AssetRepository
	logger *slog.Logger
}

func NewTargetHandler(repo *database.TargetRepository, assets *database.AssetRepository, logger *slog.Logger) *TargetHandler {
	return &TargetHandler{repo: repo, assets: assets, logger: logger}
}

// List handles GET /api/targets.
func (h *TargetHandler) List(w http.ResponseWriter, r *http.Request) {
	targets, err := h.repo.List(r.Context())
	if err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"targets": targets, "count": len(targets)})
}

// Create handles POST /api/targets.
func (h *TargetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var target models.Target
	if err := json.NewDecoder(r.Body).Decode(&target); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if target.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "target name is required"})
		return
	}
	if target.Type == "" {
		target.Type = models.TargetTypeOther
	}

	target.ID = uuid.New().String()
	target.IsActive = true
	if err := h.repo.Create(r.Context(), &target); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}

	h.logger.Info("target created", "id", target.ID, "name", target.Name)
	writeJSON(w, http.StatusCreated, target)
}

// Get handles GET /api/targets/{id}.
func (h *TargetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/targets/")
	target, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, target)
}

// Update handles PUT /api/targets/{id}.
func (h *TargetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/targets/")

	var target models.Target
	if err := json.NewDecoder(r.Body).Decode(&target); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	target.ID = id
	if target.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "target name is required"})
		return
	}

	if err := h.repo.Update(r.Context(), &target); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, target)
}

// Delete handles DELETE /api/targets/{id}. Assets, alerts and reports for
// the target cascade with it.
func (h *TargetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/targets/")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	h.logger.Info("target deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Assets handles GET /api/targets/{id}/assets.
func (h *TargetHandler) Assets(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/targets/")
	assets, err := h.assets.ListByTarget(r.Context(), id)
	if err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assets": assets, "count": len(assets)})
}
