package api

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/google/uuid"

	"github.com/baykus/baykus/internal/database"
	"github.com/baykus/baykus/internal/models"
)

// AssetHandler serves asset CRUD and the relationship edges between assets.
type AssetHandler struct {
	repo          *database.AssetRepository
	relationships *database.RelationshipRepository
	logger        *slog.Logger
}

func NewAssetHandler(repo *database.AssetRepository, relationships *database.RelationshipRepository, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{repo: repo, relationships: relationships, logger: logger}
}

// Create handles POST /api/assets.
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var asset models.Asset
	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if asset.TargetID == "" || asset.AssetType == "" || asset.Value == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "target_id, asset_type and value are required"})
		return
	}

	asset.ID = uuid.New().String()
	if err := h.repo.Create(r.Context(), &asset); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}

	h.logger.Info("asset created", "id", asset.ID, "target_id", asset.TargetID, "type", asset.AssetType)
	writeJSON(w, http.StatusCreated, asset)
}

// Get handles GET /api/assets/{id}.
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/assets/")
	asset, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

// Update handles PUT /api/assets/{id}.
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/assets/")

	var asset models.Asset
	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	asset.ID = id
	if asset.AssetType == "" || asset.Value == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "asset_type and value are required"})
		return
	}

	if err := h.repo.Update(r.Context(), &asset); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

// Delete handles DELETE /api/assets/{id}.
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/assets/")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Relationships handles GET /api/assets/{id}/relationships, returning edges
// where the asset is either end.
func (h *AssetHandler) Relationships(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/assets/")
	rels, err := h.relationships.ListByAsset(r.Context(), id)
	if err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"relationships": rels, "count": len(rels)})
}

// CreateRelationship handles POST /api/relationships.
func (h *AssetHandler) CreateRelationship(w http.ResponseWriter, r *http.Request) {
	var rel models.Relationship
	if err := json.NewDecoder(r.Body).Decode(&rel); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if rel.SourceAssetID == "" || rel.TargetAssetID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "source_asset_id and target_asset_id are required"})
		return
	}
	if rel.SourceAssetID == rel.TargetAssetID {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "an asset cannot relate to itself"})
		return
	}
	if rel.Type == "" {
		rel.Type = models.RelationshipAssociated
	}

	rel.ID = uuid.New().String()
	if err := h.relationships.Create(r.Context(), &rel); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, rel)
}

// DeleteRelationship handles DELETE /api/relationships/{id}.
func (h *AssetHandler) DeleteRelationship(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/relationships/")
	if err := h.relationships.Delete(r.Context(), id); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
