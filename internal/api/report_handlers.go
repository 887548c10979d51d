package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/baykus/baykus/internal/database"
	"github.com/baykus/baykus/internal/enrichment"
	"github.com/baykus/baykus/internal/models"
)

// ReportHandler generates and serves target reports. Generation pulls the
// target's assets and asks the summarizer for a narrative which becomes the
// report content.
type ReportHandler struct {
	repo       *database.ReportRepository
	targets    *database.TargetRepository
	assets     *database.AssetRepository
	summarizer enrichment.Summarizer
	logger     *slog.Logger
}

func NewReportHandler(repo *database.ReportRepository, targets *database.TargetRepository, assets *database.AssetRepository, summarizer enrichment.Summarizer, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{repo: repo, targets: targets, assets: assets, summarizer: summarizer, logger: logger}
}

type generateReportRequest struct {
	Name   string              `json:"name"`
	Type   models.ReportType   `json:"report_type"`
	Format models.ReportFormat `json:"format_type"`
}

// Generate handles POST /api/targets/{id}/reports.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	targetID := pathID(r.URL.Path, "/api/targets/")

	var req generateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Type == "" {
		req.Type = models.ReportTypeSummary
	}
	if req.Format == "" {
		req.Format = models.ReportFormatJSON
	}

	target, err := h.targets.Get(r.Context(), targetID)
	if err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	assets, err := h.assets.ListByTarget(r.Context(), targetID)
	if err != nil {
		writeRepoError(w, h.logger, err)
		return
	}

	summary, err := h.summarizer.Summarize(r.Context(), *target, assets)
	if err != nil {
		h.logger.Error("report summarization failed", "target_id", targetID, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "summary generation failed"})
		return
	}

	content, err := renderReport(req.Format, target, assets, summary)
	if err != nil {
		h.logger.Error("report rendering failed", "target_id", targetID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("%s %s report", target.Name, req.Type)
	}

	report := &models.Report{
		ID:       uuid.New().String(),
		TargetID: targetID,
		Name:     name,
		Type:     req.Type,
		Format:   req.Format,
		Content:  content,
	}
	if err := h.repo.Create(r.Context(), report); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}

	h.logger.Info("report generated", "id", report.ID, "target_id", targetID, "type", req.Type)
	writeJSON(w, http.StatusCreated, report)
}

// ListByTarget handles GET /api/targets/{id}/reports.
func (h *ReportHandler) ListByTarget(w http.ResponseWriter, r *http.Request) {
	targetID := pathID(r.URL.Path, "/api/targets/")
	reports, err := h.repo.ListByTarget(r.Context(), targetID)
	if err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports, "count": len(reports)})
}

// Get handles GET /api/reports/{id}.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/reports/")
	report, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func renderReport(format models.ReportFormat, target *models.Target, assets []models.Asset, summary string) (string, error) {
	switch format {
	case models.ReportFormatHTML:
		return fmt.Sprintf("<h1>%s</h1>\n<p>%s</p>\n<p>%d assets on record.</p>\n",
			target.Name, summary, len(assets)), nil
	default:
		payload := map[string]any{
			"target":       target,
			"summary":      summary,
			"assets":       assets,
			"asset_count":  len(assets),
			"generated_at": time.Now().UTC(),
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("encoding report content: %w", err)
		}
		return string(encoded), nil
	}
}
