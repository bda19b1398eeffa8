package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Elistein70/simcha-manager/models"
	"github.com/Elistein70/simcha-manager/services/extraction"
	"github.com/Elistein70/simcha-manager/services/schedule"
)

// maxAnalyzeBody bounds the uploaded invitation image (base64-encoded).
const maxAnalyzeBody = 15 << 20 // 15 MB

// AnalyzeHandler runs invitation images through the extraction model and
// returns a normalized draft for review.
type AnalyzeHandler struct {
	analyzer extraction.Analyzer
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(analyzer extraction.Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

// AnalyzeRequest is the analyze request body.
type AnalyzeRequest struct {
	Image    string `json:"image"`              // base64-encoded image bytes
	MimeType string `json:"mimeType,omitempty"` // defaults to image/jpeg
}

// AnalyzeResponse carries the normalized draft plus the raw model output so
// the review UI can show what was actually extracted.
type AnalyzeResponse struct {
	Draft   models.EventDraft `json:"draft"`
	Summary string            `json:"summary,omitempty"`
	Raw     map[string]any    `json:"raw"`
}

// Analyze extracts simcha details from an uploaded invitation image.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAnalyzeBody)

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}

	raw, err := h.analyzer.AnalyzeInvitation(r.Context(), req.Image, req.MimeType)
	if err != nil {
		if errors.Is(err, extraction.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, "extraction model not configured")
			return
		}
		log.Printf("[analyze] extraction failed: %v", err)
		writeError(w, http.StatusBadGateway, "invitation analysis failed")
		return
	}

	draft := schedule.Normalize(raw)

	summary, _ := raw["summary"].(string)
	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Draft:   draft,
		Summary: summary,
		Raw:     raw,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
