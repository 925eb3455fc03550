package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	delivery "github.com/user/esg-discovery/internal/delivery/http"
	"github.com/user/esg-discovery/internal/delivery/http/response"
	"github.com/user/esg-discovery/internal/entity"
	"github.com/user/esg-discovery/internal/usecase"
)

type Handler struct {
	manager usecase.DiscoveryManager
	library usecase.Library
}

func NewHandler(manager usecase.DiscoveryManager, library usecase.Library) *Handler {
	return &Handler{manager: manager, library: library}
}

func (h *Handler) HandleSubmitDiscovery(w http.ResponseWriter, r *http.Request) {
	var req delivery.SubmitDiscoveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Organization) == "" {
		h.writeJSONError(w, "organization is required", http.StatusBadRequest)
		return
	}
	if req.EntryURL != "" {
		if _, err := url.ParseRequestURI(req.EntryURL); err != nil {
			h.writeJSONError(w, "Invalid entry_url format", http.StatusBadRequest)
			return
		}
	}

	query := entity.OrganizationQuery{
		Name:     strings.TrimSpace(req.Organization),
		Ticker:   strings.TrimSpace(req.Ticker),
		EntryURL: req.EntryURL,
	}
	if err := h.manager.Submit(r.Context(), query, req.Force); err != nil {
		if errors.Is(err, usecase.ErrRecentlyDiscovered) {
			h.writeJSONError(w, err.Error(), http.StatusConflict)
			return
		}
		slog.Error("failed to submit discovery job", "organization", query.Name, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusAccepted, response.SubmitDiscoveryResponse{
		Status:       "success",
		Message:      "Organization submitted for discovery",
		Organization: query.Name,
	})
}

func (h *Handler) HandleDiscoveryStatus(w http.ResponseWriter, r *http.Request) {
	organization := r.URL.Query().Get("organization")
	if organization == "" {
		h.writeJSONError(w, "organization query parameter is required", http.StatusBadRequest)
		return
	}

	status, err := h.manager.Status(r.Context(), organization)
	if err != nil {
		slog.Error("failed to get job status", "organization", organization, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if status == "" {
		h.writeJSONError(w, "No discovery job known for the given organization", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, response.JobStatusResponse{
		Organization: organization,
		Status:       status,
	})
}

func (h *Handler) HandleResults(w http.ResponseWriter, r *http.Request) {
	organization := r.URL.Query().Get("organization")
	if organization == "" {
		h.writeJSONError(w, "organization query parameter is required", http.StatusBadRequest)
		return
	}

	docs, err := h.manager.Results(r.Context(), organization)
	if err != nil {
		slog.Error("failed to load results", "organization", organization, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, toDocumentList(docs))
}

func (h *Handler) HandleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.library.Documents(r.Context())
	if err != nil {
		slog.Error("failed to list documents", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, toDocumentList(docs))
}

func (h *Handler) HandleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSONError(w, "url query parameter is required", http.StatusBadRequest)
		return
	}
	if err := h.library.DeleteDocument(r.Context(), rawURL); err != nil {
		slog.Error("failed to delete document", "url", rawURL, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) HandleUpsertHub(w http.ResponseWriter, r *http.Request) {
	var req delivery.UpsertHubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Organization) == "" {
		h.writeJSONError(w, "organization is required", http.StatusBadRequest)
		return
	}
	if _, err := url.ParseRequestURI(req.URL); err != nil {
		h.writeJSONError(w, "Invalid url format", http.StatusBadRequest)
		return
	}

	if err := h.library.UpsertHubOverride(r.Context(), req.Organization, req.URL); err != nil {
		slog.Error("failed to upsert hub override", "organization", req.Organization, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toDocumentList(docs []entity.VerifiedDocument) response.DocumentListResponse {
	out := response.DocumentListResponse{Documents: make([]response.DocumentResponse, 0, len(docs))}
	for _, d := range docs {
		out.Documents = append(out.Documents, response.DocumentResponse{
			Organization:   d.Organization,
			Title:          d.Title,
			URL:            d.URL,
			Summary:        d.Summary,
			SourceStrategy: d.SourceStrategy,
			InferredYear:   d.InferredYear,
			DiscoveredAt:   d.DiscoveredAt,
		})
	}
	return out
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
