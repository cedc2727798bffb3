package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shortenerproject/shortener/internal/auth"
	"github.com/shortenerproject/shortener/internal/handler/dto"
	"github.com/shortenerproject/shortener/internal/service"
)

// LinkHandler handles HTTP requests for link operations. Every route
// acts on behalf of the user behind the request's API key.
type LinkHandler struct {
	svc      *service.LinkService
	validate *validator.Validate
	baseURL  string
	logger   *slog.Logger
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(svc *service.LinkService, baseURL string, logger *slog.Logger) *LinkHandler {
	return &LinkHandler{
		svc:      svc,
		validate: dto.NewValidator(),
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		logger:   logger,
	}
}

// Create handles POST /api/v1/links.
func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLinkRequest
	if !h.decode(w, r, &req) {
		return
	}

	link, err := h.svc.Create(r.Context(), service.CreateLinkInput{
		OwnerID:   auth.OwnerIDFromContext(r.Context()),
		OriginURL: req.OriginURL,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "link_created",
		slog.String("link_id", link.ID),
		slog.String("alias", link.Alias),
		slog.String("owner_id", link.OwnerID),
	)
	writeJSON(w, http.StatusCreated, dto.ToLinkResponse(link, h.baseURL))
}

// List handles GET /api/v1/links.
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.svc.ListByOwner(r.Context(), auth.OwnerIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToLinkListResponse(links, h.baseURL))
}

// Search handles GET /api/v1/links/search?alias=.
func (h *LinkHandler) Search(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("alias")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: dto.ErrorDetail{
			Code:    "VALIDATION_FAILED",
			Message: "Validation failed",
			Fields:  []dto.FieldError{{Field: "alias", Message: "this field is required"}},
		}})
		return
	}

	origin, err := h.svc.FindOriginURL(r.Context(), code, auth.OwnerIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OriginResponse{Alias: code, OriginURL: origin})
}

// Get handles GET /api/v1/links/{id}.
func (h *LinkHandler) Get(w http.ResponseWriter, r *http.Request) {
	link, err := h.svc.FindByIDAndOwner(r.Context(), chi.URLParam(r, "id"), auth.OwnerIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToLinkResponse(link, h.baseURL))
}

// Update handles PUT /api/v1/links/{id}.
func (h *LinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateLinkRequest
	if !h.decode(w, r, &req) {
		return
	}

	link, err := h.svc.Update(r.Context(), service.UpdateLinkInput{
		ID:        chi.URLParam(r, "id"),
		OwnerID:   auth.OwnerIDFromContext(r.Context()),
		OriginURL: req.OriginURL,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "link_updated",
		slog.String("link_id", link.ID),
		slog.String("alias", link.Alias),
	)
	writeJSON(w, http.StatusOK, dto.ToLinkResponse(link, h.baseURL))
}

// Delete handles DELETE /api/v1/links/{id}.
func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteByIDAndOwner(r.Context(), id, auth.OwnerIDFromContext(r.Context())); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "link_deleted", slog.String("link_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/v1/aliases/{alias}/stats.
func (h *LinkHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetStats(r.Context(), chi.URLParam(r, "alias"), auth.OwnerIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToStatsResponse(stats))
}

// decode reads and validates a JSON body, writing the 400 response itself
// when it fails.
func (h *LinkHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: dto.ErrorDetail{
			Code:    "VALIDATION_FAILED",
			Message: "Validation failed",
			Fields:  dto.FieldErrors(err),
		}})
		return false
	}
	return true
}
