package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shortenerproject/shortener/internal/service"
)

// RedirectHandler handles public redirect requests.
type RedirectHandler struct {
	svc    *service.LinkService
	logger *slog.Logger
}

// NewRedirectHandler creates a new RedirectHandler.
func NewRedirectHandler(svc *service.LinkService, logger *slog.Logger) *RedirectHandler {
	return &RedirectHandler{svc: svc, logger: logger}
}

// Redirect handles GET /{alias}. Each successful call counts one visit.
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "alias")
	start := time.Now()

	origin, err := h.svc.ResolveAndRedirect(r.Context(), code)
	durationMs := float64(time.Since(start).Microseconds()) / 1000

	if err != nil {
		if errors.Is(err, service.ErrAliasNotFound) {
			h.logger.InfoContext(r.Context(), "redirect_not_found",
				slog.String("alias", code),
				slog.Float64("duration_ms", durationMs),
			)
			writeError(w, http.StatusNotFound, "LINK_NOT_FOUND", "Link not found")
			return
		}
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "redirect_success",
		slog.String("alias", code),
		slog.Float64("duration_ms", durationMs),
	)
	http.Redirect(w, r, origin, http.StatusFound)
}
