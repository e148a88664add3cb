package httpapi

import (
	"net/http"
)

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListHistory")
	defer span.End()

	records, err := h.historyService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list history failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]historySummaryDTO, 0, len(records))
	for _, rec := range records {
		items = append(items, historySummaryToDTO(rec))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetHistoryMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHistoryMatch")
	defer span.End()

	rec, err := h.historyService.Get(ctx, r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rec)
}

// DeleteHistoryMatch removes an archived match. The shared admin secret
// travels in a header so it never lands in access logs.
func (h *Handler) DeleteHistoryMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteHistoryMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	if err := h.historyService.Delete(ctx, matchID, r.Header.Get("X-Admin-Secret")); err != nil {
		h.logger.WarnContext(ctx, "delete history match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"deleted": matchID})
}
