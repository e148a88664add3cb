package httpapi

import (
	"fmt"
	"net/http"
)

func (h *Handler) ExportSeasonSpreadsheet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportSeasonSpreadsheet")
	defer span.End()

	data, err := h.exportService.SeasonSpreadsheet(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "season export failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="vigontina-stagione.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) ExportMatchReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportMatchReport")
	defer span.End()

	matchID := r.PathValue("matchID")
	data, err := h.exportService.MatchReport(ctx, matchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "match report export failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="referto-%s.pdf"`, matchID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
