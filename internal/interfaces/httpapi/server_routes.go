package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/matches", handler.CreateMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/stats", handler.GetMatchStats)
	mux.HandleFunc("PUT /v1/matches/{matchID}/report", handler.SetMatchReport)
	mux.HandleFunc("POST /v1/matches/{matchID}/save", handler.SaveMatch)

	mux.HandleFunc("PUT /v1/matches/{matchID}/periods/{periodIdx}/lineup", handler.SetLineup)
	mux.HandleFunc("POST /v1/matches/{matchID}/periods/{periodIdx}/events", handler.RecordEvent)
	mux.HandleFunc("POST /v1/matches/{matchID}/periods/{periodIdx}/events/{eventIdx}/void", handler.VoidEvent)
	mux.HandleFunc("POST /v1/matches/{matchID}/events/undo-last", handler.UndoLastEvent)
	mux.HandleFunc("POST /v1/matches/{matchID}/periods/{periodIdx}/substitutions", handler.Substitute)
	mux.HandleFunc("POST /v1/matches/{matchID}/periods/{periodIdx}/score-adjustments", handler.AdjustScore)
	mux.HandleFunc("POST /v1/matches/{matchID}/periods/{periodIdx}/finish", handler.FinishPeriod)
	mux.HandleFunc("POST /v1/matches/{matchID}/periods/{periodIdx}/reopen", handler.ReopenPeriod)

	mux.HandleFunc("POST /v1/matches/{matchID}/clock/start", handler.StartClock)
	mux.HandleFunc("POST /v1/matches/{matchID}/clock/pause", handler.PauseClock)
	mux.HandleFunc("POST /v1/matches/{matchID}/clock/reset", handler.ResetClock)
}

func registerHistoryRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/history", handler.ListHistory)
	mux.HandleFunc("GET /v1/history/{matchID}", handler.GetHistoryMatch)
	mux.HandleFunc("DELETE /v1/history/{matchID}", handler.DeleteHistoryMatch)
}

func registerExportRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/exports/season.xlsx", handler.ExportSeasonSpreadsheet)
	mux.HandleFunc("GET /v1/matches/{matchID}/report.pdf", handler.ExportMatchReport)
}

func registerShareRoutes(mux *http.ServeMux, handler *Handler, hub *ShareHub) {
	mux.HandleFunc("POST /v1/share", handler.StartShare)
	mux.HandleFunc("POST /v1/share/{code}/join", handler.JoinShare)
	mux.HandleFunc("GET /v1/share/{code}/participants", handler.ListShareParticipants)
	mux.HandleFunc("PUT /v1/share/{code}/state", handler.UpdateShareState)
	mux.HandleFunc("DELETE /v1/share/{code}", handler.EndShare)
	mux.HandleFunc("GET /v1/share/{code}/ws", hub.ServeWS)
}
