package httpapi

import (
	"net/http"

	"github.com/vigontina/matchtrack/internal/domain/match"
	"github.com/vigontina/matchtrack/internal/domain/share"
	"github.com/vigontina/matchtrack/internal/domain/timer"
	"github.com/vigontina/matchtrack/internal/usecase"
)

type startShareRequest struct {
	MatchID    string `json:"matchId" validate:"required"`
	Passphrase string `json:"passphrase" validate:"required"`
}

func (h *Handler) StartShare(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartShare")
	defer span.End()

	var req startShareRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.shareService.Start(ctx, req.MatchID, req.Passphrase)
	if err != nil {
		h.logger.WarnContext(ctx, "start share failed", "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, shareSessionToDTO(session))
}

type joinShareRequest struct {
	Role       string `json:"role" validate:"required,oneof=organizer collaborator viewer"`
	Passphrase string `json:"passphrase"`
	Name       string `json:"name"`
}

func (h *Handler) JoinShare(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinShare")
	defer span.End()

	var req joinShareRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.shareService.Join(ctx, usecase.JoinShareInput{
		Code:       r.PathValue("code"),
		Role:       share.Role(req.Role),
		Passphrase: req.Passphrase,
		Name:       req.Name,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, shareSessionToDTO(session))
}

func (h *Handler) ListShareParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListShareParticipants")
	defer span.End()

	participants, err := h.shareService.Participants(ctx, r.PathValue("code"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, participants)
}

type updateShareStateRequest struct {
	Role  string      `json:"role" validate:"required,oneof=organizer collaborator viewer"`
	Match match.Match `json:"match" validate:"required"`
	Clock timer.State `json:"clock"`
}

func (h *Handler) UpdateShareState(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateShareState")
	defer span.End()

	var req updateShareStateRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.shareService.UpdateState(ctx, usecase.UpdateShareInput{
		Code:  r.PathValue("code"),
		Role:  share.Role(req.Role),
		Match: req.Match,
		Clock: req.Clock,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, shareSessionToDTO(session))
}

func (h *Handler) EndShare(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EndShare")
	defer span.End()

	code := r.PathValue("code")
	role := share.Role(r.URL.Query().Get("role"))
	if err := h.shareService.End(ctx, code, role); err != nil {
		h.logger.WarnContext(ctx, "end share failed", "code", code, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"ended": code})
}
