package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/vigontina/matchtrack/internal/domain/event"
	"github.com/vigontina/matchtrack/internal/domain/match"
	"github.com/vigontina/matchtrack/internal/domain/timer"
	"github.com/vigontina/matchtrack/internal/platform/logging"
	"github.com/vigontina/matchtrack/internal/usecase"
)

type Handler struct {
	matchService   *usecase.MatchService
	historyService *usecase.HistoryService
	shareService   *usecase.ShareService
	exportService  *usecase.ExportService
	logger         *logging.Logger
	validator      *validator.Validate
	now            func() time.Time
}

func NewHandler(
	matchService *usecase.MatchService,
	historyService *usecase.HistoryService,
	shareService *usecase.ShareService,
	exportService *usecase.ExportService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:   matchService,
		historyService: historyService,
		shareService:   shareService,
		exportService:  exportService,
		logger:         logger,
		validator:      validator.New(),
		now:            time.Now,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type captainRequest struct {
	Number int    `json:"number" validate:"required,gt=0"`
	Name   string `json:"name" validate:"required"`
}

type createMatchRequest struct {
	Opponent         string          `json:"opponent" validate:"required"`
	Date             time.Time       `json:"date" validate:"required"`
	IsHome           bool            `json:"isHome"`
	Competition      string          `json:"competition" validate:"required"`
	MatchDay         *int            `json:"matchDay" validate:"omitempty,gt=0"`
	Coach            string          `json:"coach"`
	AssistantReferee string          `json:"assistantReferee"`
	TeamManager      string          `json:"teamManager"`
	Captain          *captainRequest `json:"captain"`
	NotCalled        []int           `json:"notCalled"`
	Roster           map[int]string  `json:"roster" validate:"required,min=1"`
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	var req createMatchRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.CreateMatchInput{
		Opponent:         req.Opponent,
		Date:             req.Date,
		IsHome:           req.IsHome,
		Competition:      req.Competition,
		MatchDay:         req.MatchDay,
		Coach:            req.Coach,
		AssistantReferee: req.AssistantReferee,
		TeamManager:      req.TeamManager,
		NotCalled:        req.NotCalled,
		Roster:           req.Roster,
	}
	if req.Captain != nil {
		input.Captain = &match.Captain{Number: req.Captain.Number, Name: req.Captain.Name}
	}

	m, err := h.matchService.Create(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchStateDTO{Match: m, Clock: clockToDTO(timer.State{}, h.now())})
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	m, clock, err := h.matchService.Get(ctx, r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchStateDTO{Match: m, Clock: clockToDTO(clock, h.now())})
}

func (h *Handler) GetMatchStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchStats")
	defer span.End()

	m, _, err := h.matchService.Get(ctx, r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statsToDTO(m))
}

type checklistItemRequest struct {
	Label   string `json:"label" validate:"required"`
	Checked bool   `json:"checked"`
}

type setMatchReportRequest struct {
	Category      string                 `json:"category" validate:"required"`
	Referee       string                 `json:"referee"`
	HomeManager   string                 `json:"homeManager"`
	AwayManager   string                 `json:"awayManager"`
	Checklist     []checklistItemRequest `json:"checklist" validate:"dive"`
	Notes         string                 `json:"notes"`
	HomeSignature []byte                 `json:"homeSignature"`
	AwaySignature []byte                 `json:"awaySignature"`
}

func (h *Handler) SetMatchReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetMatchReport")
	defer span.End()

	var req setMatchReportRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	details := match.ReportDetails{
		Category:      req.Category,
		Referee:       req.Referee,
		HomeManager:   req.HomeManager,
		AwayManager:   req.AwayManager,
		Notes:         req.Notes,
		HomeSignature: req.HomeSignature,
		AwaySignature: req.AwaySignature,
	}
	for _, item := range req.Checklist {
		details.Checklist = append(details.Checklist, match.ChecklistItem{Label: item.Label, Checked: item.Checked})
	}

	m, err := h.matchService.SetReportDetails(ctx, r.PathValue("matchID"), details)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, m)
}

func (h *Handler) SaveMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveMatch")
	defer span.End()

	rec, err := h.matchService.SaveToHistory(ctx, r.PathValue("matchID"))
	if err != nil {
		h.logger.ErrorContext(ctx, "save match failed", "match_id", r.PathValue("matchID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, historySummaryToDTO(rec))
}

type setLineupRequest struct {
	Players []int `json:"players" validate:"required,len=9"`
}

func (h *Handler) SetLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetLineup")
	defer span.End()

	periodIdx, err := pathIndex(r, "periodIdx")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setLineupRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.matchService.SetLineup(ctx, r.PathValue("matchID"), periodIdx, req.Players)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, m)
}

type recordEventRequest struct {
	Type   string `json:"type" validate:"required"`
	Minute *int   `json:"minute" validate:"omitempty,gte=0"`
	Player int    `json:"player" validate:"omitempty,gt=0"`
	Assist *int   `json:"assist" validate:"omitempty,gt=0"`
}

func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordEvent")
	defer span.End()

	periodIdx, err := pathIndex(r, "periodIdx")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req recordEventRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.matchService.RecordEvent(ctx, r.PathValue("matchID"), periodIdx, usecase.RecordEventInput{
		Kind:   event.Kind(req.Type),
		Minute: req.Minute,
		Player: req.Player,
		Assist: req.Assist,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, m)
}

type voidEventRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) VoidEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.VoidEvent")
	defer span.End()

	periodIdx, err := pathIndex(r, "periodIdx")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	eventIdx, err := pathIndex(r, "eventIdx")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req voidEventRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.matchService.VoidEvent(ctx, r.PathValue("matchID"), periodIdx, eventIdx, req.Reason)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, m)
}

type undoLastEventRequest struct {
	Player int `json:"player" validate:"required,gt=0"`
}

func (h *Handler) UndoLastEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UndoLastEvent")
	defer span.End()

	var req undoLastEventRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.matchService.UndoLastScoringEvent(ctx, r.PathValue("matchID"), req.Player)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, m)
}

type substitutionRequest struct {
	PlayerOut int  `json:"playerOut" validate:"required,gt=0"`
	PlayerIn  int  `json:"playerIn" validate:"required,gt=0"`
	Minute    *int `json:"minute" validate:"omitempty,gte=0"`
}

func (h *Handler) Substitute(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Substitute")
	defer span.End()

	periodIdx, err := pathIndex(r, "periodIdx")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req substitutionRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.matchService.Substitute(ctx, r.PathValue("matchID"), periodIdx, usecase.SubstitutionInput{
		PlayerOut: req.PlayerOut,
		PlayerIn:  req.PlayerIn,
		Minute:    req.Minute,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, m)
}

type adjustScoreRequest struct {
	Side  string `json:"side" validate:"required,oneof=vigontina opponent"`
	Delta int    `json:"delta" validate:"required,oneof=-1 1"`
}

func (h *Handler) AdjustScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdjustScore")
	defer span.End()

	periodIdx, err := pathIndex(r, "periodIdx")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req adjustScoreRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.matchService.AdjustScore(ctx, r.PathValue("matchID"), periodIdx, event.Side(req.Side), req.Delta)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, m)
}

func (h *Handler) FinishPeriod(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinishPeriod")
	defer span.End()

	periodIdx, err := pathIndex(r, "periodIdx")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.matchService.FinishPeriod(ctx, r.PathValue("matchID"), periodIdx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, m)
}

func (h *Handler) ReopenPeriod(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReopenPeriod")
	defer span.End()

	periodIdx, err := pathIndex(r, "periodIdx")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.matchService.ReopenPeriod(ctx, r.PathValue("matchID"), periodIdx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, m)
}

func (h *Handler) StartClock(w http.ResponseWriter, r *http.Request) {
	h.clockOp(w, r, "httpapi.Handler.StartClock", h.matchService.StartClock)
}

func (h *Handler) PauseClock(w http.ResponseWriter, r *http.Request) {
	h.clockOp(w, r, "httpapi.Handler.PauseClock", h.matchService.PauseClock)
}

func (h *Handler) ResetClock(w http.ResponseWriter, r *http.Request) {
	h.clockOp(w, r, "httpapi.Handler.ResetClock", h.matchService.ResetClock)
}

func (h *Handler) clockOp(w http.ResponseWriter, r *http.Request, spanName string, op func(context.Context, string) (timer.State, error)) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	clock, err := op(ctx, r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, clockToDTO(clock, h.now()))
}

func (h *Handler) decodeAndValidate(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid json body: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.StructCtx(ctx, dst); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func pathIndex(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
