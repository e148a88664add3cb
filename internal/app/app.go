package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/vigontina/matchtrack/internal/config"
	"github.com/vigontina/matchtrack/internal/domain/history"
	"github.com/vigontina/matchtrack/internal/export"
	"github.com/vigontina/matchtrack/internal/infrastructure/notify"
	"github.com/vigontina/matchtrack/internal/infrastructure/repository/memory"
	"github.com/vigontina/matchtrack/internal/infrastructure/repository/postgres"
	"github.com/vigontina/matchtrack/internal/interfaces/httpapi"
	idgen "github.com/vigontina/matchtrack/internal/platform/id"
	"github.com/vigontina/matchtrack/internal/platform/logging"
	"github.com/vigontina/matchtrack/internal/usecase"
)

// App bundles the HTTP server with the resources that outlive a single
// request and need an ordered shutdown.
type App struct {
	Server *http.Server

	hub    *httpapi.ShareHub
	db     *sqlx.DB
	logger *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	matchRepo := memory.NewMatchRepository()
	shareRepo := memory.NewShareRepository()

	var db *sqlx.DB
	var historyRepo history.Repository
	if cfg.DBEnabled {
		var err error
		db, err = openDatabase(cfg)
		if err != nil {
			return nil, err
		}
		historyRepo = postgres.NewHistoryRepository(db)
	} else {
		logger.Info("database disabled, match history is kept in memory")
		historyRepo = memory.NewHistoryRepository()
	}

	closeOnErr := func() {
		if db != nil {
			_ = db.Close()
		}
	}

	var notifier usecase.MatchNotifier = usecase.NopMatchNotifier{}
	if cfg.WebhookEnabled {
		publisher, err := notify.NewWebhookNotifier(notify.WebhookConfig{
			URL:              cfg.WebhookURL,
			Timeout:          cfg.WebhookTimeout,
			FailureThreshold: cfg.WebhookCircuitFailureCount,
			OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMaxReq,
		}, logger)
		if err != nil {
			closeOnErr()
			return nil, err
		}
		notifier = notify.NewMatchEvents(publisher)
	} else {
		logger.Info("webhook notifications disabled", "reason", "WEBHOOK_ENABLED=false")
	}

	ids := idgen.NewRandomGenerator()

	matchSvc := usecase.NewMatchService(matchRepo, historyRepo, ids, notifier, cfg.PeriodLength, logger)
	historySvc := usecase.NewHistoryService(historyRepo, cfg.AdminSecret, logger)
	shareSvc := usecase.NewShareService(shareRepo, matchRepo, ids, cfg.OrganizerPassphrase, logger)
	exportSvc := usecase.NewExportService(historyRepo, matchRepo, export.NewSpreadsheet(), export.NewReport(), logger)

	handler := httpapi.NewHandler(matchSvc, historySvc, shareSvc, exportSvc, logger)

	hub, err := httpapi.NewShareHub(shareSvc, cfg.ShareBroadcastWorkers, logger)
	if err != nil {
		closeOnErr()
		return nil, fmt.Errorf("build share hub: %w", err)
	}
	shareSvc.SetBroadcaster(hub)

	router := httpapi.NewRouter(handler, hub, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		hub.Close()
		closeOnErr()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server: server,
		hub:    hub,
		db:     db,
		logger: logger,
	}, nil
}

// Shutdown stops accepting requests, drops websocket subscribers, and closes
// the database pool. The first error wins; later steps still run.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Server.Shutdown(ctx)

	a.hub.Close()

	if a.db != nil {
		if cerr := a.db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	return err
}
