package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	campaignservice "adbroker/contexts/deal-brokerage/campaign-service"
	campaignpg "adbroker/contexts/deal-brokerage/campaign-service/adapters/postgres"
	campaignports "adbroker/contexts/deal-brokerage/campaign-service/ports"
	channelregistry "adbroker/contexts/deal-brokerage/channel-registry"
	channelpg "adbroker/contexts/deal-brokerage/channel-registry/adapters/postgres"
	dealservice "adbroker/contexts/deal-brokerage/deal-service"
	dealpg "adbroker/contexts/deal-brokerage/deal-service/adapters/postgres"
	telegramadapter "adbroker/contexts/deal-brokerage/deal-service/adapters/telegram"
	tonadapter "adbroker/contexts/deal-brokerage/deal-service/adapters/ton"
	dealcommands "adbroker/contexts/deal-brokerage/deal-service/application/commands"
	userdirectory "adbroker/contexts/identity-access/user-directory"
	userpg "adbroker/contexts/identity-access/user-directory/adapters/postgres"
	"adbroker/internal/platform/config"
	"adbroker/internal/platform/db"
	"adbroker/internal/platform/httpserver"
	"adbroker/internal/platform/metrics"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	database *db.Database
	logger   *slog.Logger
}

type WorkerApp struct {
	database     *db.Database
	deals        dealservice.Module
	cfg          config.Config
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.DatabaseDSN) == "" {
		return nil, errors.New("DATABASE_DSN is required")
	}

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	dealModule := buildDealModule(database, cfg, logger)

	campaignModule := campaignservice.NewModule(campaignservice.Dependencies{
		Repository: campaignpg.NewRepository(database.DB, logger),
		Intake:     dealIntakeAdapter{create: dealModule.CreateDeal},
		Clock:      campaignpg.SystemClock{},
		IDGen:      campaignpg.UUIDGenerator{},
		Logger:     logger,
	})

	channelModule := channelregistry.NewModule(channelregistry.Dependencies{
		Repository: channelpg.NewRepository(database.DB, logger),
		Logger:     logger,
	})

	userModule := userdirectory.NewModule(userdirectory.Dependencies{
		Repository: userpg.NewRepository(database.DB, logger),
		Clock:      userpg.SystemClock{},
		IDGen:      userpg.UUIDGenerator{},
		Logger:     logger,
	})

	server := httpserver.New(
		dealModule,
		campaignModule,
		channelModule,
		userModule,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		database: database,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.DatabaseDSN) == "" {
		return nil, errors.New("DATABASE_DSN is required")
	}

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	return &WorkerApp{
		database:     database,
		deals:        buildDealModule(database, cfg, logger),
		cfg:          cfg,
		pollInterval: cfg.SweepInterval,
		logger:       logger,
	}, nil
}

func buildDealModule(database *db.Database, cfg config.Config, logger *slog.Logger) dealservice.Module {
	repo := dealpg.NewRepository(database.DB, logger)
	telegram := telegramadapter.NewPublisher(cfg.TelegramBotToken, logger)
	return dealservice.NewModule(dealservice.Dependencies{
		Repository:         repo,
		Channels:           repo,
		Escrow:             tonadapter.NewGateway(cfg.TonAPIBaseURL, cfg.TonAPIKey, logger),
		Publisher:          telegram,
		Verifier:           telegramadapter.NewPostVerifier(logger),
		Clock:              dealpg.SystemClock{},
		IDGen:              dealpg.UUIDGenerator{},
		SweepBatchSize:     cfg.SweepBatchSize,
		VerificationWindow: cfg.VerificationWindow,
		Logger:             logger,
	})
}

// dealIntakeAdapter bridges the campaign context's DealIntake port onto the
// deal engine's intake use case without an import cycle between contexts.
type dealIntakeAdapter struct {
	create dealcommands.CreateDealUseCase
}

func (a dealIntakeAdapter) CreateDeal(ctx context.Context, request campaignports.DealIntakeRequest) (string, error) {
	deal, err := a.create.ExecuteFromApplication(ctx, dealcommands.CreateFromApplicationCommand{
		ApplicantID:   request.AdvertiserID,
		ChannelID:     request.ChannelID,
		CampaignID:    request.CampaignID,
		ApplicationID: request.ApplicationID,
		PriceTON:      request.PriceTON,
	})
	if err != nil {
		return "", err
	}
	return deal.DealID, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.database != nil {
		return a.database.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.cfg.EnablePublishSweep {
			w.runSweep(ctx, "publish_sweep", w.deals.PublishSweep.RunOnce)
		}
		if w.cfg.EnableCompletionSweep {
			w.runSweep(ctx, "completion_sweep", w.deals.CompletionSweep.RunOnce)
		}
		if w.cfg.EnableStaleSweep {
			w.runSweep(ctx, "stale_sweep", w.deals.StaleSweep.RunOnce)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// runSweep keeps the loop alive through transient failures; a broken sweep
// retries on the next tick.
func (w *WorkerApp) runSweep(ctx context.Context, name string, run func(context.Context) error) {
	if err := run(ctx); err != nil {
		metrics.SweepRunsTotal.WithLabelValues(name, "error").Inc()
		w.logger.Error("sweep failed",
			"event", "sweep_failed",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"job", name,
			"error", err.Error(),
		)
		return
	}
	metrics.SweepRunsTotal.WithLabelValues(name, "ok").Inc()
}

func (w *WorkerApp) Close() error {
	if w.database != nil {
		return w.database.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
