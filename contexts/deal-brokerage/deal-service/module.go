package dealservice

import (
	"log/slog"
	"time"

	httpadapter "adbroker/contexts/deal-brokerage/deal-service/adapters/http"
	"adbroker/contexts/deal-brokerage/deal-service/adapters/memory"
	"adbroker/contexts/deal-brokerage/deal-service/application/commands"
	"adbroker/contexts/deal-brokerage/deal-service/application/queries"
	"adbroker/contexts/deal-brokerage/deal-service/application/workers"
	"adbroker/contexts/deal-brokerage/deal-service/ports"
)

type Module struct {
	Handler         httpadapter.Handler
	CreateDeal      commands.CreateDealUseCase
	PublishSweep    workers.PublishSweepJob
	CompletionSweep workers.CompletionSweepJob
	StaleSweep      workers.StaleSweepJob
	Store           *memory.Store
	Escrow          *memory.EscrowGateway
	Telegram        *memory.PostPublisher
}

type Dependencies struct {
	Repository ports.Repository
	Channels   ports.ChannelDirectory
	Escrow     ports.EscrowGateway
	Publisher  ports.PostPublisher
	Verifier   ports.PostVerifier
	Clock      ports.Clock
	IDGen      ports.IDGenerator

	SweepBatchSize     int
	VerificationWindow time.Duration

	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createDeal := commands.CreateDealUseCase{
		Repository: deps.Repository,
		Channels:   deps.Channels,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	decideDeal := commands.DecideDealUseCase{
		Repository: deps.Repository,
		Escrow:     deps.Escrow,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	markPaid := commands.MarkPaidUseCase{
		Repository: deps.Repository,
		Escrow:     deps.Escrow,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	submitDraft := commands.SubmitDraftUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	reviewDraft := commands.ReviewDraftUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	verifyPost := commands.VerifyPostUseCase{
		Repository: deps.Repository,
		Channels:   deps.Channels,
		Verifier:   deps.Verifier,
		Escrow:     deps.Escrow,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	queryUseCase := queries.QueryUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateDeal:  createDeal,
			DecideDeal:  decideDeal,
			MarkPaid:    markPaid,
			SubmitDraft: submitDraft,
			ReviewDraft: reviewDraft,
			VerifyPost:  verifyPost,
			Queries:     queryUseCase,
			Logger:      deps.Logger,
		},
		CreateDeal: createDeal,
		PublishSweep: workers.PublishSweepJob{
			Repository: deps.Repository,
			Channels:   deps.Channels,
			Publisher:  deps.Publisher,
			Clock:      deps.Clock,
			BatchSize:  deps.SweepBatchSize,
			Logger:     deps.Logger,
		},
		CompletionSweep: workers.CompletionSweepJob{
			Repository:         deps.Repository,
			Channels:           deps.Channels,
			Verifier:           deps.Verifier,
			Escrow:             deps.Escrow,
			Clock:              deps.Clock,
			VerificationWindow: deps.VerificationWindow,
			BatchSize:          deps.SweepBatchSize,
			Logger:             deps.Logger,
		},
		StaleSweep: workers.StaleSweepJob{
			Repository: deps.Repository,
			Clock:      deps.Clock,
			BatchSize:  deps.SweepBatchSize,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(channels []ports.ChannelRef, formats []ports.AdFormatRef, logger *slog.Logger) Module {
	store := memory.NewStore(channels, formats)
	escrow := memory.NewEscrowGateway()
	telegram := memory.NewPostPublisher()
	module := NewModule(Dependencies{
		Repository: store,
		Channels:   store,
		Escrow:     escrow,
		Publisher:  telegram,
		Verifier:   telegram,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	module.Escrow = escrow
	module.Telegram = telegram
	return module
}
