package campaignservice

import (
	"log/slog"

	httpadapter "adbroker/contexts/deal-brokerage/campaign-service/adapters/http"
	"adbroker/contexts/deal-brokerage/campaign-service/adapters/memory"
	"adbroker/contexts/deal-brokerage/campaign-service/application/commands"
	"adbroker/contexts/deal-brokerage/campaign-service/application/queries"
	"adbroker/contexts/deal-brokerage/campaign-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Intake     ports.DealIntake
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createCampaign := commands.CreateCampaignUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	applyToCampaign := commands.ApplyToCampaignUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	decideApplication := commands.DecideApplicationUseCase{
		Repository: deps.Repository,
		Intake:     deps.Intake,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	queryUseCase := queries.QueryUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateCampaign:    createCampaign,
			ApplyToCampaign:   applyToCampaign,
			DecideApplication: decideApplication,
			Queries:           queryUseCase,
			Logger:            deps.Logger,
		},
	}
}

func NewInMemoryModule(intake ports.DealIntake, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Intake:     intake,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
