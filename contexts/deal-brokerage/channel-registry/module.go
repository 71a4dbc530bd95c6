package channelregistry

import (
	"log/slog"

	httpadapter "adbroker/contexts/deal-brokerage/channel-registry/adapters/http"
	"adbroker/contexts/deal-brokerage/channel-registry/adapters/memory"
	"adbroker/contexts/deal-brokerage/channel-registry/application/queries"
	"adbroker/contexts/deal-brokerage/channel-registry/domain/entities"
	"adbroker/contexts/deal-brokerage/channel-registry/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Queries queries.QueryUseCase
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	queryUseCase := queries.QueryUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Queries: queryUseCase,
			Logger:  deps.Logger,
		},
		Queries: queryUseCase,
	}
}

func NewInMemoryModule(channels []entities.Channel, formats []entities.AdFormat, logger *slog.Logger) Module {
	store := memory.NewStore(channels, formats)
	module := NewModule(Dependencies{
		Repository: store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
