package userdirectory

import (
	"log/slog"

	httpadapter "adbroker/contexts/identity-access/user-directory/adapters/http"
	"adbroker/contexts/identity-access/user-directory/adapters/memory"
	"adbroker/contexts/identity-access/user-directory/application/commands"
	"adbroker/contexts/identity-access/user-directory/application/queries"
	"adbroker/contexts/identity-access/user-directory/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	syncUser := commands.SyncUserUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	queryUseCase := queries.QueryUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			SyncUser: syncUser,
			Queries:  queryUseCase,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
