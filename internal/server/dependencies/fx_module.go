package dependencies

import (
	"context"
	"database/sql"

	"go.uber.org/fx"

	"github.com/looplj/orghub/internal/authz"
	"github.com/looplj/orghub/internal/identity"
	"github.com/looplj/orghub/internal/log"
	"github.com/looplj/orghub/internal/scopes"
	"github.com/looplj/orghub/internal/server/db"
	"github.com/looplj/orghub/internal/store/pg"
)

var Module = fx.Module("dependencies",
	fx.Provide(log.New),
	fx.Provide(db.Open),
	fx.Provide(pg.NewStore),
	fx.Provide(func(store *pg.Store) authz.Store { return store }),
	fx.Provide(authz.NewResolver),
	fx.Provide(pg.NewRegistry),
	fx.Provide(scopes.NewStore),
	fx.Provide(func(cfg identity.Config) identity.Client { return identity.NewHTTPClient(cfg) }),
	fx.Provide(func(cfg identity.Config) identity.CacheConfig { return cfg.Cache }),
	fx.Provide(identity.NewClaimsCache),
	fx.Invoke(func(lc fx.Lifecycle, store *pg.Store, conn *sql.DB) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return store.Migrate(ctx)
			},
			OnStop: func(ctx context.Context) error {
				return conn.Close()
			},
		})
	}),
)
