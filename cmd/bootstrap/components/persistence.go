package components

import (
	"turnos-core/internal/infra/db"
	"turnos-core/internal/infra/readstore"
	"turnos-core/internal/infra/uow"
	"turnos-core/internal/usecase/queries"
	"turnos-core/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		fx.Annotate(
			readstore.NewCatalogReadStore,
			fx.As(new(shared.CatalogReads)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(shared.BookingReads)),
			fx.As(new(queries.BookingViewRepo)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
