package components

import (
	"studio-booking/internal/infra/memstore"
	"studio-booking/internal/infra/readstore"
	"studio-booking/internal/infra/uow"
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/usecase/queries"
	"studio-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewPersistence,
	),
)

type Persistence struct {
	fx.Out

	UoW      shared.UnitOfWork
	Slots    queries.SlotReadStore
	Bookings queries.BookingReadStore
	Catalog  queries.CatalogReadStore
}

// NewPersistence wires the write and read sides to the same backend.
func NewPersistence(cfg config.Config, pool *pgxpool.Pool) Persistence {
	if cfg.Store.Driver == config.StoreDriverMemory {
		store := memstore.New()
		return Persistence{UoW: store, Slots: store, Bookings: store, Catalog: store}
	}
	return Persistence{
		UoW:      uow.NewPostgresUoW(pool),
		Slots:    readstore.NewSlotReadStore(pool),
		Bookings: readstore.NewBookingReadStore(pool),
		Catalog:  readstore.NewCatalogReadStore(pool),
	}
}
