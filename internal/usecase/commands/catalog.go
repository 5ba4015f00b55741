package commands

import (
	"context"
	"log/slog"

	"studio-booking/internal/domain/catalog"
	"studio-booking/internal/domain/slot"
	"studio-booking/internal/domain/studio"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/shared"
)

type CreateSlotInput struct {
	slot.NewSlotParams
	ServiceID *int64
}

// CatalogCommands manages studios, services and slots. Every mutation
// below a studio is restricted to its owner.
type CatalogCommands interface {
	CreateStudio(ctx context.Context, p studio.NewStudioParams) (int64, error)
	UpdateStudio(ctx context.Context, actorID, studioID int64, p studio.UpdateParams) error
	CreateService(ctx context.Context, actorID int64, p catalog.NewServiceParams) (int64, error)
	CreateSlot(ctx context.Context, actorID int64, in CreateSlotInput) (int64, error)
	UpdateSlot(ctx context.Context, actorID, slotID int64, p slot.UpdateParams) error
	DeactivateSlot(ctx context.Context, actorID, slotID int64) error
}

type catalogUseCaseImpl struct {
	uow   shared.UnitOfWork
	cache AvailabilityInvalidator
	clock clock.Clock
}

func NewCatalogCommands(uow shared.UnitOfWork, cache AvailabilityInvalidator, clk clock.Clock) CatalogCommands {
	return &catalogUseCaseImpl{uow: uow, cache: cache, clock: clk}
}

func (uc *catalogUseCaseImpl) CreateStudio(ctx context.Context, p studio.NewStudioParams) (int64, error) {
	st, err := studio.NewStudio(p, uc.clock.Now())
	if err != nil {
		return 0, err
	}
	var id int64
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var cerr error
		id, cerr = tx.Studios().Create(ctx, st)
		return cerr
	})
	if err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "studio created", "studio_id", id, "owner_id", p.OwnerID)
	return id, nil
}

func (uc *catalogUseCaseImpl) UpdateStudio(ctx context.Context, actorID, studioID int64, p studio.UpdateParams) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		st, err := tx.Studios().GetByID(ctx, studioID)
		if err != nil {
			return err
		}
		if !st.IsOwnedBy(actorID) {
			return errs.ErrForbidden
		}
		if err = st.Apply(p, uc.clock.Now()); err != nil {
			return err
		}
		return tx.Studios().Update(ctx, st)
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "studio updated", "studio_id", studioID)
	return nil
}

func (uc *catalogUseCaseImpl) CreateService(ctx context.Context, actorID int64, p catalog.NewServiceParams) (int64, error) {
	svc, err := catalog.NewService(p, uc.clock.Now())
	if err != nil {
		return 0, err
	}
	var id int64
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if oerr := requireOwner(ctx, tx, p.StudioID, actorID); oerr != nil {
			return oerr
		}
		var cerr error
		id, cerr = tx.Services().Create(ctx, svc)
		return cerr
	})
	if err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "service created", "service_id", id, "studio_id", p.StudioID)
	return id, nil
}

func (uc *catalogUseCaseImpl) CreateSlot(ctx context.Context, actorID int64, in CreateSlotInput) (int64, error) {
	var id int64
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if oerr := requireOwner(ctx, tx, in.StudioID, actorID); oerr != nil {
			return oerr
		}
		var svc *catalog.Service
		if in.ServiceID != nil {
			var serr error
			if svc, serr = tx.Services().GetByID(ctx, *in.ServiceID); serr != nil {
				return serr
			}
		}
		s, derr := slot.NewSlot(in.NewSlotParams, svc, uc.clock.Now())
		if derr != nil {
			return derr
		}
		var cerr error
		id, cerr = tx.Slots().Create(ctx, s)
		return cerr
	})
	if err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "slot created", "slot_id", id, "studio_id", in.StudioID)
	return id, nil
}

// UpdateSlot takes the slot lock so a capacity change lands between
// admissions, never inside one.
func (uc *catalogUseCaseImpl) UpdateSlot(ctx context.Context, actorID, slotID int64, p slot.UpdateParams) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Slots().GetForUpdate(ctx, slotID)
		if err != nil {
			return err
		}
		if err = requireOwner(ctx, tx, s.StudioID, actorID); err != nil {
			return err
		}
		if err = s.Apply(p, uc.clock.Now()); err != nil {
			return err
		}
		return tx.Slots().Update(ctx, s)
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx, slotID)
	slog.InfoContext(ctx, "slot updated", "slot_id", slotID)
	return nil
}

func (uc *catalogUseCaseImpl) DeactivateSlot(ctx context.Context, actorID, slotID int64) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Slots().GetForUpdate(ctx, slotID)
		if err != nil {
			return err
		}
		if err = requireOwner(ctx, tx, s.StudioID, actorID); err != nil {
			return err
		}
		s.Deactivate(uc.clock.Now())
		return tx.Slots().Update(ctx, s)
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx, slotID)
	slog.InfoContext(ctx, "slot deactivated", "slot_id", slotID)
	return nil
}

func (uc *catalogUseCaseImpl) invalidate(ctx context.Context, slotID int64) {
	if err := uc.cache.Invalidate(ctx, slotID); err != nil {
		slog.WarnContext(ctx, "availability cache invalidation failed", "slot_id", slotID, "error", err.Error())
	}
}

func requireOwner(ctx context.Context, tx shared.Tx, studioID, actorID int64) error {
	st, err := tx.Studios().GetByID(ctx, studioID)
	if err != nil {
		return err
	}
	if !st.IsOwnedBy(actorID) {
		return errs.ErrForbidden
	}
	return nil
}
