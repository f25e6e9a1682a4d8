package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
)

const ReasonArchived = "archived"

// Availability is the verdict for one variant and one period.
type Availability struct {
	VariantID       uuid.UUID `json:"variant_id"`
	Available       bool      `json:"available"`
	Reason          string    `json:"reason,omitempty"`
	ConflictOrderID int64     `json:"conflict_order_id,omitempty"`
}

func available(id uuid.UUID) Availability {
	return Availability{VariantID: id, Available: true}
}

func unavailable(id uuid.UUID, reason string) Availability {
	return Availability{VariantID: id, Reason: reason}
}

// CheckAvailability is the read-only bookability check for one variant.
// excludeOrderID 0 excludes nothing.
func (e *Engine) CheckAvailability(ctx context.Context, variantID uuid.UUID, period Period, excludeOrderID int64) (Availability, error) {
	const op = "CheckAvailability"
	if !period.Ordered() {
		return Availability{}, e.fail(op, badRequest(op, "start must not be after end"))
	}

	a, err := e.checkVariant(ctx, e.db, op, variantID, period, excludeOrderID)
	if err != nil {
		return Availability{}, e.fail(op, persistenceError(op, err))
	}

	e.logger.Debug("availability checked",
		zap.String("variant_id", variantID.String()),
		zap.Stringer("period", period),
		zap.Bool("available", a.Available),
		zap.String("reason", a.Reason),
	)
	return a, nil
}

func (e *Engine) checkVariant(ctx context.Context, q db.Querier, op string, variantID uuid.UUID, period Period, excludeOrderID int64) (Availability, error) {
	variant, err := e.variants.GetByID(ctx, q, variantID)
	if err != nil {
		if isNotFound(err) {
			return Availability{}, notFound(op, "variant %s not found", variantID)
		}
		return Availability{}, err
	}
	return e.evaluate(ctx, q, variant, period, excludeOrderID)
}

// evaluate applies the rules in order: archive state, maintenance window,
// then overlap with the variant's live bookings. It never writes.
func (e *Engine) evaluate(ctx context.Context, q db.Querier, variant *repository.ItemVariant, period Period, excludeOrderID int64) (Availability, error) {
	// The order already holding an archived variant may keep it.
	if variant.Lifecycle() == repository.LifecycleArchived && excludeOrderID == 0 {
		return unavailable(variant.ID, ReasonArchived), nil
	}

	if UnderMaintenance(period.Start, variant.ServiceEnd) {
		return unavailable(variant.ID, "maintenance until "+variant.ServiceEnd.Format(DateLayout)), nil
	}

	bookings, err := e.orders.ListBookings(ctx, q, variant.ID, excludeOrderID)
	if err != nil {
		return Availability{}, err
	}
	for _, b := range bookings {
		if b.OrderID == excludeOrderID || !b.Status.IsActive() {
			continue
		}
		if period.Overlaps(NewPeriod(b.StartTime, b.EndTime)) {
			a := unavailable(variant.ID, fmt.Sprintf("booked by order %d", b.OrderID))
			a.ConflictOrderID = b.OrderID
			return a, nil
		}
	}
	return available(variant.ID), nil
}
