package booking

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
)

// VariantView is a variant as presented to callers. Its Status may differ
// from the stored one when projected onto a period.
type VariantView struct {
	repository.ItemVariant
	Prices []*repository.Price `json:"prices"`
	Reason string              `json:"unavailable_reason,omitempty"`
}

type ItemView struct {
	repository.Item
	Variants []*VariantView `json:"variants"`
}

// ProjectAvailability returns the item with each variant's status as it
// would look for the period: variants the checker rejects are shown as
// unavailable. Nothing is written back. A nil period returns stored statuses.
func (e *Engine) ProjectAvailability(ctx context.Context, itemID uuid.UUID, period *Period, excludeOrderID int64) (*ItemView, error) {
	const op = "ProjectAvailability"
	if period != nil && !period.Ordered() {
		return nil, e.fail(op, badRequest(op, "start must not be after end"))
	}

	view, err := e.loadItemView(ctx, e.db, op, itemID)
	if err != nil {
		return nil, e.fail(op, persistenceError(op, err))
	}
	if period == nil {
		return view, nil
	}

	for _, v := range view.Variants {
		a, err := e.evaluate(ctx, e.db, &v.ItemVariant, *period, excludeOrderID)
		if err != nil {
			return nil, e.fail(op, persistenceError(op, err))
		}
		if !a.Available {
			v.Status = repository.VariantUnavailable
			v.Reason = a.Reason
		}
	}

	e.logger.Debug("availability projected",
		zap.String("item_id", itemID.String()),
		zap.Stringer("period", period),
		zap.Int("variants", len(view.Variants)),
	)
	return view, nil
}

// loadItemView reads an item with its variants and prices. Archived items
// keep showing their archived variants.
func (e *Engine) loadItemView(ctx context.Context, q db.Querier, op string, itemID uuid.UUID) (*ItemView, error) {
	item, err := e.items.GetByID(ctx, q, itemID)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound(op, "item %s not found", itemID)
		}
		return nil, err
	}

	variants, err := e.variants.ListByItem(ctx, q, item.ID, item.Archived)
	if err != nil {
		return nil, err
	}

	view := &ItemView{Item: *item, Variants: make([]*VariantView, 0, len(variants))}
	for _, v := range variants {
		vv, err := e.variantView(ctx, q, v)
		if err != nil {
			return nil, err
		}
		view.Variants = append(view.Variants, vv)
	}
	return view, nil
}

func (e *Engine) variantView(ctx context.Context, q db.Querier, v *repository.ItemVariant) (*VariantView, error) {
	prices, err := e.variants.ListPrices(ctx, q, v.ID)
	if err != nil {
		return nil, err
	}
	if prices == nil {
		prices = []*repository.Price{}
	}
	return &VariantView{ItemVariant: *v, Prices: prices}, nil
}
