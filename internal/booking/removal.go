package booking

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
)

// Outcome is the terminal action taken for a removal request.
type Outcome string

const (
	Deleted  Outcome = "deleted"
	Archived Outcome = "archived"
)

// removable is what the archive-or-delete rule needs from one entity kind.
type removable interface {
	repository.Archivable
	kind() string
	key() string
	// activeOrders counts live bookings that forbid removal outright.
	activeOrders(ctx context.Context, q db.Querier) (int, error)
	hasLinkedHistory(ctx context.Context, q db.Querier) (bool, error)
	archive(ctx context.Context, q db.Querier, at time.Time) error
	delete(ctx context.Context, q db.Querier) error
}

// removeEntity hard-deletes an entity without history and archives one with
// history. Removing something already archived changes nothing.
func (e *Engine) removeEntity(ctx context.Context, tx db.Tx, op string, r removable) (Outcome, error) {
	if r.Lifecycle() == repository.LifecycleArchived {
		return Archived, nil
	}

	active, err := r.activeOrders(ctx, tx)
	if err != nil {
		return "", err
	}
	if active > 0 {
		return "", badRequest(op, "%s %s has active orders", r.kind(), r.key())
	}

	linked, err := r.hasLinkedHistory(ctx, tx)
	if err != nil {
		return "", err
	}

	outcome := Deleted
	if linked {
		outcome = Archived
		err = r.archive(ctx, tx, e.now())
	} else {
		err = r.delete(ctx, tx)
	}
	if err != nil {
		return "", err
	}

	return outcome, e.audit(ctx, tx, auditEvent{
		action:     r.kind() + "." + string(outcome),
		entityType: r.kind(),
		entityID:   r.key(),
	})
}

func (e *Engine) RemoveClient(ctx context.Context, id uuid.UUID) (Outcome, error) {
	return e.remove(ctx, "RemoveClient", "client", func(tx db.Tx) (removable, error) {
		c, err := e.clients.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		return &clientRemoval{e: e, client: c}, nil
	}, id.String())
}

func (e *Engine) RemoveItem(ctx context.Context, id uuid.UUID) (Outcome, error) {
	return e.remove(ctx, "RemoveItem", "item", func(tx db.Tx) (removable, error) {
		item, err := e.items.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		return &itemRemoval{e: e, item: item}, nil
	}, id.String())
}

func (e *Engine) RemoveVariant(ctx context.Context, id uuid.UUID) (Outcome, error) {
	return e.remove(ctx, "RemoveVariant", "variant", func(tx db.Tx) (removable, error) {
		v, err := e.lockedVariant(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		return &variantRemoval{e: e, variant: v}, nil
	}, id.String())
}

func (e *Engine) RemoveOrder(ctx context.Context, id int64) (Outcome, error) {
	return e.remove(ctx, "RemoveOrder", "order", func(tx db.Tx) (removable, error) {
		order, err := e.orders.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		return &orderRemoval{e: e, order: order}, nil
	}, strconv.FormatInt(id, 10))
}

func (e *Engine) remove(ctx context.Context, op, kind string, load func(tx db.Tx) (removable, error), key string) (Outcome, error) {
	var outcome Outcome
	err := e.inTx(ctx, op, func(tx db.Tx) error {
		r, err := load(tx)
		if err != nil {
			if isNotFound(err) {
				return notFound(op, "%s %s not found", kind, key)
			}
			return err
		}
		outcome, err = e.removeEntity(ctx, tx, op, r)
		return err
	})
	if err != nil {
		return "", err
	}

	metrics.EntitiesRemovedTotal.WithLabelValues(kind, string(outcome)).Inc()
	e.logger.Info("entity removed",
		zap.String("operation", op),
		zap.String("entity", kind),
		zap.String("id", key),
		zap.String("outcome", string(outcome)),
		zap.String("actor", ActorFrom(ctx)),
	)
	return outcome, nil
}

// lockedVariant reads a variant after taking its row lock.
func (e *Engine) lockedVariant(ctx context.Context, tx db.Tx, id uuid.UUID) (*repository.ItemVariant, error) {
	locked, err := e.variants.Lock(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(locked) == 0 {
		return nil, repository.ErrObjectNotFound
	}
	return e.variants.GetByID(ctx, tx, id)
}

type clientRemoval struct {
	e      *Engine
	client *repository.Client
}

func (r *clientRemoval) Lifecycle() repository.Lifecycle { return r.client.Lifecycle() }
func (r *clientRemoval) kind() string                    { return "client" }
func (r *clientRemoval) key() string                     { return r.client.ID.String() }

func (r *clientRemoval) activeOrders(ctx context.Context, q db.Querier) (int, error) {
	return r.e.clients.CountOrders(ctx, q, r.client.ID, true)
}

func (r *clientRemoval) hasLinkedHistory(ctx context.Context, q db.Querier) (bool, error) {
	n, err := r.e.clients.CountOrders(ctx, q, r.client.ID, false)
	return n > 0, err
}

func (r *clientRemoval) archive(ctx context.Context, q db.Querier, at time.Time) error {
	return r.e.clients.Archive(ctx, q, r.client.ID, at)
}

func (r *clientRemoval) delete(ctx context.Context, q db.Querier) error {
	return r.e.clients.Delete(ctx, q, r.client.ID)
}

type itemRemoval struct {
	e    *Engine
	item *repository.Item
}

func (r *itemRemoval) Lifecycle() repository.Lifecycle { return r.item.Lifecycle() }
func (r *itemRemoval) kind() string                    { return "item" }
func (r *itemRemoval) key() string                     { return r.item.ID.String() }

func (r *itemRemoval) activeOrders(ctx context.Context, q db.Querier) (int, error) {
	return r.e.items.CountOrders(ctx, q, r.item.ID, true)
}

func (r *itemRemoval) hasLinkedHistory(ctx context.Context, q db.Querier) (bool, error) {
	n, err := r.e.items.CountOrders(ctx, q, r.item.ID, false)
	return n > 0, err
}

// archive also retires the variants so they stop being bookable.
func (r *itemRemoval) archive(ctx context.Context, q db.Querier, at time.Time) error {
	if err := r.e.items.Archive(ctx, q, r.item.ID, at); err != nil {
		return err
	}
	return r.e.variants.ArchiveByItem(ctx, q, r.item.ID, at)
}

func (r *itemRemoval) delete(ctx context.Context, q db.Querier) error {
	return r.e.items.Delete(ctx, q, r.item.ID)
}

type variantRemoval struct {
	e       *Engine
	variant *repository.ItemVariant
}

func (r *variantRemoval) Lifecycle() repository.Lifecycle { return r.variant.Lifecycle() }
func (r *variantRemoval) kind() string                    { return "variant" }
func (r *variantRemoval) key() string                     { return r.variant.ID.String() }

// Variants are never blocked: orders holding them keep an archived target.
func (r *variantRemoval) activeOrders(context.Context, db.Querier) (int, error) {
	return 0, nil
}

func (r *variantRemoval) hasLinkedHistory(ctx context.Context, q db.Querier) (bool, error) {
	n, err := r.e.variants.CountOrders(ctx, q, r.variant.ID, false)
	return n > 0, err
}

func (r *variantRemoval) archive(ctx context.Context, q db.Querier, at time.Time) error {
	return r.e.variants.Archive(ctx, q, r.variant.ID, at)
}

func (r *variantRemoval) delete(ctx context.Context, q db.Querier) error {
	return r.e.variants.Delete(ctx, q, r.variant.ID)
}

type orderRemoval struct {
	e     *Engine
	order *repository.Order
}

func (r *orderRemoval) Lifecycle() repository.Lifecycle { return r.order.Lifecycle() }
func (r *orderRemoval) kind() string                    { return "order" }
func (r *orderRemoval) key() string                     { return strconv.FormatInt(r.order.ID, 10) }

func (r *orderRemoval) activeOrders(context.Context, db.Querier) (int, error) {
	return 0, nil
}

func (r *orderRemoval) hasLinkedHistory(ctx context.Context, q db.Querier) (bool, error) {
	n, err := r.e.payments.CountByOrder(ctx, q, r.order.ID)
	if err != nil || n > 0 {
		return n > 0, err
	}
	n, err = r.e.orders.CountLines(ctx, q, r.order.ID)
	return n > 0, err
}

func (r *orderRemoval) archive(ctx context.Context, q db.Querier, at time.Time) error {
	return r.e.orders.Archive(ctx, q, r.order.ID, at)
}

func (r *orderRemoval) delete(ctx context.Context, q db.Querier) error {
	return r.e.orders.Delete(ctx, q, r.order.ID)
}
