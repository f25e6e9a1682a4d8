package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
)

const DefaultAuditTopic = "rental.audit"

type ClientRepository interface {
	Create(ctx context.Context, q db.Querier, c *repository.Client) error
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*repository.Client, error)
	GetForUpdate(ctx context.Context, tx db.Tx, id uuid.UUID) (*repository.Client, error)
	Update(ctx context.Context, q db.Querier, c *repository.Client) error
	Delete(ctx context.Context, q db.Querier, id uuid.UUID) error
	Archive(ctx context.Context, q db.Querier, id uuid.UUID, at time.Time) error
	List(ctx context.Context, q db.Querier, includeArchived bool) ([]*repository.Client, error)
	PhoneTaken(ctx context.Context, q db.Querier, phone string, exceptID uuid.UUID) (bool, error)
	CountOrders(ctx context.Context, q db.Querier, clientID uuid.UUID, activeOnly bool) (int, error)
}

type ItemRepository interface {
	Create(ctx context.Context, q db.Querier, item *repository.Item) error
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*repository.Item, error)
	GetForUpdate(ctx context.Context, tx db.Tx, id uuid.UUID) (*repository.Item, error)
	Update(ctx context.Context, q db.Querier, item *repository.Item) error
	Delete(ctx context.Context, q db.Querier, id uuid.UUID) error
	Archive(ctx context.Context, q db.Querier, id uuid.UUID, at time.Time) error
	List(ctx context.Context, q db.Querier, includeArchived bool) ([]*repository.Item, error)
	TitleTaken(ctx context.Context, q db.Querier, title string, exceptID uuid.UUID) (bool, error)
	CountOrders(ctx context.Context, q db.Querier, itemID uuid.UUID, activeOnly bool) (int, error)
}

type VariantRepository interface {
	Create(ctx context.Context, q db.Querier, v *repository.ItemVariant) error
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*repository.ItemVariant, error)
	ListByItem(ctx context.Context, q db.Querier, itemID uuid.UUID, includeArchived bool) ([]*repository.ItemVariant, error)
	Lock(ctx context.Context, tx db.Tx, ids []uuid.UUID) ([]uuid.UUID, error)
	Update(ctx context.Context, q db.Querier, v *repository.ItemVariant) error
	Delete(ctx context.Context, q db.Querier, id uuid.UUID) error
	Archive(ctx context.Context, q db.Querier, id uuid.UUID, at time.Time) error
	ArchiveByItem(ctx context.Context, q db.Querier, itemID uuid.UUID, at time.Time) error
	CountOrders(ctx context.Context, q db.Querier, variantID uuid.UUID, activeOnly bool) (int, error)
	ListPrices(ctx context.Context, q db.Querier, variantID uuid.UUID) ([]*repository.Price, error)
	ReplacePrices(ctx context.Context, q db.Querier, variantID uuid.UUID, prices []*repository.Price) error
}

type OrderRepository interface {
	Create(ctx context.Context, q db.Querier, order *repository.Order) error
	GetByID(ctx context.Context, q db.Querier, id int64) (*repository.Order, error)
	GetForUpdate(ctx context.Context, tx db.Tx, id int64) (*repository.Order, error)
	Update(ctx context.Context, q db.Querier, order *repository.Order) error
	Delete(ctx context.Context, q db.Querier, id int64) error
	Archive(ctx context.Context, q db.Querier, id int64, at time.Time) error
	List(ctx context.Context, q db.Querier, filter repository.OrderFilter) ([]*repository.Order, error)
	ListBookings(ctx context.Context, q db.Querier, variantID uuid.UUID, excludeOrderID int64) ([]repository.Booking, error)
	ListLines(ctx context.Context, q db.Querier, orderID int64) ([]*repository.OrderLine, error)
	ReplaceLines(ctx context.Context, q db.Querier, orderID int64, lines []*repository.OrderLine) error
	CountLines(ctx context.Context, q db.Querier, orderID int64) (int, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, q db.Querier, p *repository.Payment) error
	ListByOrder(ctx context.Context, q db.Querier, orderID int64) ([]*repository.Payment, error)
	CountByOrder(ctx context.Context, q db.Querier, orderID int64) (int, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, q db.Querier, task *repository.OutboxTask) error
}

// Deps are the collaborators of the engine. Everything except AuditTopic is required.
type Deps struct {
	DB         db.DB
	Clients    ClientRepository
	Items      ItemRepository
	Variants   VariantRepository
	Orders     OrderRepository
	Payments   PaymentRepository
	Outbox     OutboxRepository
	Logger     *zap.Logger
	AuditTopic string
}

// Engine owns every booking and catalog mutation. It keeps no state between
// calls; each operation re-reads what it needs inside its own transaction.
type Engine struct {
	db         db.DB
	clients    ClientRepository
	items      ItemRepository
	variants   VariantRepository
	orders     OrderRepository
	payments   PaymentRepository
	outbox     OutboxRepository
	logger     *zap.Logger
	auditTopic string
	timeNow    func() time.Time
}

func NewEngine(deps Deps) (*Engine, error) {
	switch {
	case deps.DB == nil:
		return nil, errors.New("booking: database is required")
	case deps.Clients == nil, deps.Items == nil, deps.Variants == nil, deps.Orders == nil, deps.Payments == nil:
		return nil, errors.New("booking: all repositories are required")
	case deps.Outbox == nil:
		return nil, errors.New("booking: outbox repository is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	topic := deps.AuditTopic
	if topic == "" {
		topic = DefaultAuditTopic
	}

	return &Engine{
		db:         deps.DB,
		clients:    deps.Clients,
		items:      deps.Items,
		variants:   deps.Variants,
		orders:     deps.Orders,
		payments:   deps.Payments,
		outbox:     deps.Outbox,
		logger:     logger.Named("booking"),
		auditTopic: topic,
		timeNow:    time.Now,
	}, nil
}

// inTx runs fn in one transaction. Any error rolls everything back and is
// reported as a typed *Error.
func (e *Engine) inTx(ctx context.Context, op string, fn func(tx db.Tx) error) error {
	tx, err := e.db.BeginTx(ctx)
	if err != nil {
		return e.fail(op, &Error{Op: op, Kind: KindInternal, Message: "failed to begin transaction", Err: err})
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			e.logger.Error("rollback failed", zap.String("operation", op), zap.Error(rbErr))
		}
		return e.fail(op, persistenceError(op, err))
	}

	if err := tx.Commit(ctx); err != nil {
		return e.fail(op, persistenceError(op, err))
	}
	return nil
}

// fail logs and counts internal failures; client-caused ones are logged at warn.
func (e *Engine) fail(op string, err error) error {
	if KindOf(err) == KindInternal {
		metrics.OperationErrorsTotal.WithLabelValues(op).Inc()
		e.logger.Error("operation failed", zap.String("operation", op), zap.Error(err))
	} else {
		e.logger.Warn("request rejected", zap.String("operation", op), zap.Error(err))
	}
	return err
}

func (e *Engine) now() time.Time {
	return e.timeNow().UTC()
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrObjectNotFound)
}
