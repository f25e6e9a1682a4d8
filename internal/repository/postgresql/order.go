package postgresql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
)

const orderColumns = `id, client_id, status, start_time, end_time, discount, price, deposit_amount,
    delivery_info, notes, tags, created_by, archived, created_at, updated_at`

type OrderRepo struct{}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{}
}

// Create inserts the order and fills in its generated id.
func (r *OrderRepo) Create(ctx context.Context, q db.Querier, order *repository.Order) error {
	err := q.Get(ctx, &order.ID, `
        INSERT INTO orders (
            client_id, status, start_time, end_time, discount, price, deposit_amount,
            delivery_info, notes, tags, created_by, archived, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING id
    `, order.ClientID, order.Status, order.StartTime, order.EndTime, order.Discount, order.Price, order.DepositAmount,
		order.DeliveryInfo, order.Notes, nonNilTags(order.Tags), order.CreatedBy, order.Archived, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, q db.Querier, id int64) (*repository.Order, error) {
	return r.get(ctx, q, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, tx db.Tx, id int64) (*repository.Order, error) {
	return r.get(ctx, tx, "SELECT "+orderColumns+" FROM orders WHERE id = $1 FOR UPDATE", id)
}

func (r *OrderRepo) get(ctx context.Context, q db.Querier, query string, id int64) (*repository.Order, error) {
	var order repository.Order
	if err := q.Get(ctx, &order, query, id); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (r *OrderRepo) Update(ctx context.Context, q db.Querier, order *repository.Order) error {
	tag, err := q.Exec(ctx, `
        UPDATE orders
        SET
            client_id = $1,
            status = $2,
            start_time = $3,
            end_time = $4,
            discount = $5,
            price = $6,
            deposit_amount = $7,
            delivery_info = $8,
            notes = $9,
            tags = $10,
            archived = $11,
            updated_at = $12
        WHERE id = $13
    `, order.ClientID, order.Status, order.StartTime, order.EndTime, order.Discount, order.Price, order.DepositAmount,
		order.DeliveryInfo, order.Notes, nonNilTags(order.Tags), order.Archived, order.UpdatedAt, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

// Delete removes the order; lines and payments cascade.
func (r *OrderRepo) Delete(ctx context.Context, q db.Querier, id int64) error {
	if _, err := q.Exec(ctx, "DELETE FROM orders WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

func (r *OrderRepo) Archive(ctx context.Context, q db.Querier, id int64, at time.Time) error {
	if _, err := q.Exec(ctx, "UPDATE orders SET archived = TRUE, updated_at = $1 WHERE id = $2", at, id); err != nil {
		return fmt.Errorf("failed to archive order: %w", err)
	}
	return nil
}

func (r *OrderRepo) List(ctx context.Context, q db.Querier, filter repository.OrderFilter) ([]*repository.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE TRUE" + lifecycleClause(filter.IncludeArchived, "archived")
	var args []interface{}
	next := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.ClientID != uuid.Nil {
		query += " AND client_id = " + next(filter.ClientID)
	}
	if filter.Status != "" {
		query += " AND status = " + next(filter.Status)
	}
	if filter.From != nil {
		query += " AND end_time >= " + next(*filter.From)
	}
	if filter.To != nil {
		query += " AND start_time <= " + next(*filter.To)
	}

	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + next(filter.Limit)
	}

	var orders []*repository.Order
	if err := q.Select(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListBookings returns every live claim on the variant: orders that are
// active, not archived and hold a line on it. excludeOrderID 0 excludes nothing.
func (r *OrderRepo) ListBookings(ctx context.Context, q db.Querier, variantID uuid.UUID, excludeOrderID int64) ([]repository.Booking, error) {
	var bookings []repository.Booking
	err := q.Select(ctx, &bookings, `
        SELECT o.id AS order_id, o.status, o.start_time, o.end_time
        FROM orders o
        JOIN order_lines l ON l.order_id = o.id
        WHERE l.variant_id = $1
          AND o.archived = FALSE
          AND o.status = ANY($2)
          AND o.id <> $3
        ORDER BY o.start_time, o.id
    `, variantID, activeStatusStrings(), excludeOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (r *OrderRepo) ListLines(ctx context.Context, q db.Querier, orderID int64) ([]*repository.OrderLine, error) {
	var lines []*repository.OrderLine
	err := q.Select(ctx, &lines,
		"SELECT order_id, variant_id, quantity, price, deposit FROM order_lines WHERE order_id = $1 ORDER BY variant_id",
		orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order lines: %w", err)
	}
	return lines, nil
}

// ReplaceLines drops every line of the order and writes the given set.
func (r *OrderRepo) ReplaceLines(ctx context.Context, q db.Querier, orderID int64, lines []*repository.OrderLine) error {
	if _, err := q.Exec(ctx, "DELETE FROM order_lines WHERE order_id = $1", orderID); err != nil {
		return fmt.Errorf("failed to clear order lines: %w", err)
	}
	for _, line := range lines {
		_, err := q.Exec(ctx, `
            INSERT INTO order_lines (order_id, variant_id, quantity, price, deposit)
            VALUES ($1, $2, $3, $4, $5)
        `, orderID, line.VariantID, line.Quantity, line.Price, line.Deposit)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}
	return nil
}

func (r *OrderRepo) CountLines(ctx context.Context, q db.Querier, orderID int64) (int, error) {
	var count int
	if err := q.Get(ctx, &count, "SELECT COUNT(*) FROM order_lines WHERE order_id = $1", orderID); err != nil {
		return 0, fmt.Errorf("failed to count order lines: %w", err)
	}
	return count, nil
}
