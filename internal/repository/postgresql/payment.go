package postgresql

import (
	"context"
	"fmt"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
)

type PaymentRepo struct{}

func NewPaymentRepo() *PaymentRepo {
	return &PaymentRepo{}
}

func (r *PaymentRepo) Create(ctx context.Context, q db.Querier, p *repository.Payment) error {
	_, err := q.Exec(ctx, `
        INSERT INTO payments (id, order_id, amount, method, entry_type, note, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, p.ID, p.OrderID, p.Amount, p.Method, p.EntryType, p.Note, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) ListByOrder(ctx context.Context, q db.Querier, orderID int64) ([]*repository.Payment, error) {
	var payments []*repository.Payment
	err := q.Select(ctx, &payments, `
        SELECT id, order_id, amount, method, entry_type, note, created_at
        FROM payments
        WHERE order_id = $1
        ORDER BY created_at, id
    `, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (r *PaymentRepo) CountByOrder(ctx context.Context, q db.Querier, orderID int64) (int, error) {
	var count int
	if err := q.Get(ctx, &count, "SELECT COUNT(*) FROM payments WHERE order_id = $1", orderID); err != nil {
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}
	return count, nil
}
