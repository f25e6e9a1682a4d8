package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
)

const clientColumns = `id, given_name, surname, phone, instagram, email, notes, discount, archived, created_at, updated_at`

type ClientRepo struct{}

func NewClientRepo() *ClientRepo {
	return &ClientRepo{}
}

func (r *ClientRepo) Create(ctx context.Context, q db.Querier, c *repository.Client) error {
	_, err := q.Exec(ctx, `
        INSERT INTO clients (
            id, given_name, surname, phone, instagram, email, notes, discount, archived, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, c.ID, c.GivenName, c.Surname, c.Phone, c.Instagram, c.Email, c.Notes, c.Discount, c.Archived, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*repository.Client, error) {
	return r.get(ctx, q, "SELECT "+clientColumns+" FROM clients WHERE id = $1", id)
}

// GetForUpdate locks the client row until the transaction ends.
func (r *ClientRepo) GetForUpdate(ctx context.Context, tx db.Tx, id uuid.UUID) (*repository.Client, error) {
	return r.get(ctx, tx, "SELECT "+clientColumns+" FROM clients WHERE id = $1 FOR UPDATE", id)
}

func (r *ClientRepo) get(ctx context.Context, q db.Querier, query string, id uuid.UUID) (*repository.Client, error) {
	var client repository.Client
	if err := q.Get(ctx, &client, query, id); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

func (r *ClientRepo) Update(ctx context.Context, q db.Querier, c *repository.Client) error {
	tag, err := q.Exec(ctx, `
        UPDATE clients
        SET
            given_name = $1,
            surname = $2,
            phone = $3,
            instagram = $4,
            email = $5,
            notes = $6,
            discount = $7,
            archived = $8,
            updated_at = $9
        WHERE id = $10
    `, c.GivenName, c.Surname, c.Phone, c.Instagram, c.Email, c.Notes, c.Discount, c.Archived, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *ClientRepo) Delete(ctx context.Context, q db.Querier, id uuid.UUID) error {
	if _, err := q.Exec(ctx, "DELETE FROM clients WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

func (r *ClientRepo) Archive(ctx context.Context, q db.Querier, id uuid.UUID, at time.Time) error {
	if _, err := q.Exec(ctx, "UPDATE clients SET archived = TRUE, updated_at = $1 WHERE id = $2", at, id); err != nil {
		return fmt.Errorf("failed to archive client: %w", err)
	}
	return nil
}

func (r *ClientRepo) List(ctx context.Context, q db.Querier, includeArchived bool) ([]*repository.Client, error) {
	query := "SELECT " + clientColumns + " FROM clients WHERE TRUE" +
		lifecycleClause(includeArchived, "archived") +
		" ORDER BY surname, given_name, id"

	var clients []*repository.Client
	if err := q.Select(ctx, &clients, query); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// PhoneTaken reports whether another client already uses the phone.
func (r *ClientRepo) PhoneTaken(ctx context.Context, q db.Querier, phone string, exceptID uuid.UUID) (bool, error) {
	var count int
	err := q.Get(ctx, &count, "SELECT COUNT(*) FROM clients WHERE phone = $1 AND id <> $2", phone, exceptID)
	if err != nil {
		return false, fmt.Errorf("failed to check client phone: %w", err)
	}
	return count > 0, nil
}

// CountOrders counts orders referencing the client; activeOnly keeps the
// ones that still hold reservations.
func (r *ClientRepo) CountOrders(ctx context.Context, q db.Querier, clientID uuid.UUID, activeOnly bool) (int, error) {
	query := "SELECT COUNT(*) FROM orders WHERE client_id = $1"
	args := []interface{}{clientID}
	if activeOnly {
		query += " AND archived = FALSE AND status = ANY($2)"
		args = append(args, activeStatusStrings())
	}

	var count int
	if err := q.Get(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count client orders: %w", err)
	}
	return count, nil
}
