package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
)

const itemColumns = `id, title, category, description, image_url, status, tags, archived, created_at, updated_at`

type ItemRepo struct{}

func NewItemRepo() *ItemRepo {
	return &ItemRepo{}
}

func (r *ItemRepo) Create(ctx context.Context, q db.Querier, item *repository.Item) error {
	_, err := q.Exec(ctx, `
        INSERT INTO items (
            id, title, category, description, image_url, status, tags, archived, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `, item.ID, item.Title, item.Category, item.Description, item.ImageURL, item.Status, nonNilTags(item.Tags), item.Archived, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*repository.Item, error) {
	return r.get(ctx, q, "SELECT "+itemColumns+" FROM items WHERE id = $1", id)
}

func (r *ItemRepo) GetForUpdate(ctx context.Context, tx db.Tx, id uuid.UUID) (*repository.Item, error) {
	return r.get(ctx, tx, "SELECT "+itemColumns+" FROM items WHERE id = $1 FOR UPDATE", id)
}

func (r *ItemRepo) get(ctx context.Context, q db.Querier, query string, id uuid.UUID) (*repository.Item, error) {
	var item repository.Item
	if err := q.Get(ctx, &item, query, id); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

func (r *ItemRepo) Update(ctx context.Context, q db.Querier, item *repository.Item) error {
	tag, err := q.Exec(ctx, `
        UPDATE items
        SET
            title = $1,
            category = $2,
            description = $3,
            image_url = $4,
            status = $5,
            tags = $6,
            archived = $7,
            updated_at = $8
        WHERE id = $9
    `, item.Title, item.Category, item.Description, item.ImageURL, item.Status, nonNilTags(item.Tags), item.Archived, item.UpdatedAt, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

// Delete removes the item; variants and their prices go with it.
func (r *ItemRepo) Delete(ctx context.Context, q db.Querier, id uuid.UUID) error {
	if _, err := q.Exec(ctx, "DELETE FROM items WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (r *ItemRepo) Archive(ctx context.Context, q db.Querier, id uuid.UUID, at time.Time) error {
	if _, err := q.Exec(ctx, "UPDATE items SET archived = TRUE, updated_at = $1 WHERE id = $2", at, id); err != nil {
		return fmt.Errorf("failed to archive item: %w", err)
	}
	return nil
}

func (r *ItemRepo) List(ctx context.Context, q db.Querier, includeArchived bool) ([]*repository.Item, error) {
	query := "SELECT " + itemColumns + " FROM items WHERE TRUE" +
		lifecycleClause(includeArchived, "archived") +
		" ORDER BY title"

	var items []*repository.Item
	if err := q.Select(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (r *ItemRepo) TitleTaken(ctx context.Context, q db.Querier, title string, exceptID uuid.UUID) (bool, error) {
	var count int
	err := q.Get(ctx, &count, "SELECT COUNT(*) FROM items WHERE title = $1 AND id <> $2", title, exceptID)
	if err != nil {
		return false, fmt.Errorf("failed to check item title: %w", err)
	}
	return count > 0, nil
}

// CountOrders counts distinct orders holding a line on any variant of the item.
func (r *ItemRepo) CountOrders(ctx context.Context, q db.Querier, itemID uuid.UUID, activeOnly bool) (int, error) {
	query := `
        SELECT COUNT(DISTINCT o.id)
        FROM orders o
        JOIN order_lines l ON l.order_id = o.id
        JOIN item_variants v ON v.id = l.variant_id
        WHERE v.item_id = $1`
	args := []interface{}{itemID}
	if activeOnly {
		query += " AND o.archived = FALSE AND o.status = ANY($2)"
		args = append(args, activeStatusStrings())
	}

	var count int
	if err := q.Get(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count item orders: %w", err)
	}
	return count, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
