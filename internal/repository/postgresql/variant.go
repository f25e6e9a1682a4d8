package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
)

const variantColumns = `id, item_id, size, color, quantity, status, service_start, service_end, archived, created_at, updated_at`

type VariantRepo struct{}

func NewVariantRepo() *VariantRepo {
	return &VariantRepo{}
}

func (r *VariantRepo) Create(ctx context.Context, q db.Querier, v *repository.ItemVariant) error {
	_, err := q.Exec(ctx, `
        INSERT INTO item_variants (
            id, item_id, size, color, quantity, status, service_start, service_end, archived, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, v.ID, v.ItemID, v.Size, v.Color, v.Quantity, v.Status, v.ServiceStart, v.ServiceEnd, v.Archived, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert variant: %w", err)
	}
	return nil
}

func (r *VariantRepo) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*repository.ItemVariant, error) {
	var variant repository.ItemVariant
	err := q.Get(ctx, &variant, "SELECT "+variantColumns+" FROM item_variants WHERE id = $1", id)
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get variant: %w", err)
	}
	return &variant, nil
}

func (r *VariantRepo) ListByItem(ctx context.Context, q db.Querier, itemID uuid.UUID, includeArchived bool) ([]*repository.ItemVariant, error) {
	query := "SELECT " + variantColumns + " FROM item_variants WHERE item_id = $1" +
		lifecycleClause(includeArchived, "archived") +
		" ORDER BY size, color, id"

	var variants []*repository.ItemVariant
	if err := q.Select(ctx, &variants, query, itemID); err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	return variants, nil
}

// Lock takes row locks on the variants in a stable order so that two
// writers touching overlapping variant sets cannot deadlock. Every booking
// writer calls it before re-reading conflicts.
func (r *VariantRepo) Lock(ctx context.Context, tx db.Tx, ids []uuid.UUID) ([]uuid.UUID, error) {
	var locked []uuid.UUID
	err := tx.Select(ctx, &locked,
		"SELECT id FROM item_variants WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE",
		uuidStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to lock variants: %w", err)
	}
	return locked, nil
}

func (r *VariantRepo) Update(ctx context.Context, q db.Querier, v *repository.ItemVariant) error {
	tag, err := q.Exec(ctx, `
        UPDATE item_variants
        SET
            size = $1,
            color = $2,
            quantity = $3,
            status = $4,
            service_start = $5,
            service_end = $6,
            archived = $7,
            updated_at = $8
        WHERE id = $9
    `, v.Size, v.Color, v.Quantity, v.Status, v.ServiceStart, v.ServiceEnd, v.Archived, v.UpdatedAt, v.ID)
	if err != nil {
		return fmt.Errorf("failed to update variant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *VariantRepo) Delete(ctx context.Context, q db.Querier, id uuid.UUID) error {
	if _, err := q.Exec(ctx, "DELETE FROM item_variants WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete variant: %w", err)
	}
	return nil
}

func (r *VariantRepo) Archive(ctx context.Context, q db.Querier, id uuid.UUID, at time.Time) error {
	if _, err := q.Exec(ctx, "UPDATE item_variants SET archived = TRUE, updated_at = $1 WHERE id = $2", at, id); err != nil {
		return fmt.Errorf("failed to archive variant: %w", err)
	}
	return nil
}

func (r *VariantRepo) ArchiveByItem(ctx context.Context, q db.Querier, itemID uuid.UUID, at time.Time) error {
	_, err := q.Exec(ctx,
		"UPDATE item_variants SET archived = TRUE, updated_at = $1 WHERE item_id = $2 AND archived = FALSE",
		at, itemID)
	if err != nil {
		return fmt.Errorf("failed to archive item variants: %w", err)
	}
	return nil
}

// CountOrders counts orders with a line on the variant.
func (r *VariantRepo) CountOrders(ctx context.Context, q db.Querier, variantID uuid.UUID, activeOnly bool) (int, error) {
	query := `
        SELECT COUNT(DISTINCT o.id)
        FROM orders o
        JOIN order_lines l ON l.order_id = o.id
        WHERE l.variant_id = $1`
	args := []interface{}{variantID}
	if activeOnly {
		query += " AND o.archived = FALSE AND o.status = ANY($2)"
		args = append(args, activeStatusStrings())
	}

	var count int
	if err := q.Get(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count variant orders: %w", err)
	}
	return count, nil
}

func (r *VariantRepo) ListPrices(ctx context.Context, q db.Querier, variantID uuid.UUID) ([]*repository.Price, error) {
	var prices []*repository.Price
	err := q.Select(ctx, &prices,
		"SELECT id, variant_id, amount, deposit, price_type FROM variant_prices WHERE variant_id = $1 ORDER BY amount, id",
		variantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	return prices, nil
}

// ReplacePrices swaps the whole price list of a variant.
func (r *VariantRepo) ReplacePrices(ctx context.Context, q db.Querier, variantID uuid.UUID, prices []*repository.Price) error {
	if _, err := q.Exec(ctx, "DELETE FROM variant_prices WHERE variant_id = $1", variantID); err != nil {
		return fmt.Errorf("failed to clear prices: %w", err)
	}
	for _, p := range prices {
		_, err := q.Exec(ctx, `
            INSERT INTO variant_prices (id, variant_id, amount, deposit, price_type)
            VALUES ($1, $2, $3, $4, $5)
        `, p.ID, variantID, p.Amount, p.Deposit, p.PriceType)
		if err != nil {
			return fmt.Errorf("failed to insert price: %w", err)
		}
	}
	return nil
}
