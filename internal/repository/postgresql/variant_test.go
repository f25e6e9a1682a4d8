package postgresql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_db "gitlab.ozon.dev/pupkingeorgij/rental/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository/postgresql"
)

func TestVariantRepo_Lock(t *testing.T) {
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	t.Run("locks rows in id order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockTx := mock_db.NewMockTx(ctrl)
		repo := postgresql.NewVariantRepo()

		mockTx.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq([]string{a.String(), b.String()})).
			DoAndReturn(func(_ context.Context, dest *[]uuid.UUID, query string, _ ...interface{}) error {
				assert.Contains(t, query, "ORDER BY id FOR UPDATE")
				*dest = []uuid.UUID{a}
				return nil
			})

		locked, err := repo.Lock(ctx, mockTx, []uuid.UUID{a, b})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{a}, locked)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockTx := mock_db.NewMockTx(ctrl)
		dbErr := errors.New("deadlock detected")

		mockTx.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(dbErr)

		_, err := postgresql.NewVariantRepo().Lock(ctx, mockTx, []uuid.UUID{a})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestVariantRepo_GetByID_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := mock_db.NewMockDB(ctrl)

	mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(pgx.ErrNoRows)

	_, err := postgresql.NewVariantRepo().GetByID(context.Background(), mockDB, uuid.New())
	assert.ErrorIs(t, err, repository.ErrObjectNotFound)
}

func TestVariantRepo_ReplacePrices(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockTx := mock_db.NewMockTx(ctrl)
	variantID := uuid.New()
	price := &repository.Price{ID: uuid.New(), Amount: 500, Deposit: 1000, PriceType: "day"}

	gomock.InOrder(
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(variantID)).Return(pgconn.CommandTag("DELETE 2"), nil),
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(price.ID), gomock.Eq(variantID), 500, 1000, "day").
			Return(pgconn.CommandTag("INSERT 0 1"), nil),
	)

	assert.NoError(t, postgresql.NewVariantRepo().ReplacePrices(context.Background(), mockTx, variantID, []*repository.Price{price}))
}

func TestVariantRepo_CountOrders(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := mock_db.NewMockDB(ctrl)
	variantID := uuid.New()

	mockDB.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(variantID), gomock.Any()).
		DoAndReturn(func(_ context.Context, dest *int, query string, _ ...interface{}) error {
			assert.Contains(t, query, "COUNT(DISTINCT o.id)")
			*dest = 1
			return nil
		})

	n, err := postgresql.NewVariantRepo().CountOrders(context.Background(), mockDB, variantID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
