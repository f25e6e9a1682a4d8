package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_db "gitlab.ozon.dev/pupkingeorgij/rental/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository/postgresql"
)

func TestOrderRepo_Create(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	t.Run("fills generated id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockTx := mock_db.NewMockTx(ctrl)
		repo := postgresql.NewOrderRepo()

		order := &repository.Order{
			ClientID:  uuid.New(),
			Status:    repository.OrderBooked,
			StartTime: start,
			EndTime:   start.AddDate(0, 0, 2),
			Price:     900,
			CreatedBy: "admin",
		}

		mockTx.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any(),
				gomock.Eq(order.ClientID), gomock.Eq(order.Status), gomock.Eq(order.StartTime), gomock.Eq(order.EndTime),
				gomock.Any(), gomock.Eq(900), gomock.Any(), gomock.Any(), gomock.Any(),
				gomock.Eq([]string{}), gomock.Eq("admin"), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, dest *int64, query string, _ ...interface{}) error {
				assert.Contains(t, query, "RETURNING id")
				*dest = 17
				return nil
			})

		require.NoError(t, repo.Create(ctx, mockTx, order))
		assert.Equal(t, int64(17), order.ID)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockTx := mock_db.NewMockTx(ctrl)
		repo := postgresql.NewOrderRepo()
		dbErr := errors.New("database error")

		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(dbErr)

		err := repo.Create(ctx, mockTx, &repository.Order{})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestOrderRepo_ListBookings(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := mock_db.NewMockDB(ctrl)
	repo := postgresql.NewOrderRepo()
	variantID := uuid.New()
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	mockDB.EXPECT().
		Select(gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Eq(variantID),
			gomock.Eq([]string{"booked", "booked_paid", "issued", "returned"}),
			gomock.Eq(int64(9))).
		DoAndReturn(func(_ context.Context, dest *[]repository.Booking, query string, _ ...interface{}) error {
			assert.Contains(t, query, "o.archived = FALSE")
			*dest = []repository.Booking{{OrderID: 3, Status: repository.OrderBooked, StartTime: start, EndTime: start.AddDate(0, 0, 3)}}
			return nil
		})

	bookings, err := repo.ListBookings(context.Background(), mockDB, variantID, 9)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, int64(3), bookings[0].OrderID)
}

func TestOrderRepo_List(t *testing.T) {
	clientID := uuid.New()
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filter    repository.OrderFilter
		setupMock func(mockDB *mock_db.MockDB)
	}{
		{
			name:   "no constraints",
			filter: repository.OrderFilter{},
			setupMock: func(mockDB *mock_db.MockDB) {
				mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *[]*repository.Order, query string, _ ...interface{}) error {
						assert.Contains(t, query, "archived = FALSE")
						assert.NotContains(t, query, "LIMIT")
						return nil
					})
			},
		},
		{
			name: "every constraint",
			filter: repository.OrderFilter{
				ClientID:        clientID,
				Status:          repository.OrderIssued,
				From:            &from,
				To:              &to,
				IncludeArchived: true,
				Limit:           10,
			},
			setupMock: func(mockDB *mock_db.MockDB) {
				mockDB.EXPECT().
					Select(gomock.Any(), gomock.Any(), gomock.Any(),
						gomock.Eq(clientID), gomock.Eq(repository.OrderIssued), gomock.Eq(from), gomock.Eq(to), gomock.Eq(10)).
					DoAndReturn(func(_ context.Context, _ *[]*repository.Order, query string, _ ...interface{}) error {
						assert.NotContains(t, query, "archived = FALSE")
						assert.Contains(t, query, "client_id = $1")
						assert.Contains(t, query, "end_time >= $3")
						assert.Contains(t, query, "start_time <= $4")
						assert.Contains(t, query, "LIMIT $5")
						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := mock_db.NewMockDB(ctrl)
			tt.setupMock(mockDB)

			_, err := postgresql.NewOrderRepo().List(context.Background(), mockDB, tt.filter)
			assert.NoError(t, err)
		})
	}
}

func TestOrderRepo_ReplaceLines(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockTx := mock_db.NewMockTx(ctrl)
	repo := postgresql.NewOrderRepo()
	lines := []*repository.OrderLine{
		{VariantID: uuid.New(), Quantity: 1, Price: 500, Deposit: 1000},
		{VariantID: uuid.New(), Quantity: 2, Price: 300, Deposit: 0},
	}

	gomock.InOrder(
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(int64(4))).Return(pgconn.CommandTag("DELETE 1"), nil),
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(int64(4)), gomock.Eq(lines[0].VariantID), 1, 500, 1000).
			Return(pgconn.CommandTag("INSERT 0 1"), nil),
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(int64(4)), gomock.Eq(lines[1].VariantID), 2, 300, 0).
			Return(pgconn.CommandTag("INSERT 0 1"), nil),
	)

	assert.NoError(t, repo.ReplaceLines(context.Background(), mockTx, 4, lines))
}

func TestOrderRepo_Update_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockTx := mock_db.NewMockTx(ctrl)

	mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		gomock.Any(), gomock.Any()).Return(pgconn.CommandTag("UPDATE 0"), nil)

	err := postgresql.NewOrderRepo().Update(context.Background(), mockTx, &repository.Order{ID: 99})
	assert.ErrorIs(t, err, repository.ErrObjectNotFound)
}
