package postgresql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	mock_db "gitlab.ozon.dev/pupkingeorgij/rental/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository/postgresql"
)

type fakeRow struct {
	value string
	err   error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.value
	return nil
}

func TestUserRepo_ValidateUser(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		row      fakeRow
		password string
		want     bool
		wantErr  bool
	}{
		{name: "valid password", row: fakeRow{value: string(hash)}, password: "secret", want: true},
		{name: "wrong password", row: fakeRow{value: string(hash)}, password: "guess", want: false},
		{name: "unknown user", row: fakeRow{err: pgx.ErrNoRows}, password: "secret", want: false},
		{name: "database error", row: fakeRow{err: errors.New("connection reset")}, password: "secret", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := mock_db.NewMockDB(ctrl)
			mockDB.EXPECT().ExecQueryRow(gomock.Any(), gomock.Any(), gomock.Eq("admin")).Return(tt.row)

			ok, err := postgresql.NewUserRepo(mockDB).ValidateUser(context.Background(), "admin", tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}
