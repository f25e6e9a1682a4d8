package postgresql

import (
	"errors"

	"github.com/georgysavva/scany/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || pgxscan.NotFound(err)
}

// lifecycleClause is the one default visibility filter for archivable tables.
func lifecycleClause(includeArchived bool, column string) string {
	if includeArchived {
		return ""
	}
	return " AND " + column + " = FALSE"
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func activeStatusStrings() []string {
	out := make([]string, len(repository.ActiveOrderStatuses))
	for i, s := range repository.ActiveOrderStatuses {
		out[i] = string(s)
	}
	return out
}
