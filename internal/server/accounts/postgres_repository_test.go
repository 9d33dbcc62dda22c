package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophmail/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

const (
	insertQuery = `(?s)^INSERT\s+INTO\s+accounts\s*\(id,\s*display_name,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+created_at$`
	selectQuery = `(?s)^SELECT\s+id,\s*display_name,\s*password_hash,\s*created_at\s+FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1$`
)

func TestPostgresCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "Alice", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	got, err := repo.Create(context.Background(), &Account{ID: "alice", DisplayName: "Alice", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, "alice", got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_UniqueViolation(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "Alice", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	_, err := repo.Create(context.Background(), &Account{ID: "alice", DisplayName: "Alice", PasswordHash: "hash"})
	require.ErrorIs(t, err, common.ErrDuplicateAccount)
}

func TestPostgresCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "Alice", "hash").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &Account{ID: "alice", DisplayName: "Alice", PasswordHash: "hash"})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
	assert.NotErrorIs(t, err, common.ErrDuplicateAccount)
}

func TestPostgresGetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(selectQuery).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "password_hash", "created_at"}).
			AddRow("bob", "Bob", "h", created))

	got, err := repo.GetByID(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, &Account{ID: "bob", DisplayName: "Bob", PasswordHash: "h", CreatedAt: created}, got)
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(selectQuery).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestPostgresListIDs(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+id\s+FROM\s+accounts\s+ORDER\s+BY\s+created_at,\s*id$`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("alice").AddRow("bob"))

	ids, err := repo.ListIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, ids)
}

func TestPostgresListIDs_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT id FROM accounts`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ids, err := repo.ListIDs(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestPostgresCount(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM accounts`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
