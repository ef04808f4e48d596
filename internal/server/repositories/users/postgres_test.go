package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func userRows(u *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}).
		AddRow(u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
}

func sampleUser() *models.User {
	now := time.Now()
	return &models.User{
		ID:           1,
		Name:         "Ann",
		Email:        "ann@x.com",
		PasswordHash: "$2a$10$hash",
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCreate_ReturnsInsertedRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := sampleUser()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(u.Name, u.Email, u.PasswordHash, u.Role).
		WillReturnRows(userRows(u))

	got, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Email, got.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := sampleUser()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), u)
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
		WithArgs("missing@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "missing@x.com")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByID_Found(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := sampleUser()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
		WithArgs(u.ID).
		WillReturnRows(userRows(u))

	got, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
}

func TestList_ReturnsAllRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}).
		AddRow(1, "Ann", "ann@x.com", "h1", "user", now, now).
		AddRow(2, "Bob", "bob@x.com", "h2", "admin", now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.RoleAdmin, got[1].Role)
}

func TestUpdate_PartialFields(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := sampleUser()
	name := "Ann Updated"

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET name = $1, updated_at = now() WHERE id = $2`)).
		WithArgs(name, u.ID).
		WillReturnRows(userRows(u))

	_, err := repo.Update(context.Background(), u.ID, UpdateParams{Name: &name})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	name := "Nobody"

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users`)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), 42, UpdateParams{Name: &name})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	email := "taken@x.com"

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Update(context.Background(), 1, UpdateParams{Email: &email})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestUpdate_EmptyParamsReadsCurrentRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := sampleUser()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
		WithArgs(u.ID).
		WillReturnRows(userRows(u))

	got, err := repo.Update(context.Background(), u.ID, UpdateParams{})
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
}

func TestDelete_ReturnsDeletedRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := sampleUser()

	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM users`)).
		WithArgs(u.ID).
		WillReturnRows(userRows(u))

	got, err := repo.Delete(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM users`)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Delete(context.Background(), 42)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDbErrorsAreWrapped(t *testing.T) {
	repo, mock := newMockRepo(t)

	boom := errors.New("connection refused")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).WillReturnError(boom)

	_, err := repo.GetByID(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}
