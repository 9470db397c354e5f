package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timesheet/core/internal/domain/entities"
)

func TestReferenceRepositories(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM projects")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("p1", "BFC new phase Team"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM tasks")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("t1", "Development").AddRow("t2", "Meeting"))

	projects, err := NewProjectRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entities.Project{{ID: "p1", Name: "BFC new phase Team"}}, projects)

	tasks, err := NewTaskRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestGetRefreshTokenMissing(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens")).
		WithArgs("hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "created_at", "revoked_at"}))

	_, err := NewAuthRepository(db).GetRefreshToken(context.Background(), "hash")
	assert.ErrorIs(t, err, entities.ErrRefreshTokenInvalid)
}

func TestUserGetByEmailLowercases(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE email = $1")).
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "display_name", "password_hash", "is_active", "created_at", "updated_at"}))

	_, err := NewUserRepository(db).GetByEmail(context.Background(), "Ana@Example.com")
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
}
