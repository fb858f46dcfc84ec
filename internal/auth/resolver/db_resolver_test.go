package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tophat51/notarobloxrevival/internal/auth"
)

func newMock(t *testing.T) (*DBResolver, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return NewDBResolver(db), mock
}

func TestResolveKnownIdentity(t *testing.T) {
	r, mock := newMock(t)

	mock.ExpectQuery(`SELECT user_id\s+FROM identities`).
		WithArgs("google", "sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("user-1"))

	id, err := r.Resolve(context.Background(), &auth.Identity{Provider: "google", ProviderUserID: "sub-1"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestResolveLinksVerifiedEmail(t *testing.T) {
	r, mock := newMock(t)

	mock.ExpectQuery(`SELECT user_id\s+FROM identities`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectQuery(`SELECT id\s+FROM users`).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))
	mock.ExpectExec(`INSERT INTO identities`).
		WithArgs("user-1", "google", "sub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := r.Resolve(context.Background(), &auth.Identity{
		Provider:       "google",
		ProviderUserID: "sub-1",
		Email:          "a@example.com",
		EmailVerified:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestResolveCreatesUserWithFreeUsername(t *testing.T) {
	r, mock := newMock(t)

	mock.ExpectQuery(`SELECT user_id\s+FROM identities`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("jane_doe", "jane.doe@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("jane_doe1", "jane.doe@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-9"))
	mock.ExpectExec(`INSERT INTO identities`).
		WithArgs("user-9", "keycloak", "sub-9").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := r.Resolve(context.Background(), &auth.Identity{
		Provider:       "keycloak",
		ProviderUserID: "sub-9",
		Email:          "jane.doe@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-9", id)
}

func TestResolveRollsBackUserWhenLinkFails(t *testing.T) {
	r, mock := newMock(t)
	linkErr := errors.New("duplicate key value violates unique constraint")

	mock.ExpectQuery(`SELECT user_id\s+FROM identities`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("tophat", "t@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-3"))
	mock.ExpectExec(`INSERT INTO identities`).
		WithArgs("user-3", "discord", "sub-3").
		WillReturnError(linkErr)
	mock.ExpectRollback()

	id, err := r.Resolve(context.Background(), &auth.Identity{
		Provider:          "discord",
		ProviderUserID:    "sub-3",
		PreferredUsername: "tophat",
		Email:             "t@example.com",
	})
	assert.ErrorIs(t, err, linkErr)
	assert.Empty(t, id)
}

func TestResolveRollsBackWhenUsernamesRunOut(t *testing.T) {
	r, mock := newMock(t)

	mock.ExpectQuery(`SELECT user_id\s+FROM identities`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectBegin()
	for i := 0; i < maxUsernameAttempts; i++ {
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
	}
	mock.ExpectRollback()

	_, err := r.Resolve(context.Background(), &auth.Identity{
		Provider:       "google",
		ProviderUserID: "sub-4",
		Email:          "popular@example.com",
	})
	assert.ErrorContains(t, err, "no free username")
}

func TestUsernameFor(t *testing.T) {
	assert.Equal(t, "jane_doe", UsernameFor(&auth.Identity{Email: "jane.doe@example.com"}))
	assert.Equal(t, "tophat", UsernameFor(&auth.Identity{PreferredUsername: "tophat", Email: "x@example.com"}))
	assert.Equal(t, "jo_", UsernameFor(&auth.Identity{Email: "jo@example.com"}))
	assert.Len(t, UsernameFor(&auth.Identity{Email: "averyveryverylongemailaddress@example.com"}), 21)
}
