package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "7d5b5a0e-2f3c-4a53-9d59-3c1f1f3e6b11"

func newMockAdapter(t *testing.T) (*PostgresAdapter, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return NewPostgresAdapter(db), mock
}

func TestSetSessionWritesSecondsAndEdgeInOneStatement(t *testing.T) {
	a, mock := newMockAdapter(t)
	expiresAt := time.Date(2026, 10, 19, 12, 30, 15, 900_000_000, time.UTC)

	mock.ExpectExec(querySetSession).
		WithArgs("abc", expiresAt.Unix(), testUserID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := a.SetSession(context.Background(), Session{
		ID:        "abc",
		UserID:    testUserID,
		ExpiresAt: expiresAt,
	})
	require.NoError(t, err)
}

func TestGetSessionAndUser(t *testing.T) {
	expires := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	t.Run("session with owner", func(t *testing.T) {
		a, mock := newMockAdapter(t)

		userJSON := []byte(`{
			"id": "` + testUserID + `",
			"username": "tophat",
			"number": 1,
			"email": "tophat@example.com",
			"permission_level": 5,
			"currency": 1500,
			"currency_collected": "2026-10-18T10:00:00.123456+00:00",
			"created": "2024-01-01T00:00:00+00:00",
			"last_online": "2026-10-19T09:00:00+00:00",
			"status": "Online",
			"css": "",
			"body_colours": {"Head": 1, "LeftArm": 2, "LeftLeg": 3, "RightArm": 4, "RightLeg": 5, "Torso": 6},
			"bio": [{"text": "hello", "updated": "2025-05-05T05:05:05+00:00"}]
		}`)

		mock.ExpectQuery(queryGetSessionAndUser).
			WithArgs("abc").
			WillReturnRows(sqlmock.NewRows([]string{"id", "expires_at", "user_id", "user"}).
				AddRow("abc", expires.Unix(), testUserID, userJSON))

		s, u, err := a.GetSessionAndUser(context.Background(), "abc")
		require.NoError(t, err)
		require.NotNil(t, s)
		require.NotNil(t, u)

		assert.Equal(t, "abc", s.ID)
		assert.Equal(t, testUserID, s.UserID)
		assert.True(t, s.ExpiresAt.Equal(expires))

		assert.Equal(t, testUserID, u.ID)
		assert.Equal(t, "tophat", u.Attributes.Username)
		assert.Equal(t, int64(1), u.Attributes.Number)
		assert.Equal(t, 5, u.Attributes.PermissionLevel)
		assert.Equal(t, StatusOnline, u.Attributes.Status)
		assert.Equal(t, 6, u.Attributes.BodyColours.Torso)
		require.Len(t, u.Attributes.Bio, 1)
		assert.Equal(t, "hello", u.Attributes.Bio[0].Text)
	})

	t.Run("session without owner", func(t *testing.T) {
		a, mock := newMockAdapter(t)

		mock.ExpectQuery(queryGetSessionAndUser).
			WithArgs("orphan").
			WillReturnRows(sqlmock.NewRows([]string{"id", "expires_at", "user_id", "user"}).
				AddRow("orphan", expires.Unix(), nil, nil))

		s, u, err := a.GetSessionAndUser(context.Background(), "orphan")
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Nil(t, u)
		assert.Empty(t, s.UserID)
	})

	t.Run("missing session", func(t *testing.T) {
		a, mock := newMockAdapter(t)

		mock.ExpectQuery(queryGetSessionAndUser).
			WithArgs("gone").
			WillReturnRows(sqlmock.NewRows([]string{"id", "expires_at", "user_id", "user"}))

		s, u, err := a.GetSessionAndUser(context.Background(), "gone")
		require.NoError(t, err)
		assert.Nil(t, s)
		assert.Nil(t, u)
	})
}

func TestUpdateSessionExpirationTouchesOnlyExpiry(t *testing.T) {
	a, mock := newMockAdapter(t)
	next := time.Date(2027, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec(queryUpdateSessionExpiration).
		WithArgs("abc", next.Unix()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, a.UpdateSessionExpiration(context.Background(), "abc", next))
}

func TestDeletesAreIdempotent(t *testing.T) {
	a, mock := newMockAdapter(t)

	mock.ExpectExec(queryDeleteSession).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(queryDeleteUserSessions).
		WithArgs(testUserID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(queryDeleteExpiredSessions).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	require.NoError(t, a.DeleteSession(ctx, "nope"))
	require.NoError(t, a.DeleteUserSessions(ctx, testUserID))
	require.NoError(t, a.DeleteExpiredSessions(ctx))
}

func TestGetUserSessions(t *testing.T) {
	a, mock := newMockAdapter(t)
	first := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	mock.ExpectQuery(queryGetUserSessions).
		WithArgs(testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "expires_at", "user_id"}).
			AddRow("one", first.Unix(), testUserID).
			AddRow("two", second.Unix(), testUserID))

	sessions, err := a.GetUserSessions(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "one", sessions[0].ID)
	assert.True(t, sessions[1].ExpiresAt.Equal(second))
	assert.Equal(t, testUserID, sessions[1].UserID)
}

func TestGetUserSessionsEmpty(t *testing.T) {
	a, mock := newMockAdapter(t)

	mock.ExpectQuery(queryGetUserSessions).
		WithArgs(testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "expires_at", "user_id"}))

	sessions, err := a.GetUserSessions(context.Background(), testUserID)
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestStoreErrorsPropagateUnchanged(t *testing.T) {
	a, mock := newMockAdapter(t)
	boom := errors.New("connection reset by peer")

	mock.ExpectExec(querySetSession).WillReturnError(boom)
	mock.ExpectQuery(queryGetSessionAndUser).WillReturnError(boom)
	mock.ExpectQuery(queryGetUserSessions).WillReturnError(boom)
	mock.ExpectExec(queryDeleteSession).WillReturnError(boom)

	ctx := context.Background()

	err := a.SetSession(ctx, Session{ID: "abc", UserID: testUserID, ExpiresAt: time.Now()})
	assert.Same(t, boom, err)

	_, _, err = a.GetSessionAndUser(ctx, "abc")
	assert.Same(t, boom, err)

	_, err = a.GetUserSessions(ctx, testUserID)
	assert.Same(t, boom, err)

	err = a.DeleteSession(ctx, "abc")
	assert.Same(t, boom, err)
}

func TestUnixRoundTripAtSecondPrecision(t *testing.T) {
	times := []time.Time{
		time.Unix(0, 0),
		time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2026, 10, 19, 8, 0, 1, 0, time.FixedZone("X", 3*3600)),
		time.Date(2106, 2, 7, 6, 28, 16, 0, time.UTC),
	}

	for _, tm := range times {
		got := fromUnix(toUnix(tm))
		assert.True(t, got.Equal(tm), "%s != %s", got, tm)
	}

	sub := time.Date(2026, 1, 1, 0, 0, 0, 999_999_999, time.UTC)
	assert.True(t, fromUnix(toUnix(sub)).Equal(sub.Truncate(time.Second)))
}
