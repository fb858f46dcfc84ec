package resolver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tophat51/notarobloxrevival/internal/auth"
	"github.com/tophat51/notarobloxrevival/internal/db"
)

const maxUsernameAttempts = 20

// DBResolver resolves identities using the users and identities tables.
type DBResolver struct {
	db db.Beginner
}

func NewDBResolver(b db.Beginner) *DBResolver {
	return &DBResolver{db: b}
}

func (r *DBResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (string, error) {

	if identity == nil {
		return "", errors.New("identity is nil")
	}

	// 1. Known identity
	var userID string
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id
		FROM identities
		WHERE provider = $1
		  AND provider_user_id = $2
	`,
		identity.Provider,
		identity.ProviderUserID,
	).Scan(&userID)

	if err == nil {
		return userID, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	// 2. Link to an existing account by email, only when the provider
	// vouches for the address
	if identity.EmailVerified {
		err = r.db.QueryRowContext(ctx, `
			SELECT id
			FROM users
			WHERE LOWER(email) = LOWER($1)
			LIMIT 1
		`,
			identity.Email,
		).Scan(&userID)

		if err == nil {
			return userID, link(ctx, r.db, userID, identity)
		}

		if !errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
	}

	// 3. New user, created and linked together so a failed link never
	// leaves an account nobody can sign in to
	err = db.InTx(ctx, r.db, func(tx db.Querier) error {
		var err error
		userID, err = createUser(ctx, tx, identity)
		if err != nil {
			return err
		}
		return link(ctx, tx, userID, identity)
	})
	if err != nil {
		return "", err
	}

	return userID, nil
}

func link(ctx context.Context, q db.Querier, userID string, identity *auth.Identity) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO identities (user_id, provider, provider_user_id)
		VALUES ($1, $2, $3)
	`,
		userID,
		identity.Provider,
		identity.ProviderUserID,
	)
	return err
}

// createUser picks the first free username derived from the identity.
func createUser(ctx context.Context, q db.Querier, identity *auth.Identity) (string, error) {
	base := UsernameFor(identity)

	for i := 0; i < maxUsernameAttempts; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s%d", truncate(base, 21-len(fmt.Sprint(i))), i)
		}

		var userID string
		err := q.QueryRowContext(ctx, `
			INSERT INTO users (username, email)
			VALUES ($1, $2)
			ON CONFLICT ((LOWER(username))) DO NOTHING
			RETURNING id
		`,
			name,
			identity.Email,
		).Scan(&userID)

		if err == nil {
			return userID, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
	}

	return "", fmt.Errorf("no free username for %s identity", identity.Provider)
}

// UsernameFor derives a valid username from the preferred username or
// the local part of the email address.
func UsernameFor(identity *auth.Identity) string {
	src := identity.PreferredUsername
	if src == "" {
		src, _, _ = strings.Cut(identity.Email, "@")
	}

	var b strings.Builder
	for _, c := range src {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b.WriteRune(c)
		case c == '.' || c == '-' || c == ' ':
			b.WriteByte('_')
		}
	}

	name := truncate(b.String(), 21)
	for len(name) < 3 {
		name += "_"
	}
	return name
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
