package credentials

import (
	"context"
	"database/sql"
	"errors"
	"regexp"

	"github.com/lib/pq"

	"github.com/tophat51/notarobloxrevival/internal/db"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidUsername    = errors.New("username must be 3-21 characters of letters, numbers and underscores")
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,21}$`)

func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

// Register creates a password account and returns the new user id.
func (s *Service) Register(
	ctx context.Context,
	username string,
	email string,
	password string,
) (string, error) {

	if !ValidUsername(username) {
		return "", ErrInvalidUsername
	}

	// 1. Username must be free, case-insensitively
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE LOWER(username) = LOWER($1)
		)
	`, username).Scan(&exists)

	if err != nil {
		return "", err
	}

	if exists {
		return "", ErrUsernameTaken
	}

	// 2. Hash password
	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	// 3. Insert user
	var userID string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, hashed_password)
		VALUES ($1, $2, $3)
		RETURNING id
	`, username, email, hash).Scan(&userID)

	// A concurrent registration can claim the name after the check above.
	if isUniqueViolation(err) {
		return "", ErrUsernameTaken
	}
	if err != nil {
		return "", err
	}

	return userID, nil
}

func (s *Service) Authenticate(
	ctx context.Context,
	username string,
	password string,
) (string, error) {

	var (
		userID       string
		passwordHash string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, hashed_password
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`, username).Scan(&userID, &passwordHash)

	if errors.Is(err, sql.ErrNoRows) {
		// hide whether user exists or not
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	// OAuth-only accounts have no password
	if passwordHash == "" {
		return "", ErrInvalidCredentials
	}

	if err := VerifyPassword(passwordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return userID, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
