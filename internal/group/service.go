// Package group handles creating groups, which costs the creator a fee
// paid through the economy service.
package group

import (
	"context"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tophat51/notarobloxrevival/internal/economy"
	"github.com/tophat51/notarobloxrevival/internal/form"
	"github.com/tophat51/notarobloxrevival/internal/logger"
	"github.com/tophat51/notarobloxrevival/internal/session"
)

const (
	// CreationCost is charged to the creator and paid to the site account.
	CreationCost = 10 * economy.Unit

	siteAccountNumber = 1
)

// Names that collide with routes under /groups.
var reserved = map[string]bool{
	"create": true,
	"wisely": true,
}

type Transactor interface {
	Transact(ctx context.Context, tx economy.Tx) error
}

type Service struct {
	repo    Repository
	economy Transactor
}

func NewService(repo Repository, economy Transactor) *Service {
	return &Service{repo: repo, economy: economy}
}

func (s *Service) Create(ctx context.Context, owner *session.User, name string) (*Group, error) {
	if name == "" {
		return nil, form.Fail(http.StatusBadRequest, "Missing fields")
	}
	if n := utf8.RuneCountInString(name); n < 3 || n > 40 {
		return nil, form.Fail(http.StatusBadRequest, "Invalid fields")
	}
	if reserved[name] {
		return nil, form.Fail(http.StatusBadRequest, "That group name is reserved")
	}

	exists, err := s.repo.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errNameTaken()
	}

	err = s.economy.Transact(ctx, economy.Tx{
		From:   owner.Attributes.Number,
		To:     siteAccountNumber,
		Amount: CreationCost,
		Link:   "/groups/" + name,
		Note:   "Created group " + name,
	})
	if err != nil {
		var econErr *economy.Error
		if errors.As(err, &econErr) {
			return nil, form.Fail(http.StatusPaymentRequired, econErr.Msg)
		}
		return nil, form.Fail(http.StatusPaymentRequired, err.Error())
	}

	g := &Group{
		ID:            uuid.New(),
		Name:          name,
		OwnerUsername: owner.Attributes.Username,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		if errors.Is(err, ErrNameTaken) {
			// Lost a race after paying. Nothing refunds automatically.
			logger.Warn("group name taken after charge", map[string]any{
				"name": name,
				"user": owner.ID,
			})
			return nil, errNameTaken()
		}
		return nil, err
	}

	return g, nil
}

func errNameTaken() *form.Error {
	return form.Fail(http.StatusBadRequest, "A group with this name already exists")
}
