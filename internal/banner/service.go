// Package banner manages the announcements administrators put above
// every page.
package banner

import (
	"context"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tophat51/notarobloxrevival/internal/form"
)

// MaxActive is how many banners may be shown at once.
const MaxActive = 3

const (
	areaCreate = "create"
	areaModal  = "modal"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Banner, error) {
	return s.repo.List(ctx)
}

type CreateInput struct {
	Text      string
	Colour    string
	TextLight bool
}

func (s *Service) Create(ctx context.Context, authorID string, in CreateInput) (*Banner, error) {
	if in.Text == "" || in.Colour == "" {
		return nil, form.FailIn(http.StatusBadRequest, areaCreate, "Missing fields")
	}
	if n := utf8.RuneCountInString(in.Text); n < 3 || n > 100 {
		return nil, form.FailIn(http.StatusBadRequest, areaCreate, "Banner text too long")
	}

	active, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	if active >= MaxActive {
		return nil, form.FailIn(http.StatusBadRequest, areaCreate, "Too many active banners")
	}

	b := &Banner{
		ID:        uuid.New(),
		Body:      in.Text,
		BgColour:  in.Colour,
		TextLight: in.TextLight,
		Active:    true,
		UserID:    authorID,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) SetActive(ctx context.Context, rawID string, active bool) error {
	id, err := parseID(rawID, "")
	if err != nil {
		return err
	}
	return notFound(s.repo.SetActive(ctx, id, active), "")
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID, "")
	if err != nil {
		return err
	}
	return notFound(s.repo.Delete(ctx, id), "")
}

func (s *Service) UpdateBody(ctx context.Context, rawID, body string) error {
	if body == "" || rawID == "" {
		return form.FailIn(http.StatusBadRequest, areaModal, "Missing fields")
	}
	if n := utf8.RuneCountInString(body); n < 3 || n > 99 {
		return form.FailIn(http.StatusBadRequest, areaModal, "Banner text is too long/short")
	}

	id, err := parseID(rawID, areaModal)
	if err != nil {
		return err
	}
	return notFound(s.repo.UpdateBody(ctx, id, body), areaModal)
}

func parseID(raw, area string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, form.FailIn(http.StatusBadRequest, area, "Missing fields")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, form.FailIn(http.StatusBadRequest, area, "Invalid fields")
	}
	return id, nil
}

func notFound(err error, area string) error {
	if errors.Is(err, ErrNotFound) {
		return form.FailIn(http.StatusNotFound, area, "Banner not found")
	}
	return err
}
