// Package forum handles creating forum posts.
package forum

import (
	"context"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tophat51/notarobloxrevival/internal/form"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Category resolves the category named in the create-post page's query.
func (s *Service) Category(ctx context.Context, name string) (*Category, error) {
	if name == "" {
		return nil, form.Fail(http.StatusBadRequest, "Missing category")
	}

	c, err := s.repo.FindCategory(ctx, name)
	if errors.Is(err, ErrCategoryNotFound) {
		return nil, form.Fail(http.StatusNotFound, "Category not found")
	}
	return c, err
}

type CreatePostInput struct {
	Category string
	Title    string
	Content  string
}

func (s *Service) CreatePost(ctx context.Context, authorID string, in CreatePostInput) (*Post, error) {
	if in.Title == "" || in.Content == "" || in.Category == "" {
		return nil, form.Fail(http.StatusBadRequest, "Missing fields")
	}

	title := utf8.RuneCountInString(in.Title)
	content := utf8.RuneCountInString(in.Content)
	if title < 3 || title > 50 || content < 50 || content > 3000 {
		return nil, form.Fail(http.StatusBadRequest, "Invalid fields")
	}

	c, err := s.repo.FindCategory(ctx, in.Category)
	if errors.Is(err, ErrCategoryNotFound) {
		return nil, form.Fail(http.StatusBadRequest, "Invalid category")
	}
	if err != nil {
		return nil, err
	}

	p := &Post{
		ID:                uuid.New(),
		Title:             in.Title,
		Content:           in.Content,
		AuthorID:          authorID,
		ForumCategoryName: c.Name,
		Posted:            s.now(),
	}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
