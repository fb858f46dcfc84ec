// Package feed builds the signed-in home page: live places, friends and
// the latest status posts.
package feed

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tophat51/notarobloxrevival/internal/db"
	"github.com/tophat51/notarobloxrevival/internal/logger"
	"github.com/tophat51/notarobloxrevival/internal/session"
)

const (
	// A game session counts as live when it pinged within this window.
	liveWindow = 35 * time.Second

	feedSize = 40
)

type FriendLister interface {
	Friends(ctx context.Context, username string) ([]string, error)
}

type Home struct {
	Places  []Place      `json:"places"`
	Friends []db.UserRef `json:"friends"`
	Feed    []Post       `json:"feed"`
}

type Service struct {
	repo    Repository
	friends FriendLister
	now     func() time.Time
}

func NewService(repo Repository, friends FriendLister) *Service {
	return &Service{repo: repo, friends: friends, now: time.Now}
}

func (s *Service) Home(ctx context.Context, user *session.User) (*Home, error) {
	var home Home
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		places, err := s.repo.PublicPlaces(ctx, s.now().Add(-liveWindow).Unix())
		home.Places = places
		return err
	})

	g.Go(func() error {
		friends, err := s.Friends(ctx, user.Attributes.Username)
		home.Friends = friends
		return err
	})

	g.Go(func() error {
		posts, err := s.repo.RecentPosts(ctx, feedSize)
		home.Feed = posts
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &home, nil
}

// Friends resolves the user's friends in graph order, skipping names
// with no matching account. The graph is best effort: when it cannot be
// reached the list is empty.
func (s *Service) Friends(ctx context.Context, username string) ([]db.UserRef, error) {
	names, err := s.friends.Friends(ctx, username)
	if err != nil {
		logger.Warn("friends lookup failed", map[string]any{
			"user":  username,
			"error": err.Error(),
		})
		return []db.UserRef{}, nil
	}

	users, err := s.repo.Users(ctx, names)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]db.UserRef, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}

	out := make([]db.UserRef, 0, len(names))
	for _, name := range names {
		if u, ok := byName[name]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Service) PostStatus(ctx context.Context, author *session.User, status string) (*Post, error) {
	p := &Post{
		ID:       uuid.New(),
		Content:  status,
		AuthorID: author.ID,
		Posted:   s.now(),
	}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
