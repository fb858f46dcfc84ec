package resolver

import (
	"context"

	"github.com/tophat51/notarobloxrevival/internal/auth"
)

// Resolver determines which internal user an external identity belongs to.
type Resolver interface {
	Resolve(
		ctx context.Context,
		identity *auth.Identity,
	) (userID string, err error)
}
