// Package repository defines the profile and interaction store
// interfaces and their sqlite implementation.
package repository

import (
	"context"

	"github.com/jamaine1984/indira/internal/domain/model"
)

// Filter narrows a profile query. Only equality filters are supported.
type Filter struct {
	// Gender matches profiles whose gender equals this value. Empty
	// means no gender filter.
	Gender string
}

// ProfileStore provides read access to user profiles. The user store
// is eventually consistent; callers must not assume a read reflects
// the latest write.
type ProfileStore interface {
	// Get returns the profile for id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (model.Profile, error)

	// Query returns up to pageSize profiles matching the filter.
	Query(ctx context.Context, f Filter, pageSize int) ([]model.Profile, error)

	// List returns up to limit profiles in stable id order. Used by
	// the capped full-recompute job.
	List(ctx context.Context, limit int) ([]model.Profile, error)
}

// InteractionStore provides read access to like/swipe history.
type InteractionStore interface {
	// QueryByActor returns the target ids the actor has interacted
	// with for the given kind.
	QueryByActor(ctx context.Context, actorID string, kind model.InteractionKind) ([]string, error)
}
