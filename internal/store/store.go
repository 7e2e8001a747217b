// Package store is the keyed record store for Match and User aggregates.
// The coordinator and room only ever see this interface; postgres (gorm)
// backs it in production and an in-memory map backs tests and dev mode.
package store

import (
	"context"
	"errors"

	"github.com/kuro-gg/wuwa-draft-backend/internal/draft"
)

var ErrNotFound = errors.New("record not found")

type Store interface {
	CreateMatch(ctx context.Context, m draft.Match) (draft.Match, error)
	Match(ctx context.Context, id int64) (draft.Match, error)
	// Matches lists every match ordered by creation time.
	Matches(ctx context.Context) ([]draft.Match, error)
	UpdateMatch(ctx context.Context, m draft.Match) (draft.Match, error)

	CreateUser(ctx context.Context, u draft.User) (draft.User, error)
	User(ctx context.Context, id int64) (draft.User, error)
	UserByExternalID(ctx context.Context, externalID string) (draft.User, error)
	UpdateUserBox(ctx context.Context, userID int64, box draft.Box) (draft.User, error)
}
