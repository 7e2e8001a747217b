package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kuro-gg/wuwa-draft-backend/internal/draft"
)

// Postgres is the durable Store, one table per aggregate with the draft maps
// stored as JSONB through gorm's JSON serializer.
type Postgres struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.AutoMigrate(&draft.Match{}, &draft.User{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (s *Postgres) CreateMatch(ctx context.Context, m draft.Match) (draft.Match, error) {
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return draft.Match{}, fmt.Errorf("creating match: %w", err)
	}
	return m, nil
}

func (s *Postgres) Match(ctx context.Context, id int64) (draft.Match, error) {
	var m draft.Match
	err := s.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return draft.Match{}, ErrNotFound
	}
	if err != nil {
		return draft.Match{}, fmt.Errorf("loading match %d: %w", id, err)
	}
	return m, nil
}

func (s *Postgres) Matches(ctx context.Context) ([]draft.Match, error) {
	var out []draft.Match
	if err := s.db.WithContext(ctx).Order("created_at").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	return out, nil
}

func (s *Postgres) UpdateMatch(ctx context.Context, m draft.Match) (draft.Match, error) {
	res := s.db.WithContext(ctx).Model(&draft.Match{ID: m.ID}).
		Select("guest_id", "winner_id", "status", "current_phase", "current_turn", "bans", "picks", "teams").
		Updates(m)
	if res.Error != nil {
		return draft.Match{}, fmt.Errorf("updating match %d: %w", m.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return draft.Match{}, ErrNotFound
	}
	return m, nil
}

func (s *Postgres) CreateUser(ctx context.Context, u draft.User) (draft.User, error) {
	if u.Box == nil {
		u.Box = draft.Box{}
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return draft.User{}, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

func (s *Postgres) User(ctx context.Context, id int64) (draft.User, error) {
	var u draft.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return draft.User{}, ErrNotFound
	}
	if err != nil {
		return draft.User{}, fmt.Errorf("loading user %d: %w", id, err)
	}
	return u, nil
}

func (s *Postgres) UserByExternalID(ctx context.Context, externalID string) (draft.User, error) {
	var u draft.User
	err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return draft.User{}, ErrNotFound
	}
	if err != nil {
		return draft.User{}, fmt.Errorf("loading user by external id: %w", err)
	}
	return u, nil
}

func (s *Postgres) UpdateUserBox(ctx context.Context, userID int64, box draft.Box) (draft.User, error) {
	res := s.db.WithContext(ctx).Model(&draft.User{ID: userID}).
		Select("box").
		Updates(draft.User{Box: box})
	if res.Error != nil {
		return draft.User{}, fmt.Errorf("updating box for user %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return draft.User{}, ErrNotFound
	}
	return s.User(ctx, userID)
}
