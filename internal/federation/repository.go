package federation

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles federation profile persistence
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new federation repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get retrieves the stored profile, or nil when none was saved yet
func (r *Repository) Get(ctx context.Context) (*Profile, error) {
	p := &Profile{}
	if err := r.db.WithContext(ctx).First(p, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get federation profile: %w", err)
	}
	return p, nil
}

// Save inserts or replaces the profile row
func (r *Repository) Save(ctx context.Context, p *Profile) (*Profile, error) {
	p.ID = profileID
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(p).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save federation profile: %w", err)
	}
	return p, nil
}
