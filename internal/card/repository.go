package card

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Repository handles card data persistence
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new card repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new card
func (r *Repository) Create(ctx context.Context, c *Card) (*Card, error) {
	if err := r.db.WithContext(ctx).Omit("Member").Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}
	return c, nil
}

// GetByID retrieves a card with its member and association
func (r *Repository) GetByID(ctx context.Context, id int64) (*Card, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByMemberID retrieves the card of a member
func (r *Repository) GetByMemberID(ctx context.Context, memberID int64) (*Card, error) {
	return r.first(ctx, "member_id = ?", memberID)
}

func (r *Repository) first(ctx context.Context, query string, arg int64) (*Card, error) {
	c := &Card{}
	err := r.db.WithContext(ctx).
		Preload("Member.Association").
		Where(query, arg).
		First(c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return c, nil
}

// List retrieves cards, most recently generated first
func (r *Repository) List(ctx context.Context, printed *bool, limit, offset int) ([]*Card, int, error) {
	query := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&Card{})
		if printed != nil {
			q = q.Where("is_printed = ?", *printed)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cards: %w", err)
	}

	var cards []*Card
	if err := query().Preload("Member.Association").
		Order("generated_at DESC").Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&cards).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list cards: %w", err)
	}

	return cards, int(total), nil
}

// MarkPrinted flags an unprinted card as printed. It reports false when the
// card was already printed or does not exist.
func (r *Repository) MarkPrinted(ctx context.Context, id int64, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&Card{}).
		Where("id = ? AND is_printed = ?", id, false).
		Updates(map[string]any{"is_printed": true, "printed_at": at})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark card as printed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Count returns the number of generated cards
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Card{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return n, nil
}
