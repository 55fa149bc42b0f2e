package association

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository handles association data persistence
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new association repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new association into the database
func (r *Repository) Create(ctx context.Context, a *Association) (*Association, error) {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, fmt.Errorf("failed to create association: %w", err)
	}
	return a, nil
}

// GetByID retrieves an association by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Association, error) {
	a := &Association{}
	err := r.db.WithContext(ctx).First(a, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get association: %w", err)
	}

	if err := r.db.WithContext(ctx).Table("members").
		Where("association_id = ?", id).
		Count(&a.MemberCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	return a, nil
}

// List retrieves associations ordered by name
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Association, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Association{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count associations: %w", err)
	}

	var associations []*Association
	if err := r.db.WithContext(ctx).
		Order("name").
		Limit(limit).
		Offset(offset).
		Find(&associations).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list associations: %w", err)
	}

	if len(associations) > 0 {
		ids := make([]int64, len(associations))
		for i, a := range associations {
			ids[i] = a.ID
		}
		var counts []struct {
			AssociationID int64
			Total         int64
		}
		if err := r.db.WithContext(ctx).Table("members").
			Select("association_id, COUNT(*) AS total").
			Where("association_id IN ?", ids).
			Group("association_id").
			Scan(&counts).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to count members: %w", err)
		}
		byID := make(map[int64]int64, len(counts))
		for _, c := range counts {
			byID[c.AssociationID] = c.Total
		}
		for _, a := range associations {
			a.MemberCount = byID[a.ID]
		}
	}

	return associations, int(total), nil
}

// Update saves the modified association
func (r *Repository) Update(ctx context.Context, a *Association) (*Association, error) {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return nil, fmt.Errorf("failed to update association: %w", err)
	}
	return a, nil
}

// Delete removes an association together with its members and everything
// that hangs off them
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		members := tx.Table("members").Select("id").Where("association_id = ?", id)
		for _, table := range []string{"cards", "bureau_memberships", "committee_memberships"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE member_id IN (?)", members).Error; err != nil {
				return fmt.Errorf("failed to delete %s: %w", table, err)
			}
		}
		if err := tx.Exec("DELETE FROM members WHERE association_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete members: %w", err)
		}
		result := tx.Delete(&Association{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete association: %w", result.Error)
		}
		found = result.RowsAffected > 0
		return nil
	})
	return found, err
}

// CardNumbersOutside returns the card numbers of members that do not belong
// to the given association
func (r *Repository) CardNumbersOutside(ctx context.Context, associationID int64) ([]string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).Table("members").
		Where("association_id <> ? AND card_number <> ''", associationID).
		Pluck("card_number", &numbers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list card numbers: %w", err)
	}
	return numbers, nil
}

// Count returns the number of associations
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Association{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count associations: %w", err)
	}
	return n, nil
}
