package member

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// updatableColumns lists what an update may write; card_number is absent on purpose
var updatableColumns = []string{
	"association_id", "last_name", "first_name", "national_id", "field", "track",
	"photo_path", "birth_date", "institution", "address", "phone", "email",
	"facebook_name", "updated_at",
}

// ListFilter narrows member listings
type ListFilter struct {
	AssociationID *int64
}

// Repository handles member data persistence
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new member repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new member into the database
func (r *Repository) Create(ctx context.Context, m *Member) (*Member, error) {
	if err := r.db.WithContext(ctx).Omit("Association").Create(m).Error; err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return m, nil
}

// GetByID retrieves a member by ID, with its association
func (r *Repository) GetByID(ctx context.Context, id int64) (*Member, error) {
	m := &Member{}
	err := r.db.WithContext(ctx).Preload("Association").First(m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// GetByAccountSubject retrieves the member linked to an authentication identity
func (r *Repository) GetByAccountSubject(ctx context.Context, subject string) (*Member, error) {
	m := &Member{}
	err := r.db.WithContext(ctx).Preload("Association").
		Where("account_subject = ?", subject).
		First(m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member by account: %w", err)
	}
	return m, nil
}

// ExistsByNationalID reports whether another member already holds nationalID
func (r *Repository) ExistsByNationalID(ctx context.Context, nationalID string, excludeID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Member{}).
		Where("national_id = ? AND id <> ?", nationalID, excludeID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check national id: %w", err)
	}
	return n > 0, nil
}

// ExistsByAccountSubject reports whether an identity is already linked to a member
func (r *Repository) ExistsByAccountSubject(ctx context.Context, subject string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Member{}).
		Where("account_subject = ?", subject).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check account subject: %w", err)
	}
	return n > 0, nil
}

// CardNumbersOf returns the card numbers of every member of an association
func (r *Repository) CardNumbersOf(ctx context.Context, associationID int64) ([]string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).Model(&Member{}).
		Where("association_id = ?", associationID).
		Pluck("card_number", &numbers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list card numbers: %w", err)
	}
	return numbers, nil
}

// List retrieves members, newest first
func (r *Repository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Member, int, error) {
	query := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&Member{})
		if filter.AssociationID != nil {
			q = q.Where("association_id = ?", *filter.AssociationID)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	var members []*Member
	if err := query().Preload("Association").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&members).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}

	return members, int(total), nil
}

// Count returns the total number of members
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Member{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return n, nil
}

// Update writes the editable columns of m. The card number is never written.
func (r *Repository) Update(ctx context.Context, m *Member) (*Member, error) {
	err := r.db.WithContext(ctx).Model(m).
		Select(updatableColumns).
		Omit("Association").
		Updates(m).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return m, nil
}

// Delete removes a member together with its card, bureau and committee rows
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"cards", "bureau_memberships", "committee_memberships"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE member_id = ?", id).Error; err != nil {
				return fmt.Errorf("failed to delete %s: %w", table, err)
			}
		}
		result := tx.Delete(&Member{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete member: %w", result.Error)
		}
		found = result.RowsAffected > 0
		return nil
	})
	return found, err
}
