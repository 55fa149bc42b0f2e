package bureau

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Repository handles persistence of office functions, bureau seats and
// committee seats
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new bureau repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Office functions

// CreateFunction inserts a new office function
func (r *Repository) CreateFunction(ctx context.Context, f *OfficeFunction) (*OfficeFunction, error) {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		return nil, fmt.Errorf("failed to create office function: %w", err)
	}
	return f, nil
}

// GetFunction retrieves an office function by ID
func (r *Repository) GetFunction(ctx context.Context, id int64) (*OfficeFunction, error) {
	f := &OfficeFunction{}
	if err := r.db.WithContext(ctx).First(f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get office function: %w", err)
	}
	return f, nil
}

// GetFunctionByName retrieves an office function by its unique name
func (r *Repository) GetFunctionByName(ctx context.Context, name string) (*OfficeFunction, error) {
	f := &OfficeFunction{}
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get office function: %w", err)
	}
	return f, nil
}

// ListFunctions retrieves office functions by rank, then name
func (r *Repository) ListFunctions(ctx context.Context) ([]*OfficeFunction, error) {
	var functions []*OfficeFunction
	if err := r.db.WithContext(ctx).Order("rank ASC").Order("name ASC").Find(&functions).Error; err != nil {
		return nil, fmt.Errorf("failed to list office functions: %w", err)
	}
	return functions, nil
}

// UpdateFunction saves every column of f
func (r *Repository) UpdateFunction(ctx context.Context, f *OfficeFunction) (*OfficeFunction, error) {
	if err := r.db.WithContext(ctx).Save(f).Error; err != nil {
		return nil, fmt.Errorf("failed to update office function: %w", err)
	}
	return f, nil
}

// DeleteFunction removes an office function and every seat that referenced it
func (r *Repository) DeleteFunction(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("function_id = ?", id).Delete(&BureauMembership{}).Error; err != nil {
			return fmt.Errorf("failed to delete bureau seats: %w", err)
		}
		result := tx.Delete(&OfficeFunction{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete office function: %w", result.Error)
		}
		found = result.RowsAffected > 0
		return nil
	})
	return found, err
}

// Bureau seats

// CreateMembership inserts a bureau seat
func (r *Repository) CreateMembership(ctx context.Context, b *BureauMembership) (*BureauMembership, error) {
	if err := r.db.WithContext(ctx).Omit("Member", "Function").Create(b).Error; err != nil {
		return nil, fmt.Errorf("failed to create bureau membership: %w", err)
	}
	return b, nil
}

// GetMembership retrieves a bureau seat with its member and function
func (r *Repository) GetMembership(ctx context.Context, id int64) (*BureauMembership, error) {
	b := &BureauMembership{}
	err := r.db.WithContext(ctx).Preload("Member").Preload("Function").First(b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bureau membership: %w", err)
	}
	return b, nil
}

// HasCurrentMembership reports whether a member currently holds a function
func (r *Repository) HasCurrentMembership(ctx context.Context, memberID, functionID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&BureauMembership{}).
		Where("member_id = ? AND function_id = ? AND is_current = ?", memberID, functionID, true).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check bureau membership: %w", err)
	}
	return n > 0, nil
}

// ListCurrentMemberships retrieves the sitting bureau by function rank, then
// member last name
func (r *Repository) ListCurrentMemberships(ctx context.Context) ([]*BureauMembership, error) {
	var seats []*BureauMembership
	err := r.orderedMemberships(ctx).
		Where("bureau_memberships.is_current = ?", true).
		Find(&seats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list current bureau: %w", err)
	}
	return seats, nil
}

// ListMandateMemberships retrieves the archived seats linked to a mandate
func (r *Repository) ListMandateMemberships(ctx context.Context, mandateID int64) ([]*BureauMembership, error) {
	var seats []*BureauMembership
	err := r.orderedMemberships(ctx).
		Where("bureau_memberships.mandate_id = ? AND bureau_memberships.is_current = ?", mandateID, false).
		Find(&seats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list mandate bureau: %w", err)
	}
	return seats, nil
}

func (r *Repository) orderedMemberships(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&BureauMembership{}).
		Preload("Member").Preload("Function").
		Joins("JOIN office_functions ON office_functions.id = bureau_memberships.function_id").
		Joins("JOIN members ON members.id = bureau_memberships.member_id").
		Order("office_functions.rank ASC").
		Order("members.last_name ASC").
		Order("bureau_memberships.id ASC")
}

// CountCurrentMemberships returns the size of the sitting bureau
func (r *Repository) CountCurrentMemberships(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&BureauMembership{}).Where("is_current = ?", true).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count current bureau: %w", err)
	}
	return n, nil
}

// CountFormerMembers returns how many distinct members hold an archived seat
func (r *Repository) CountFormerMembers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&BureauMembership{}).
		Where("is_current = ?", false).
		Distinct("member_id").
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count former bureau members: %w", err)
	}
	return n, nil
}

// ArchiveFunctionHolders archives the current holders of a function
func (r *Repository) ArchiveFunctionHolders(ctx context.Context, functionID int64, endDate time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&BureauMembership{}).
		Where("function_id = ? AND is_current = ?", functionID, true).
		Updates(map[string]any{"is_current": false, "end_date": datatypes.Date(endDate)})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to archive function holders: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ArchiveCurrentMemberships archives the whole sitting bureau. A non-nil
// mandateID links every archived seat to that mandate.
func (r *Repository) ArchiveCurrentMemberships(ctx context.Context, endDate time.Time, mandateID *int64) (int64, error) {
	values := map[string]any{"is_current": false, "end_date": datatypes.Date(endDate)}
	if mandateID != nil {
		values["mandate_id"] = *mandateID
	}
	result := r.db.WithContext(ctx).Model(&BureauMembership{}).
		Where("is_current = ?", true).
		Updates(values)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to archive bureau: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteMembership removes a bureau seat
func (r *Repository) DeleteMembership(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&BureauMembership{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete bureau membership: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteMandateMemberships removes the seats linked to the given mandates
func (r *Repository) DeleteMandateMemberships(ctx context.Context, mandateIDs []int64) (int64, error) {
	if len(mandateIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("mandate_id IN ?", mandateIDs).Delete(&BureauMembership{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete mandate bureau: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteOrphanMemberships removes archived seats that belong to no mandate
func (r *Repository) DeleteOrphanMemberships(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("mandate_id IS NULL AND is_current = ?", false).
		Delete(&BureauMembership{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete orphan bureau rows: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Committee seats

// CreateCommittee inserts a committee seat
func (r *Repository) CreateCommittee(ctx context.Context, c *CommitteeMembership) (*CommitteeMembership, error) {
	if err := r.db.WithContext(ctx).Omit("Member").Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create committee membership: %w", err)
	}
	return c, nil
}

// GetCommittee retrieves a committee seat with its member
func (r *Repository) GetCommittee(ctx context.Context, id int64) (*CommitteeMembership, error) {
	c := &CommitteeMembership{}
	if err := r.db.WithContext(ctx).Preload("Member").First(c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get committee membership: %w", err)
	}
	return c, nil
}

// ListActiveCommittee retrieves the sitting committee by display order, then
// nomination date
func (r *Repository) ListActiveCommittee(ctx context.Context) ([]*CommitteeMembership, error) {
	var seats []*CommitteeMembership
	err := r.db.WithContext(ctx).Preload("Member").
		Where("is_active = ?", true).
		Order("display_order ASC").Order("nominated_on ASC").Order("id ASC").
		Find(&seats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list committee: %w", err)
	}
	return seats, nil
}

// ListMandateCommittee retrieves the archived committee seats linked to a
// mandate by display order, then member last name
func (r *Repository) ListMandateCommittee(ctx context.Context, mandateID int64) ([]*CommitteeMembership, error) {
	var seats []*CommitteeMembership
	err := r.orderedCommittee(ctx).
		Where("committee_memberships.mandate_id = ? AND committee_memberships.is_active = ?", mandateID, false).
		Find(&seats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list mandate committee: %w", err)
	}
	return seats, nil
}

// CommitteeSnapshot retrieves the sitting committee in the same order as
// ListMandateCommittee
func (r *Repository) CommitteeSnapshot(ctx context.Context) ([]*CommitteeMembership, error) {
	var seats []*CommitteeMembership
	err := r.orderedCommittee(ctx).
		Where("committee_memberships.is_active = ?", true).
		Find(&seats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list committee snapshot: %w", err)
	}
	return seats, nil
}

func (r *Repository) orderedCommittee(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&CommitteeMembership{}).
		Preload("Member").
		Joins("JOIN members ON members.id = committee_memberships.member_id").
		Order("committee_memberships.display_order ASC").
		Order("members.last_name ASC").
		Order("committee_memberships.id ASC")
}

// ArchiveActiveCommittee deactivates the sitting committee and links every
// seat to mandateID
func (r *Repository) ArchiveActiveCommittee(ctx context.Context, endDate time.Time, mandateID int64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&CommitteeMembership{}).
		Where("is_active = ?", true).
		Updates(map[string]any{
			"is_active":  false,
			"end_date":   datatypes.Date(endDate),
			"mandate_id": mandateID,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to archive committee: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteCommittee removes a committee seat
func (r *Repository) DeleteCommittee(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&CommitteeMembership{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete committee membership: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteMandateCommittee removes the committee seats linked to the given mandates
func (r *Repository) DeleteMandateCommittee(ctx context.Context, mandateIDs []int64) (int64, error) {
	if len(mandateIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("mandate_id IN ?", mandateIDs).Delete(&CommitteeMembership{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete mandate committee: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteOrphanCommittee removes inactive committee seats that belong to no mandate
func (r *Repository) DeleteOrphanCommittee(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("mandate_id IS NULL AND is_active = ?", false).
		Delete(&CommitteeMembership{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete orphan committee rows: %w", result.Error)
	}
	return result.RowsAffected, nil
}
