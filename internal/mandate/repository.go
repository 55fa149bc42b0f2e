package mandate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles mandate data persistence
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new mandate repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new mandate
func (r *Repository) Create(ctx context.Context, m *Mandate) (*Mandate, error) {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("failed to create mandate: %w", err)
	}
	return m, nil
}

// GetByID retrieves a mandate by ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Mandate, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// Current retrieves the CURRENT mandate
func (r *Repository) Current(ctx context.Context) (*Mandate, error) {
	return r.first(r.db.WithContext(ctx).Where("state = ?", StateCurrent))
}

// LockByID retrieves a mandate and locks its row until the transaction ends
func (r *Repository) LockByID(ctx context.Context, id int64) (*Mandate, error) {
	return r.first(r.forUpdate(ctx).Where("id = ?", id))
}

// LockCurrent retrieves the CURRENT mandate and locks its row until the
// transaction ends
func (r *Repository) LockCurrent(ctx context.Context) (*Mandate, error) {
	return r.first(r.forUpdate(ctx).Where("state = ?", StateCurrent))
}

// forUpdate adds SELECT ... FOR UPDATE where the dialect has row locks.
// SQLite serializes writers on its own.
func (r *Repository) forUpdate(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	return q
}

func (r *Repository) first(q *gorm.DB) (*Mandate, error) {
	m := &Mandate{}
	if err := q.Order("id ASC").First(m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get mandate: %w", err)
	}
	return m, nil
}

// Archive moves a CURRENT mandate to ARCHIVED. It reports false when the
// mandate was no longer CURRENT.
func (r *Repository) Archive(ctx context.Context, id int64, endDate time.Time, reason *string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&Mandate{}).
		Where("id = ? AND state = ?", id, StateCurrent).
		Updates(map[string]any{
			"state":      StateArchived,
			"end_date":   datatypes.Date(endDate),
			"end_reason": reason,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to archive mandate: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// ListHistory retrieves every mandate: CURRENT first, then ARCHIVED by end
// date and start date, most recent first
func (r *Repository) ListHistory(ctx context.Context) ([]*Mandate, error) {
	var mandates []*Mandate
	err := r.db.WithContext(ctx).
		Order("CASE WHEN state = 'CURRENT' THEN 0 ELSE 1 END").
		Order("end_date DESC").
		Order("start_date DESC").
		Order("id DESC").
		Find(&mandates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list mandates: %w", err)
	}
	return mandates, nil
}

// ArchivedIDs returns the IDs of every ARCHIVED mandate
func (r *Repository) ArchivedIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&Mandate{}).
		Where("state = ?", StateArchived).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list archived mandates: %w", err)
	}
	return ids, nil
}

// DeleteByIDs removes the given mandates
func (r *Repository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&Mandate{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete mandates: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// CountByState returns the number of mandates per state
func (r *Repository) CountByState(ctx context.Context) (map[State]int64, error) {
	var rows []struct {
		State State
		N     int64
	}
	err := r.db.WithContext(ctx).Model(&Mandate{}).
		Select("state, COUNT(*) AS n").
		Group("state").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count mandates: %w", err)
	}
	counts := make(map[State]int64, len(rows))
	for _, row := range rows {
		counts[row.State] = row.N
	}
	return counts, nil
}
