package mandate

import (
	"time"

	"gorm.io/datatypes"
)

// State represents the lifecycle state of a mandate
type State string

const (
	StateCurrent  State = "CURRENT"
	StateArchived State = "ARCHIVED"
)

// DefaultTransitionReason is recorded on mandates closed by a transition
// without an explicit motif
const DefaultTransitionReason = "Fin de mandat - Transition automatique"

// Mandate is a term of office of the federation bureau. At most one mandate
// is CURRENT at any time.
type Mandate struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	StartDate   datatypes.Date  `gorm:"not null" json:"start_date"`
	EndDate     *datatypes.Date `json:"end_date,omitempty"`
	State       State           `gorm:"size:10;not null;uniqueIndex:idx_mandates_single_current,where:state = 'CURRENT'" json:"state"`
	EndReason   *string         `gorm:"size:255" json:"end_reason,omitempty"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (Mandate) TableName() string {
	return "mandates"
}

// IsCurrent reports whether the mandate is in progress
func (m *Mandate) IsCurrent() bool {
	return m.State == StateCurrent
}
