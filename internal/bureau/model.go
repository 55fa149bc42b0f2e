package bureau

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fizato/federation/internal/member"
)

// DefaultCommitteeTitle is given to committee members nominated without a title
const DefaultCommitteeTitle = "Membre du Comité des Doyens"

// OfficeFunction is a position in the federation bureau
type OfficeFunction struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Rank        int     `gorm:"not null;default:1" json:"rank"` // 1 is the highest
	Description *string `json:"description,omitempty"`

	// Singular functions have a single current holder; assigning a new one
	// archives the previous holder
	Singular bool `gorm:"not null;default:false" json:"singular"`
}

func (OfficeFunction) TableName() string {
	return "office_functions"
}

// BureauMembership records a member holding a function. Rows outlive the
// mandate they belong to: ending a mandate archives them.
type BureauMembership struct {
	ID         int64           `gorm:"primaryKey" json:"id"`
	MemberID   int64           `gorm:"not null;uniqueIndex:idx_bureau_current,where:is_current = true" json:"member_id"`
	Member     *member.Member  `gorm:"constraint:OnDelete:CASCADE" json:"member,omitempty"`
	FunctionID int64           `gorm:"not null;index;uniqueIndex:idx_bureau_current,where:is_current = true" json:"function_id"`
	Function   *OfficeFunction `gorm:"constraint:OnDelete:CASCADE" json:"function,omitempty"`
	StartDate  datatypes.Date  `gorm:"not null" json:"start_date"`
	EndDate    *datatypes.Date `json:"end_date,omitempty"`
	IsCurrent  bool            `gorm:"not null;index" json:"is_current"`
	MandateID  *int64          `gorm:"index" json:"mandate_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (BureauMembership) TableName() string {
	return "bureau_memberships"
}

// CommitteeMembership records a nomination to the honor committee
type CommitteeMembership struct {
	ID           int64           `gorm:"primaryKey" json:"id"`
	MemberID     int64           `gorm:"not null;index" json:"member_id"`
	Member       *member.Member  `gorm:"constraint:OnDelete:CASCADE" json:"member,omitempty"`
	Title        string          `gorm:"size:100;not null" json:"title"`
	NominatedOn  datatypes.Date  `gorm:"not null" json:"nominated_on"`
	EndDate      *datatypes.Date `json:"end_date,omitempty"`
	IsActive     bool            `gorm:"not null;index" json:"is_active"`
	DisplayOrder int             `gorm:"not null;default:0" json:"display_order"`
	MandateID    *int64          `gorm:"index" json:"mandate_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (CommitteeMembership) TableName() string {
	return "committee_memberships"
}
