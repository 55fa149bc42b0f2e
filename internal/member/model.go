package member

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fizato/federation/internal/association"
)

// Member represents a person affiliated with one association
type Member struct {
	ID            int64                    `gorm:"primaryKey" json:"id"`
	AssociationID int64                    `gorm:"not null;index" json:"association_id"`
	Association   *association.Association `gorm:"constraint:OnDelete:CASCADE" json:"association,omitempty"`
	LastName      string                   `gorm:"size:100;not null" json:"last_name"`
	FirstName     string                   `gorm:"size:100;not null" json:"first_name"`
	NationalID    string                   `gorm:"size:20;not null;uniqueIndex" json:"national_id"`
	Field         string                   `gorm:"size:100;not null" json:"field"`
	Track         string                   `gorm:"size:100;not null" json:"track"`

	// CardNumber is assigned once, at creation, and never rewritten
	CardNumber string `gorm:"size:20;not null;uniqueIndex" json:"card_number"`

	PhotoPath    *string         `gorm:"size:255" json:"photo_path,omitempty"`
	BirthDate    *datatypes.Date `json:"birth_date,omitempty"`
	Institution  *string         `gorm:"size:150" json:"institution,omitempty"`
	Address      *string         `gorm:"size:255" json:"address,omitempty"`
	Phone        *string         `gorm:"size:30" json:"phone,omitempty"`
	Email        *string         `gorm:"size:254" json:"email,omitempty"`
	FacebookName *string         `gorm:"size:100" json:"facebook_name,omitempty"`

	// AccountSubject links the member to an authentication identity
	AccountSubject *string `gorm:"size:150;uniqueIndex" json:"account_subject,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// FullName returns "First Last"
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}
