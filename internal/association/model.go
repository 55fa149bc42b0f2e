package association

import (
	"time"

	"gorm.io/datatypes"
)

// Association represents a member association of the federation
type Association struct {
	ID                 int64          `gorm:"primaryKey" json:"id"`
	Name               string         `gorm:"size:200;not null" json:"name"`
	FoundedOn          datatypes.Date `json:"founded_on"`
	Motto              *string        `gorm:"size:500" json:"motto,omitempty"`
	Founders           string         `gorm:"type:text;not null;default:''" json:"founders"` // comma separated
	Description        *string        `gorm:"type:text" json:"description,omitempty"`
	LogoPath           *string        `gorm:"size:255" json:"logo_path,omitempty"`
	UniversityLogoPath *string        `gorm:"size:255" json:"university_logo_path,omitempty"`
	FederationLogoPath *string        `gorm:"size:255" json:"federation_logo_path,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`

	// Populated from COUNT
	MemberCount int64 `gorm:"-" json:"member_count"`
}

func (Association) TableName() string {
	return "associations"
}
