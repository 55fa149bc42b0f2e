package federation

import (
	"time"

	"gorm.io/datatypes"
)

// DefaultShortName is the federation name shown before a profile is saved
const DefaultShortName = "FI.ZA.TO"

// profileID is the primary key of the single profile row
const profileID = 1

// Profile describes the federation itself. Only one row exists.
type Profile struct {
	ID          int64           `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ShortName   string          `gorm:"size:50;not null" json:"short_name"`
	FullName    string          `gorm:"size:200;not null" json:"full_name"`
	FoundedOn   *datatypes.Date `json:"founded_on,omitempty"`
	Motto       *string         `gorm:"size:500" json:"motto,omitempty"`
	Founders    string          `gorm:"type:text;not null;default:''" json:"founders"`
	Description *string         `json:"description,omitempty"`
	LogoPath    *string         `gorm:"size:255" json:"logo_path,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Profile) TableName() string {
	return "federation_profiles"
}
