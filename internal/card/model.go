package card

import (
	"time"

	"github.com/google/uuid"

	"github.com/fizato/federation/internal/member"
)

// Card is the printable artifact of a member. Each member has at most one.
type Card struct {
	ID          int64          `gorm:"primaryKey" json:"id"`
	MemberID    int64          `gorm:"not null;uniqueIndex" json:"member_id"`
	Member      *member.Member `gorm:"constraint:OnDelete:CASCADE" json:"member,omitempty"`
	UID         uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex" json:"uid"`
	GeneratedAt time.Time      `gorm:"autoCreateTime" json:"generated_at"`
	IsPrinted   bool           `gorm:"not null;default:false" json:"is_printed"`
	PrintedAt   *time.Time     `json:"printed_at,omitempty"`
}

func (Card) TableName() string {
	return "cards"
}
