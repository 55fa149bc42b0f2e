package member

import "time"

// CreateMemberRequest represents the request body for creating a member.
// There is no card number field: it is always generated.
type CreateMemberRequest struct {
	AssociationID  int64   `json:"association_id" validate:"required,gt=0"`
	LastName       string  `json:"last_name" validate:"required,max=100"`
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	NationalID     string  `json:"national_id" validate:"required,max=20"`
	Field          string  `json:"field" validate:"required,max=100"`
	Track          string  `json:"track" validate:"required,max=100"`
	PhotoPath      *string `json:"photo_path,omitempty" validate:"omitempty,max=255"`
	BirthDate      *string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Institution    *string `json:"institution,omitempty" validate:"omitempty,max=150"`
	Address        *string `json:"address,omitempty" validate:"omitempty,max=255"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	FacebookName   *string `json:"facebook_name,omitempty" validate:"omitempty,max=100"`
	AccountSubject *string `json:"account_subject,omitempty" validate:"omitempty,max=150"`
}

// UpdateMemberRequest represents the request body for an administrator update
type UpdateMemberRequest struct {
	AssociationID *int64  `json:"association_id,omitempty" validate:"omitempty,gt=0"`
	LastName      *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	FirstName     *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	NationalID    *string `json:"national_id,omitempty" validate:"omitempty,min=1,max=20"`
	Field         *string `json:"field,omitempty" validate:"omitempty,min=1,max=100"`
	Track         *string `json:"track,omitempty" validate:"omitempty,min=1,max=100"`
	PhotoPath     *string `json:"photo_path,omitempty" validate:"omitempty,max=255"`
	ContactUpdate
}

// ContactUpdate holds the fields a member may edit on their own record
type ContactUpdate struct {
	BirthDate    *string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Institution  *string `json:"institution,omitempty" validate:"omitempty,max=150"`
	Address      *string `json:"address,omitempty" validate:"omitempty,max=255"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	FacebookName *string `json:"facebook_name,omitempty" validate:"omitempty,max=100"`
}

// MemberResponse represents the response for a single member
type MemberResponse struct {
	ID              int64   `json:"id"`
	AssociationID   int64   `json:"association_id"`
	AssociationName string  `json:"association_name,omitempty"`
	LastName        string  `json:"last_name"`
	FirstName       string  `json:"first_name"`
	NationalID      string  `json:"national_id"`
	Field           string  `json:"field"`
	Track           string  `json:"track"`
	CardNumber      string  `json:"card_number"`
	PhotoPath       *string `json:"photo_path,omitempty"`
	BirthDate       *string `json:"birth_date,omitempty"`
	Institution     *string `json:"institution,omitempty"`
	Address         *string `json:"address,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Email           *string `json:"email,omitempty"`
	FacebookName    *string `json:"facebook_name,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	resp := &MemberResponse{
		ID:            m.ID,
		AssociationID: m.AssociationID,
		LastName:      m.LastName,
		FirstName:     m.FirstName,
		NationalID:    m.NationalID,
		Field:         m.Field,
		Track:         m.Track,
		CardNumber:    m.CardNumber,
		PhotoPath:     m.PhotoPath,
		Institution:   m.Institution,
		Address:       m.Address,
		Phone:         m.Phone,
		Email:         m.Email,
		FacebookName:  m.FacebookName,
		CreatedAt:     m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if m.Association != nil {
		resp.AssociationName = m.Association.Name
	}
	if m.BirthDate != nil {
		s := time.Time(*m.BirthDate).Format("2006-01-02")
		resp.BirthDate = &s
	}
	return resp
}
