package bureau

import (
	"time"

	"gorm.io/datatypes"
)

// CreateFunctionRequest represents the request to create an office function
type CreateFunctionRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Rank        int     `json:"rank" validate:"required,min=1"`
	Description *string `json:"description,omitempty"`
	Singular    bool    `json:"singular"`
}

// UpdateFunctionRequest represents the request to update an office function
type UpdateFunctionRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Rank        *int    `json:"rank,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
	Singular    *bool   `json:"singular,omitempty"`
}

// AssignRequest places a member in the bureau. IsCurrent defaults to true and
// StartDate to today.
type AssignRequest struct {
	MemberID   int64   `json:"member_id" validate:"required,gt=0"`
	FunctionID int64   `json:"function_id" validate:"required,gt=0"`
	StartDate  *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsCurrent  *bool   `json:"is_current,omitempty"`
}

// NominateRequest adds a member to the honor committee
type NominateRequest struct {
	MemberID     int64   `json:"member_id" validate:"required,gt=0"`
	Title        *string `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	NominatedOn  *string `json:"nominated_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DisplayOrder int     `json:"display_order" validate:"min=0"`
}

// FunctionResponse represents the response for an office function
type FunctionResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Rank        int     `json:"rank"`
	Description *string `json:"description,omitempty"`
	Singular    bool    `json:"singular"`
}

// MembershipResponse represents a bureau seat
type MembershipResponse struct {
	ID           int64   `json:"id"`
	MemberID     int64   `json:"member_id"`
	MemberName   string  `json:"member_name,omitempty"`
	CardNumber   string  `json:"card_number,omitempty"`
	FunctionID   int64   `json:"function_id"`
	FunctionName string  `json:"function_name,omitempty"`
	Rank         int     `json:"rank,omitempty"`
	StartDate    string  `json:"start_date"`
	EndDate      *string `json:"end_date,omitempty"`
	IsCurrent    bool    `json:"is_current"`
	MandateID    *int64  `json:"mandate_id,omitempty"`
}

// CommitteeResponse represents an honor committee seat
type CommitteeResponse struct {
	ID           int64   `json:"id"`
	MemberID     int64   `json:"member_id"`
	MemberName   string  `json:"member_name,omitempty"`
	Title        string  `json:"title"`
	NominatedOn  string  `json:"nominated_on"`
	EndDate      *string `json:"end_date,omitempty"`
	IsActive     bool    `json:"is_active"`
	DisplayOrder int     `json:"display_order"`
	MandateID    *int64  `json:"mandate_id,omitempty"`
}

// ToResponse converts an OfficeFunction model to a FunctionResponse DTO
func (f *OfficeFunction) ToResponse() *FunctionResponse {
	return &FunctionResponse{
		ID:          f.ID,
		Name:        f.Name,
		Rank:        f.Rank,
		Description: f.Description,
		Singular:    f.Singular,
	}
}

// ToResponse converts a BureauMembership model to a MembershipResponse DTO
func (b *BureauMembership) ToResponse() *MembershipResponse {
	resp := &MembershipResponse{
		ID:         b.ID,
		MemberID:   b.MemberID,
		FunctionID: b.FunctionID,
		StartDate:  formatDate(b.StartDate),
		EndDate:    formatOptionalDate(b.EndDate),
		IsCurrent:  b.IsCurrent,
		MandateID:  b.MandateID,
	}
	if b.Member != nil {
		resp.MemberName = b.Member.FullName()
		resp.CardNumber = b.Member.CardNumber
	}
	if b.Function != nil {
		resp.FunctionName = b.Function.Name
		resp.Rank = b.Function.Rank
	}
	return resp
}

// ToResponse converts a CommitteeMembership model to a CommitteeResponse DTO
func (c *CommitteeMembership) ToResponse() *CommitteeResponse {
	resp := &CommitteeResponse{
		ID:           c.ID,
		MemberID:     c.MemberID,
		Title:        c.Title,
		NominatedOn:  formatDate(c.NominatedOn),
		EndDate:      formatOptionalDate(c.EndDate),
		IsActive:     c.IsActive,
		DisplayOrder: c.DisplayOrder,
		MandateID:    c.MandateID,
	}
	if c.Member != nil {
		resp.MemberName = c.Member.FullName()
	}
	return resp
}

func formatDate(d datatypes.Date) string {
	return time.Time(d).Format(time.DateOnly)
}

func formatOptionalDate(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := formatDate(*d)
	return &s
}
