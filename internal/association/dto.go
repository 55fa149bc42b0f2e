package association

import (
	"strings"
	"time"
)

// CreateAssociationRequest represents the request to create a new association
type CreateAssociationRequest struct {
	Name               string  `json:"name" validate:"required,min=1,max=200"`
	FoundedOn          *string `json:"founded_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Motto              *string `json:"motto,omitempty" validate:"omitempty,max=500"`
	Founders           string  `json:"founders"`
	Description        *string `json:"description,omitempty"`
	LogoPath           *string `json:"logo_path,omitempty" validate:"omitempty,max=255"`
	UniversityLogoPath *string `json:"university_logo_path,omitempty" validate:"omitempty,max=255"`
	FederationLogoPath *string `json:"federation_logo_path,omitempty" validate:"omitempty,max=255"`
}

// UpdateAssociationRequest represents the request to update an association
type UpdateAssociationRequest struct {
	Name               *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	FoundedOn          *string `json:"founded_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Motto              *string `json:"motto,omitempty" validate:"omitempty,max=500"`
	Founders           *string `json:"founders,omitempty"`
	Description        *string `json:"description,omitempty"`
	LogoPath           *string `json:"logo_path,omitempty" validate:"omitempty,max=255"`
	UniversityLogoPath *string `json:"university_logo_path,omitempty" validate:"omitempty,max=255"`
	FederationLogoPath *string `json:"federation_logo_path,omitempty" validate:"omitempty,max=255"`
}

// AssociationResponse represents the response for an association
type AssociationResponse struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	FoundedOn          string   `json:"founded_on"`
	Motto              *string  `json:"motto,omitempty"`
	Founders           []string `json:"founders"`
	Description        *string  `json:"description,omitempty"`
	LogoPath           *string  `json:"logo_path,omitempty"`
	UniversityLogoPath *string  `json:"university_logo_path,omitempty"`
	FederationLogoPath *string  `json:"federation_logo_path,omitempty"`
	MemberCount        int64    `json:"member_count"`
	CreatedAt          string   `json:"created_at"`
}

// CodeResponse is the derived card-number suffix of an association
type CodeResponse struct {
	AssociationID int64  `json:"association_id"`
	Code          string `json:"code"`
}

// ToResponse converts an Association model to an AssociationResponse DTO
func (a *Association) ToResponse() *AssociationResponse {
	return &AssociationResponse{
		ID:                 a.ID,
		Name:               a.Name,
		FoundedOn:          time.Time(a.FoundedOn).Format("2006-01-02"),
		Motto:              a.Motto,
		Founders:           SplitFounders(a.Founders),
		Description:        a.Description,
		LogoPath:           a.LogoPath,
		UniversityLogoPath: a.UniversityLogoPath,
		FederationLogoPath: a.FederationLogoPath,
		MemberCount:        a.MemberCount,
		CreatedAt:          a.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// SplitFounders turns the comma separated founders text into names
func SplitFounders(founders string) []string {
	names := []string{}
	for _, name := range strings.Split(founders, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
