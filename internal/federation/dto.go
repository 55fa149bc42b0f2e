package federation

import (
	"time"

	"github.com/fizato/federation/internal/association"
	"github.com/fizato/federation/internal/mandate"
)

// UpdateProfileRequest represents the request to save the federation profile
type UpdateProfileRequest struct {
	ShortName   *string `json:"short_name,omitempty" validate:"omitempty,min=1,max=50"`
	FullName    *string `json:"full_name,omitempty" validate:"omitempty,max=200"`
	FoundedOn   *string `json:"founded_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Motto       *string `json:"motto,omitempty" validate:"omitempty,max=500"`
	Founders    *string `json:"founders,omitempty"`
	Description *string `json:"description,omitempty"`
	LogoPath    *string `json:"logo_path,omitempty" validate:"omitempty,max=255"`
}

// ProfileResponse represents the federation profile
type ProfileResponse struct {
	ShortName   string   `json:"short_name"`
	FullName    string   `json:"full_name"`
	FoundedOn   *string  `json:"founded_on,omitempty"`
	Motto       *string  `json:"motto,omitempty"`
	Founders    []string `json:"founders"`
	Description *string  `json:"description,omitempty"`
	LogoPath    *string  `json:"logo_path,omitempty"`
}

// Summary is the dashboard overview of the federation
type Summary struct {
	Profile        *ProfileResponse         `json:"profile"`
	Associations   int64                    `json:"associations"`
	Members        int64                    `json:"members"`
	Cards          int64                    `json:"cards"`
	BureauSize     int64                    `json:"bureau_size"`
	CurrentMandate *mandate.MandateResponse `json:"current_mandate,omitempty"`
}

// ToResponse converts a Profile model to a ProfileResponse DTO
func (p *Profile) ToResponse() *ProfileResponse {
	resp := &ProfileResponse{
		ShortName:   p.ShortName,
		FullName:    p.FullName,
		Motto:       p.Motto,
		Founders:    association.SplitFounders(p.Founders),
		Description: p.Description,
		LogoPath:    p.LogoPath,
	}
	if p.FoundedOn != nil {
		s := time.Time(*p.FoundedOn).Format(time.DateOnly)
		resp.FoundedOn = &s
	}
	return resp
}
