package federation

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/fizato/federation/internal/apperr"
	"github.com/fizato/federation/internal/mandate"
)

var ErrInvalidFoundingDate = apperr.New(apperr.ErrValidation, "founded_on must be formatted as YYYY-MM-DD")

// Counter is anything that can count its records
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Sources feed the dashboard summary
type Sources struct {
	Associations Counter
	Members      Counter
	Cards        Counter
	Bureau       interface {
		CountCurrentMemberships(ctx context.Context) (int64, error)
	}
	Mandates interface {
		Current(ctx context.Context) (*mandate.Mandate, error)
	}
}

// Service handles the federation profile and summary
type Service struct {
	repo    *Repository
	sources Sources
	logger  *slog.Logger
}

// NewService creates a new federation service
func NewService(repo *Repository, sources Sources, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, sources: sources, logger: logger}
}

// Profile returns the saved profile, or the default one when none was saved
func (s *Service) Profile(ctx context.Context) (*Profile, error) {
	p, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &Profile{ID: profileID, ShortName: DefaultShortName}
	}
	return p, nil
}

// UpdateProfile applies the request to the profile and saves it
func (s *Service) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*Profile, error) {
	p, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}

	if req.ShortName != nil {
		p.ShortName = *req.ShortName
	}
	if req.FullName != nil {
		p.FullName = *req.FullName
	}
	if req.FoundedOn != nil {
		t, err := time.Parse(time.DateOnly, *req.FoundedOn)
		if err != nil {
			return nil, ErrInvalidFoundingDate
		}
		d := datatypes.Date(t)
		p.FoundedOn = &d
	}
	if req.Motto != nil {
		p.Motto = req.Motto
	}
	if req.Founders != nil {
		p.Founders = *req.Founders
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.LogoPath != nil {
		p.LogoPath = req.LogoPath
	}

	p, err = s.repo.Save(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("federation profile saved", "short_name", p.ShortName)
	return p, nil
}

// Summary gathers the dashboard figures
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	p, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}
	summary := &Summary{Profile: p.ToResponse()}

	if summary.Associations, err = s.sources.Associations.Count(ctx); err != nil {
		return nil, err
	}
	if summary.Members, err = s.sources.Members.Count(ctx); err != nil {
		return nil, err
	}
	if summary.Cards, err = s.sources.Cards.Count(ctx); err != nil {
		return nil, err
	}
	if summary.BureauSize, err = s.sources.Bureau.CountCurrentMemberships(ctx); err != nil {
		return nil, err
	}
	current, err := s.sources.Mandates.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current != nil {
		summary.CurrentMandate = current.ToResponse()
	}
	return summary, nil
}
