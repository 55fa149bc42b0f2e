package association

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/fizato/federation/internal/apperr"
	"github.com/fizato/federation/internal/clock"
)

// Common errors
var (
	ErrAssociationNotFound = apperr.New(apperr.ErrNotFound, "association not found")
	ErrInvalidFoundingDate = apperr.New(apperr.ErrValidation, "founded_on must be formatted as YYYY-MM-DD")
)

// Service handles association business logic
type Service struct {
	repo   *Repository
	clock  clock.Clock
	logger *slog.Logger
}

// NewService creates a new association service
func NewService(repo *Repository, clk clock.Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, clock: clk, logger: logger}
}

// Create creates a new association
func (s *Service) Create(ctx context.Context, req *CreateAssociationRequest) (*Association, error) {
	foundedOn := clock.Today(s.clock)
	if req.FoundedOn != nil {
		parsed, err := time.Parse(time.DateOnly, *req.FoundedOn)
		if err != nil {
			return nil, ErrInvalidFoundingDate
		}
		foundedOn = parsed
	}

	a, err := s.repo.Create(ctx, &Association{
		Name:               req.Name,
		FoundedOn:          datatypes.Date(foundedOn),
		Motto:              req.Motto,
		Founders:           req.Founders,
		Description:        req.Description,
		LogoPath:           req.LogoPath,
		UniversityLogoPath: req.UniversityLogoPath,
		FederationLogoPath: req.FederationLogoPath,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("association created", "association_id", a.ID, "name", a.Name)
	return a, nil
}

// GetByID retrieves an association by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Association, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAssociationNotFound
	}
	return a, nil
}

// List retrieves associations ordered by name
func (s *Service) List(ctx context.Context, page, perPage int) ([]*Association, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, perPage, offset)
}

// Update modifies an existing association
func (s *Service) Update(ctx context.Context, id int64, req *UpdateAssociationRequest) (*Association, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.FoundedOn != nil {
		parsed, err := time.Parse(time.DateOnly, *req.FoundedOn)
		if err != nil {
			return nil, ErrInvalidFoundingDate
		}
		a.FoundedOn = datatypes.Date(parsed)
	}
	if req.Motto != nil {
		a.Motto = req.Motto
	}
	if req.Founders != nil {
		a.Founders = *req.Founders
	}
	if req.Description != nil {
		a.Description = req.Description
	}
	if req.LogoPath != nil {
		a.LogoPath = req.LogoPath
	}
	if req.UniversityLogoPath != nil {
		a.UniversityLogoPath = req.UniversityLogoPath
	}
	if req.FederationLogoPath != nil {
		a.FederationLogoPath = req.FederationLogoPath
	}

	return s.repo.Update(ctx, a)
}

// Delete removes an association and all of its members
func (s *Service) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrAssociationNotFound
	}
	s.logger.Info("association deleted", "association_id", id)
	return nil
}

// Code derives the current card-number code of an association
func (s *Service) Code(ctx context.Context, id int64) (string, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return DeriveCode(ctx, s.repo, a)
}
