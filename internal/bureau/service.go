package bureau

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fizato/federation/internal/apperr"
	"github.com/fizato/federation/internal/clock"
	"github.com/fizato/federation/internal/database"
	"github.com/fizato/federation/internal/member"
	"github.com/fizato/federation/internal/metrics"
)

// Common errors
var (
	ErrFunctionNotFound   = apperr.New(apperr.ErrNotFound, "office function not found")
	ErrFunctionNameInUse  = apperr.New(apperr.ErrConflict, "an office function with this name already exists")
	ErrMembershipNotFound = apperr.New(apperr.ErrNotFound, "bureau membership not found")
	ErrAlreadySeated      = apperr.New(apperr.ErrConflict, "member already holds this function in the current bureau")
	ErrCommitteeNotFound  = apperr.New(apperr.ErrNotFound, "committee membership not found")
	ErrInvalidDate        = apperr.New(apperr.ErrValidation, "dates must be formatted as YYYY-MM-DD")
)

// Service handles office functions, the sitting bureau and the honor committee
type Service struct {
	db      *gorm.DB
	repo    *Repository
	members *member.Repository
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewService creates a new bureau service
func NewService(
	db *gorm.DB,
	repo *Repository,
	members *member.Repository,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:      db,
		repo:    repo,
		members: members,
		clock:   clk,
		metrics: m,
		logger:  logger,
	}
}

// CreateFunction creates a new office function
func (s *Service) CreateFunction(ctx context.Context, req *CreateFunctionRequest) (*OfficeFunction, error) {
	f, err := s.repo.CreateFunction(ctx, &OfficeFunction{
		Name:        req.Name,
		Rank:        req.Rank,
		Description: req.Description,
		Singular:    req.Singular,
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrFunctionNameInUse
		}
		return nil, err
	}
	return f, nil
}

// GetFunction retrieves an office function by its ID
func (s *Service) GetFunction(ctx context.Context, id int64) (*OfficeFunction, error) {
	f, err := s.repo.GetFunction(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFunctionNotFound
	}
	return f, nil
}

// ListFunctions retrieves office functions by rank, then name
func (s *Service) ListFunctions(ctx context.Context) ([]*OfficeFunction, error) {
	return s.repo.ListFunctions(ctx)
}

// UpdateFunction modifies an office function
func (s *Service) UpdateFunction(ctx context.Context, id int64, req *UpdateFunctionRequest) (*OfficeFunction, error) {
	f, err := s.GetFunction(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		f.Name = *req.Name
	}
	if req.Rank != nil {
		f.Rank = *req.Rank
	}
	if req.Description != nil {
		f.Description = req.Description
	}
	if req.Singular != nil {
		f.Singular = *req.Singular
	}

	f, err = s.repo.UpdateFunction(ctx, f)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrFunctionNameInUse
		}
		return nil, err
	}
	return f, nil
}

// DeleteFunction removes an office function with its bureau seats
func (s *Service) DeleteFunction(ctx context.Context, id int64) error {
	found, err := s.repo.DeleteFunction(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrFunctionNotFound
	}
	s.logger.Info("office function deleted", "function_id", id)
	return nil
}

// Assign seats a member in the bureau. A current seat on a singular function
// first archives the sitting holder, dated today.
func (s *Service) Assign(ctx context.Context, req *AssignRequest) (*BureauMembership, error) {
	today := clock.Today(s.clock)
	start, err := parseDate(req.StartDate, today)
	if err != nil {
		return nil, err
	}
	current := req.IsCurrent == nil || *req.IsCurrent

	var (
		seat     *BureauMembership
		replaced int64
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		m, err := s.members.WithTx(tx).GetByID(ctx, req.MemberID)
		if err != nil {
			return err
		}
		if m == nil {
			return member.ErrMemberNotFound
		}
		f, err := repo.GetFunction(ctx, req.FunctionID)
		if err != nil {
			return err
		}
		if f == nil {
			return ErrFunctionNotFound
		}

		if current {
			seated, err := repo.HasCurrentMembership(ctx, m.ID, f.ID)
			if err != nil {
				return err
			}
			if seated {
				return ErrAlreadySeated
			}
			if f.Singular {
				if replaced, err = repo.ArchiveFunctionHolders(ctx, f.ID, today); err != nil {
					return err
				}
			}
		}

		seat = &BureauMembership{
			MemberID:   m.ID,
			FunctionID: f.ID,
			StartDate:  datatypes.Date(start),
			IsCurrent:  current,
		}
		if _, err := repo.CreateMembership(ctx, seat); err != nil {
			if database.IsUniqueViolation(err) {
				return ErrAlreadySeated
			}
			return err
		}
		seat.Member = m
		seat.Function = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	if replaced > 0 {
		s.metrics.SingularHolderReplaced(replaced)
		s.logger.Info("singular function holder replaced",
			"function_id", seat.FunctionID,
			"archived", replaced,
		)
	}
	s.logger.Info("bureau seat assigned",
		"membership_id", seat.ID,
		"member_id", seat.MemberID,
		"function_id", seat.FunctionID,
		"is_current", seat.IsCurrent,
	)
	return seat, nil
}

// GetMembership retrieves a bureau seat by its ID
func (s *Service) GetMembership(ctx context.Context, id int64) (*BureauMembership, error) {
	b, err := s.repo.GetMembership(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrMembershipNotFound
	}
	return b, nil
}

// ListCurrent retrieves the sitting bureau
func (s *Service) ListCurrent(ctx context.Context) ([]*BureauMembership, error) {
	return s.repo.ListCurrentMemberships(ctx)
}

// CountCurrent returns the size of the sitting bureau
func (s *Service) CountCurrent(ctx context.Context) (int64, error) {
	return s.repo.CountCurrentMemberships(ctx)
}

// RemoveMembership deletes a bureau seat
func (s *Service) RemoveMembership(ctx context.Context, id int64) error {
	found, err := s.repo.DeleteMembership(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrMembershipNotFound
	}
	s.logger.Info("bureau seat removed", "membership_id", id)
	return nil
}

// Nominate adds a member to the honor committee
func (s *Service) Nominate(ctx context.Context, req *NominateRequest) (*CommitteeMembership, error) {
	nominatedOn, err := parseDate(req.NominatedOn, clock.Today(s.clock))
	if err != nil {
		return nil, err
	}

	m, err := s.members.GetByID(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, member.ErrMemberNotFound
	}

	title := DefaultCommitteeTitle
	if req.Title != nil {
		title = *req.Title
	}

	seat, err := s.repo.CreateCommittee(ctx, &CommitteeMembership{
		MemberID:     m.ID,
		Title:        title,
		NominatedOn:  datatypes.Date(nominatedOn),
		IsActive:     true,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return nil, err
	}
	seat.Member = m

	s.logger.Info("committee member nominated", "committee_id", seat.ID, "member_id", m.ID)
	return seat, nil
}

// ListCommittee retrieves the sitting honor committee
func (s *Service) ListCommittee(ctx context.Context) ([]*CommitteeMembership, error) {
	return s.repo.ListActiveCommittee(ctx)
}

// RemoveCommittee deletes a committee seat
func (s *Service) RemoveCommittee(ctx context.Context, id int64) error {
	found, err := s.repo.DeleteCommittee(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrCommitteeNotFound
	}
	s.logger.Info("committee seat removed", "committee_id", id)
	return nil
}

func parseDate(value *string, fallback time.Time) (time.Time, error) {
	if value == nil {
		return fallback, nil
	}
	t, err := time.Parse(time.DateOnly, *value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
