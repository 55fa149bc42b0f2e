package member

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fizato/federation/internal/apperr"
	"github.com/fizato/federation/internal/association"
	"github.com/fizato/federation/internal/database"
	"github.com/fizato/federation/internal/metrics"
)

// maxCreateAttempts bounds retries after a card number collision
const maxCreateAttempts = 2

// Common errors
var (
	ErrMemberNotFound     = apperr.New(apperr.ErrNotFound, "member not found")
	ErrNationalIDInUse    = apperr.New(apperr.ErrConflict, "national ID is already registered")
	ErrAccountInUse       = apperr.New(apperr.ErrConflict, "account is already linked to a member")
	ErrCardNumberTaken    = apperr.New(apperr.ErrConflict, "card number collided with a concurrent assignment, try again")
	ErrNoLinkedMember     = apperr.New(apperr.ErrNotFound, "no member is linked to this account")
	ErrInvalidBirthDate   = apperr.New(apperr.ErrValidation, "birth_date must be formatted as YYYY-MM-DD")
	errCardNumberConflict = errors.New("card number unique violation")
)

// Service handles member business logic
type Service struct {
	db           *gorm.DB
	repo         *Repository
	associations *association.Repository
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// NewService creates a new member service
func NewService(
	db *gorm.DB,
	repo *Repository,
	associations *association.Repository,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:           db,
		repo:         repo,
		associations: associations,
		metrics:      m,
		logger:       logger,
	}
}

// Create registers a member and assigns its card number. A card number
// collision with a concurrent creation is retried once from scratch.
func (s *Service) Create(ctx context.Context, req *CreateMemberRequest) (*Member, error) {
	for attempt := 1; ; attempt++ {
		m, err := s.create(ctx, req)
		if err == nil {
			s.metrics.MemberCreated()
			s.logger.Info("member created",
				"member_id", m.ID,
				"association_id", m.AssociationID,
				"card_number", m.CardNumber,
			)
			return m, nil
		}
		if !errors.Is(err, errCardNumberConflict) {
			return nil, err
		}
		if attempt >= maxCreateAttempts {
			return nil, ErrCardNumberTaken
		}
		s.metrics.CardNumberRetry()
		s.logger.Warn("card number collision, retrying", "association_id", req.AssociationID, "attempt", attempt)
	}
}

func (s *Service) create(ctx context.Context, req *CreateMemberRequest) (*Member, error) {
	m := &Member{
		AssociationID:  req.AssociationID,
		LastName:       req.LastName,
		FirstName:      req.FirstName,
		NationalID:     req.NationalID,
		Field:          req.Field,
		Track:          req.Track,
		PhotoPath:      req.PhotoPath,
		Institution:    req.Institution,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
		FacebookName:   req.FacebookName,
		AccountSubject: req.AccountSubject,
	}
	if req.BirthDate != nil {
		d, err := parseDate(*req.BirthDate)
		if err != nil {
			return nil, err
		}
		m.BirthDate = d
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		associations := s.associations.WithTx(tx)

		a, err := associations.GetByID(ctx, req.AssociationID)
		if err != nil {
			return err
		}
		if a == nil {
			return association.ErrAssociationNotFound
		}

		taken, err := repo.ExistsByNationalID(ctx, req.NationalID, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrNationalIDInUse
		}
		if req.AccountSubject != nil {
			linked, err := repo.ExistsByAccountSubject(ctx, *req.AccountSubject)
			if err != nil {
				return err
			}
			if linked {
				return ErrAccountInUse
			}
		}

		if _, err := AssignCardNumber(ctx, repo, associations, a, m); err != nil {
			return err
		}

		if _, err := repo.Create(ctx, m); err != nil {
			switch {
			case database.ViolatesConstraint(err, "card_number"):
				return errCardNumberConflict
			case database.ViolatesConstraint(err, "national_id"):
				return ErrNationalIDInUse
			case database.IsUniqueViolation(err):
				return apperr.Conflict("member violates a uniqueness constraint")
			}
			return err
		}
		m.Association = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetByID retrieves a member by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Member, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

// GetByAccountSubject retrieves the member linked to the caller's identity
func (s *Service) GetByAccountSubject(ctx context.Context, subject string) (*Member, error) {
	m, err := s.repo.GetByAccountSubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNoLinkedMember
	}
	return m, nil
}

// List retrieves members, newest first
func (s *Service) List(ctx context.Context, filter ListFilter, page, perPage int) ([]*Member, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, filter, perPage, offset)
}

// Update modifies a member. The card number is never recomputed.
func (s *Service) Update(ctx context.Context, id int64, req *UpdateMemberRequest) (*Member, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.AssociationID != nil && *req.AssociationID != m.AssociationID {
		a, err := s.associations.GetByID(ctx, *req.AssociationID)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, association.ErrAssociationNotFound
		}
		m.AssociationID = a.ID
		m.Association = a
	}
	if req.NationalID != nil && *req.NationalID != m.NationalID {
		taken, err := s.repo.ExistsByNationalID(ctx, *req.NationalID, m.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrNationalIDInUse
		}
		m.NationalID = *req.NationalID
	}
	if req.LastName != nil {
		m.LastName = *req.LastName
	}
	if req.FirstName != nil {
		m.FirstName = *req.FirstName
	}
	if req.Field != nil {
		m.Field = *req.Field
	}
	if req.Track != nil {
		m.Track = *req.Track
	}
	if req.PhotoPath != nil {
		m.PhotoPath = req.PhotoPath
	}
	if err := applyContact(m, &req.ContactUpdate); err != nil {
		return nil, err
	}

	m, err = s.repo.Update(ctx, m)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrNationalIDInUse
		}
		return nil, err
	}
	return m, nil
}

// UpdateOwn lets a member edit the contact details of their own record
func (s *Service) UpdateOwn(ctx context.Context, subject string, req *ContactUpdate) (*Member, error) {
	m, err := s.GetByAccountSubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	if err := applyContact(m, req); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, m)
}

// Delete removes a member with its card and office records
func (s *Service) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrMemberNotFound
	}
	s.logger.Info("member deleted", "member_id", id)
	return nil
}

// Count returns the number of registered members
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func applyContact(m *Member, req *ContactUpdate) error {
	if req.BirthDate != nil {
		d, err := parseDate(*req.BirthDate)
		if err != nil {
			return err
		}
		m.BirthDate = d
	}
	if req.Institution != nil {
		m.Institution = req.Institution
	}
	if req.Address != nil {
		m.Address = req.Address
	}
	if req.Phone != nil {
		m.Phone = req.Phone
	}
	if req.Email != nil {
		m.Email = req.Email
	}
	if req.FacebookName != nil {
		m.FacebookName = req.FacebookName
	}
	return nil
}

func parseDate(value string) (*datatypes.Date, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, ErrInvalidBirthDate
	}
	d := datatypes.Date(t)
	return &d, nil
}
