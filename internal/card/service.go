package card

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fizato/federation/internal/apperr"
	"github.com/fizato/federation/internal/clock"
	"github.com/fizato/federation/internal/database"
	"github.com/fizato/federation/internal/member"
	"github.com/fizato/federation/internal/metrics"
)

// DefaultSheetSize is the number of cards that fit on one print sheet
const DefaultSheetSize = 20

// Common errors
var (
	ErrCardNotFound = apperr.New(apperr.ErrNotFound, "card not found")
	errCardRace     = errors.New("card created concurrently")
)

// Service handles card business logic
type Service struct {
	db        *gorm.DB
	repo      *Repository
	members   *member.Repository
	clock     clock.Clock
	metrics   *metrics.Metrics
	logger    *slog.Logger
	sheetSize int
}

// NewService creates a new card service. A sheetSize below one falls back to
// DefaultSheetSize.
func NewService(
	db *gorm.DB,
	repo *Repository,
	members *member.Repository,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
	sheetSize int,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if sheetSize < 1 {
		sheetSize = DefaultSheetSize
	}
	return &Service{
		db:        db,
		repo:      repo,
		members:   members,
		clock:     clk,
		metrics:   m,
		logger:    logger,
		sheetSize: sheetSize,
	}
}

// GetOrCreate returns the card of a member, generating it on first request.
// The boolean reports whether the card was created by this call.
func (s *Service) GetOrCreate(ctx context.Context, memberID int64) (*Card, bool, error) {
	var (
		c       *Card
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		c, created, err = s.getOrCreate(ctx, s.repo.WithTx(tx), s.members.WithTx(tx), memberID)
		return err
	})
	if errors.Is(err, errCardRace) {
		// lost the race against a concurrent generation; the winner's card stands
		c, err = s.repo.GetByMemberID(ctx, memberID)
		if err == nil && c == nil {
			err = ErrCardNotFound
		}
		return c, false, err
	}
	if err != nil {
		return nil, false, err
	}
	if created {
		s.logger.Info("card generated", "card_id", c.ID, "member_id", memberID, "uid", c.UID)
	}
	return c, created, nil
}

func (s *Service) getOrCreate(
	ctx context.Context,
	cards *Repository,
	members *member.Repository,
	memberID int64,
) (*Card, bool, error) {
	existing, err := cards.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	m, err := members.GetByID(ctx, memberID)
	if err != nil {
		return nil, false, err
	}
	if m == nil {
		return nil, false, member.ErrMemberNotFound
	}

	c := &Card{
		MemberID:    m.ID,
		UID:         uuid.New(),
		GeneratedAt: s.clock.Now().UTC(),
	}
	if _, err := cards.Create(ctx, c); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, false, errCardRace
		}
		return nil, false, err
	}
	c.Member = m
	return c, true, nil
}

// GetByID retrieves a card by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Card, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCardNotFound
	}
	return c, nil
}

// List retrieves cards, optionally filtered on their printed flag
func (s *Service) List(ctx context.Context, printed *bool, page, perPage int) ([]*Card, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, printed, perPage, offset)
}

// MarkPrinted flags a card as printed. Marking an already printed card keeps
// its original print date.
func (s *Service) MarkPrinted(ctx context.Context, id int64) (*Card, error) {
	var (
		c     *Card
		first bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		c, first, err = s.markPrinted(ctx, s.repo.WithTx(tx), id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if first {
		s.printed(c)
	}
	return c, nil
}

func (s *Service) markPrinted(ctx context.Context, cards *Repository, id int64) (*Card, bool, error) {
	first, err := cards.MarkPrinted(ctx, id, s.clock.Now().UTC())
	if err != nil {
		return nil, false, err
	}
	c, err := cards.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if c == nil {
		return nil, false, ErrCardNotFound
	}
	return c, first, nil
}

func (s *Service) printed(c *Card) {
	s.metrics.CardPrinted()
	s.logger.Info("card printed", "card_id", c.ID, "member_id", c.MemberID)
}

// Print generates the card of a member if needed and marks it printed
func (s *Service) Print(ctx context.Context, memberID int64) (*Card, error) {
	cards, err := s.PrintBatch(ctx, []int64{memberID})
	if err != nil {
		return nil, err
	}
	return cards[0], nil
}

// PrintBatch prints the cards of one sheet. Duplicate member IDs are printed
// once; the whole sheet fails when any member is unknown.
func (s *Service) PrintBatch(ctx context.Context, memberIDs []int64) ([]*Card, error) {
	if len(memberIDs) == 0 {
		return nil, apperr.Validation("select at least one member to print")
	}
	if len(memberIDs) > s.sheetSize {
		return nil, apperr.Validation("a sheet holds at most %d cards, got %d", s.sheetSize, len(memberIDs))
	}

	seen := make(map[int64]bool, len(memberIDs))
	sheet := make([]*Card, 0, len(memberIDs))
	var firstPrints []*Card
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cards := s.repo.WithTx(tx)
		members := s.members.WithTx(tx)
		for _, memberID := range memberIDs {
			if seen[memberID] {
				continue
			}
			seen[memberID] = true

			c, _, err := s.getOrCreate(ctx, cards, members, memberID)
			if err != nil {
				if errors.Is(err, errCardRace) {
					return apperr.Conflict("card of member %d was generated concurrently, try again", memberID)
				}
				return err
			}
			c, first, err := s.markPrinted(ctx, cards, c.ID)
			if err != nil {
				return err
			}
			if first {
				firstPrints = append(firstPrints, c)
			}
			sheet = append(sheet, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, c := range firstPrints {
		s.printed(c)
	}
	return sheet, nil
}
