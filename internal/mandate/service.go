package mandate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fizato/federation/internal/apperr"
	"github.com/fizato/federation/internal/bureau"
	"github.com/fizato/federation/internal/clock"
	"github.com/fizato/federation/internal/database"
	"github.com/fizato/federation/internal/metrics"
)

// Common errors
var (
	ErrMandateNotFound   = apperr.New(apperr.ErrNotFound, "mandate not found")
	ErrNoCurrentMandate  = apperr.New(apperr.ErrNotFound, "no current mandate")
	ErrMandateInProgress = apperr.New(apperr.ErrConflict, "a mandate is already in progress")
	ErrMandateNotCurrent = apperr.New(apperr.ErrInvalidState, "mandate is not in progress")
	ErrMandateIsCurrent  = apperr.New(apperr.ErrInvalidState, "the current mandate cannot be deleted")
	ErrConcurrentChange  = apperr.New(apperr.ErrConflict, "mandate was ended concurrently")
	ErrInvalidStartDate  = apperr.New(apperr.ErrValidation, "start_date must be formatted as YYYY-MM-DD")
)

// TransitionResult reports a rollover from one mandate to its successor
type TransitionResult struct {
	Mandate           *Mandate
	Previous          *Mandate
	BureauArchived    int64
	CommitteeArchived int64
}

// EndResult reports a manually ended mandate
type EndResult struct {
	Mandate        *Mandate
	BureauArchived int64
}

// PurgeResult counts the rows removed by a history purge
type PurgeResult struct {
	MandatesDeleted  int64 `json:"mandates_deleted"`
	BureauDeleted    int64 `json:"bureau_deleted"`
	CommitteeDeleted int64 `json:"committee_deleted"`
}

// DeleteResult counts the rows removed with one archived mandate
type DeleteResult struct {
	BureauDeleted    int64 `json:"bureau_deleted"`
	CommitteeDeleted int64 `json:"committee_deleted"`
}

// HistoryEntry is a mandate with the bureau and committee that served in it
type HistoryEntry struct {
	Mandate   *Mandate
	Bureau    []*bureau.BureauMembership
	Committee []*bureau.CommitteeMembership
}

// Totals summarises the mandate history
type Totals struct {
	Mandates      int64 `json:"mandates"`
	Current       int64 `json:"current"`
	Archived      int64 `json:"archived"`
	FormerMembers int64 `json:"former_members"`
}

// History is the full mandate history
type History struct {
	Entries []*HistoryEntry
	Totals  Totals
}

// Service manages the mandate lifecycle
type Service struct {
	db      *gorm.DB
	repo    *Repository
	bureau  *bureau.Repository
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewService creates a new mandate service
func NewService(
	db *gorm.DB,
	repo *Repository,
	bureauRepo *bureau.Repository,
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
		bureau:  bureauRepo,
		clock:   clk,
		metrics: m,
		logger:  logger,
	}
}

// Create opens a mandate. It fails while another mandate is in progress.
func (s *Service) Create(ctx context.Context, req *CreateMandateRequest) (*Mandate, error) {
	start := clock.Today(s.clock)
	if req.StartDate != nil {
		t, err := time.Parse(time.DateOnly, *req.StartDate)
		if err != nil {
			return nil, ErrInvalidStartDate
		}
		start = t
	}

	m := &Mandate{
		Name:        strings.TrimSpace(req.Name),
		StartDate:   datatypes.Date(start),
		State:       StateCurrent,
		Description: req.Description,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.Current(ctx)
		if err != nil {
			return err
		}
		if current != nil {
			return ErrMandateInProgress
		}
		if _, err := repo.Create(ctx, m); err != nil {
			if database.IsUniqueViolation(err) {
				return ErrMandateInProgress
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("mandate opened", "mandate_id", m.ID, "name", m.Name)
	return m, nil
}

// Current retrieves the mandate in progress
func (s *Service) Current(ctx context.Context) (*Mandate, error) {
	m, err := s.repo.Current(ctx)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNoCurrentMandate
	}
	return m, nil
}

// GetByID retrieves a mandate by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Mandate, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMandateNotFound
	}
	return m, nil
}

// End closes a mandate by hand, dated today. The sitting bureau is archived
// without being linked to the mandate; the committee keeps sitting.
func (s *Service) End(ctx context.Context, id int64) (*EndResult, error) {
	today := clock.Today(s.clock)
	result := &EndResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		m, err := repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrMandateNotFound
		}
		if !m.IsCurrent() {
			return ErrMandateNotCurrent
		}

		archived, err := repo.Archive(ctx, m.ID, today, nil)
		if err != nil {
			return err
		}
		if !archived {
			return ErrConcurrentChange
		}
		if result.BureauArchived, err = s.bureau.WithTx(tx).ArchiveCurrentMemberships(ctx, today, nil); err != nil {
			return err
		}

		end := datatypes.Date(today)
		m.State = StateArchived
		m.EndDate = &end
		m.EndReason = nil
		result.Mandate = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.MandateEnded("end", result.BureauArchived, 0)
	s.logger.Info("mandate ended",
		"mandate_id", result.Mandate.ID,
		"name", result.Mandate.Name,
		"bureau_archived", result.BureauArchived,
	)
	return result, nil
}

// Transition closes the mandate in progress and opens its successor. The
// sitting bureau and committee are archived and linked to the closed mandate.
// An empty motif records DefaultTransitionReason.
func (s *Service) Transition(ctx context.Context, motif string) (*TransitionResult, error) {
	endDate := clock.Today(s.clock)
	reason := strings.TrimSpace(motif)
	if reason == "" {
		reason = DefaultTransitionReason
	}
	result := &TransitionResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		seats := s.bureau.WithTx(tx)

		previous, err := repo.LockCurrent(ctx)
		if err != nil {
			return err
		}
		if previous == nil {
			return ErrNoCurrentMandate
		}
		// a transition queued behind another one on the same day finds the
		// successor that one just opened
		if previous.Name == SuccessorName(endDate) &&
			time.Time(previous.StartDate).Format(time.DateOnly) == endDate.Format(time.DateOnly) {
			return ErrConcurrentChange
		}

		archived, err := repo.Archive(ctx, previous.ID, endDate, &reason)
		if err != nil {
			return err
		}
		if !archived {
			return ErrConcurrentChange
		}

		if result.BureauArchived, err = seats.ArchiveCurrentMemberships(ctx, endDate, &previous.ID); err != nil {
			return err
		}
		if result.CommitteeArchived, err = seats.ArchiveActiveCommittee(ctx, endDate, previous.ID); err != nil {
			return err
		}

		description := fmt.Sprintf("Mandat automatiquement créé après la fin du mandat %s", previous.Name)
		next := &Mandate{
			Name:        SuccessorName(endDate),
			StartDate:   datatypes.Date(endDate),
			State:       StateCurrent,
			Description: &description,
		}
		if _, err := repo.Create(ctx, next); err != nil {
			if database.IsUniqueViolation(err) {
				return ErrConcurrentChange
			}
			return err
		}

		end := datatypes.Date(endDate)
		previous.State = StateArchived
		previous.EndDate = &end
		previous.EndReason = &reason
		result.Previous = previous
		result.Mandate = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.MandateEnded("transition", result.BureauArchived, result.CommitteeArchived)
	s.logger.Info("mandate transitioned",
		"previous_id", result.Previous.ID,
		"previous", result.Previous.Name,
		"mandate_id", result.Mandate.ID,
		"mandate", result.Mandate.Name,
		"bureau_archived", result.BureauArchived,
		"committee_archived", result.CommitteeArchived,
	)
	return result, nil
}

// SuccessorName names the mandate that follows one ending on endDate
func SuccessorName(endDate time.Time) string {
	year := endDate.Year()
	return fmt.Sprintf("%d-%d", year+1, year+2)
}

// PreviewTransition returns the mandate in progress with the bureau and
// committee a transition would archive
func (s *Service) PreviewTransition(ctx context.Context) (*HistoryEntry, error) {
	m, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.snapshot(ctx, m)
}

// PurgeHistory deletes every archived mandate with its linked seats, and the
// archived seats that belong to no mandate
func (s *Service) PurgeHistory(ctx context.Context) (*PurgeResult, error) {
	result := &PurgeResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		seats := s.bureau.WithTx(tx)

		ids, err := repo.ArchivedIDs(ctx)
		if err != nil {
			return err
		}

		linked, err := seats.DeleteMandateMemberships(ctx, ids)
		if err != nil {
			return err
		}
		orphans, err := seats.DeleteOrphanMemberships(ctx)
		if err != nil {
			return err
		}
		result.BureauDeleted = linked + orphans

		linked, err = seats.DeleteMandateCommittee(ctx, ids)
		if err != nil {
			return err
		}
		orphans, err = seats.DeleteOrphanCommittee(ctx)
		if err != nil {
			return err
		}
		result.CommitteeDeleted = linked + orphans

		result.MandatesDeleted, err = repo.DeleteByIDs(ctx, ids)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.HistoryPurged(result.MandatesDeleted, result.BureauDeleted, result.CommitteeDeleted)
	s.logger.Warn("mandate history purged",
		"mandates", result.MandatesDeleted,
		"bureau", result.BureauDeleted,
		"committee", result.CommitteeDeleted,
	)
	return result, nil
}

// DeleteArchived deletes one archived mandate with its linked seats
func (s *Service) DeleteArchived(ctx context.Context, id int64) (*DeleteResult, error) {
	result := &DeleteResult{}
	var name string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		seats := s.bureau.WithTx(tx)

		m, err := repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrMandateNotFound
		}
		if m.IsCurrent() {
			return ErrMandateIsCurrent
		}
		name = m.Name

		ids := []int64{m.ID}
		if result.BureauDeleted, err = seats.DeleteMandateMemberships(ctx, ids); err != nil {
			return err
		}
		if result.CommitteeDeleted, err = seats.DeleteMandateCommittee(ctx, ids); err != nil {
			return err
		}
		_, err = repo.DeleteByIDs(ctx, ids)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.HistoryPurged(1, result.BureauDeleted, result.CommitteeDeleted)
	s.logger.Info("archived mandate deleted",
		"mandate_id", id,
		"name", name,
		"bureau", result.BureauDeleted,
		"committee", result.CommitteeDeleted,
	)
	return result, nil
}

// History lists every mandate with the bureau and committee that served in it
func (s *Service) History(ctx context.Context) (*History, error) {
	mandates, err := s.repo.ListHistory(ctx)
	if err != nil {
		return nil, err
	}

	h := &History{Entries: make([]*HistoryEntry, 0, len(mandates))}
	for _, m := range mandates {
		entry, err := s.snapshot(ctx, m)
		if err != nil {
			return nil, err
		}
		h.Entries = append(h.Entries, entry)
	}

	counts, err := s.repo.CountByState(ctx)
	if err != nil {
		return nil, err
	}
	h.Totals.Current = counts[StateCurrent]
	h.Totals.Archived = counts[StateArchived]
	h.Totals.Mandates = h.Totals.Current + h.Totals.Archived
	if h.Totals.FormerMembers, err = s.bureau.CountFormerMembers(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// snapshot loads the seats of a mandate: the sitting ones for the mandate in
// progress, the linked archived ones otherwise
func (s *Service) snapshot(ctx context.Context, m *Mandate) (*HistoryEntry, error) {
	entry := &HistoryEntry{Mandate: m}
	var err error
	if m.IsCurrent() {
		if entry.Bureau, err = s.bureau.ListCurrentMemberships(ctx); err != nil {
			return nil, err
		}
		if entry.Committee, err = s.bureau.CommitteeSnapshot(ctx); err != nil {
			return nil, err
		}
		return entry, nil
	}
	if entry.Bureau, err = s.bureau.ListMandateMemberships(ctx, m.ID); err != nil {
		return nil, err
	}
	if entry.Committee, err = s.bureau.ListMandateCommittee(ctx, m.ID); err != nil {
		return nil, err
	}
	return entry, nil
}
