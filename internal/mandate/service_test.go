package mandate_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fizato/federation/internal/apperr"
	"github.com/fizato/federation/internal/bureau"
	"github.com/fizato/federation/internal/clock"
	"github.com/fizato/federation/internal/database/dbtest"
	"github.com/fizato/federation/internal/mandate"
	"github.com/fizato/federation/internal/member"
)

type fixture struct {
	db       *gorm.DB
	clock    *clock.Fixed
	mandates *mandate.Service
	bureau   *bureau.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	clk := &clock.Fixed{T: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
	seats := bureau.NewRepository(db)
	return &fixture{
		db:       db,
		clock:    clk,
		mandates: mandate.NewService(db, mandate.NewRepository(db), seats, clk, nil, dbtest.Logger()),
		bureau:   bureau.NewService(db, seats, member.NewRepository(db), clk, nil, dbtest.Logger()),
	}
}

func (f *fixture) open(t *testing.T, name, start string) *mandate.Mandate {
	t.Helper()
	m, err := f.mandates.Create(context.Background(), &mandate.CreateMandateRequest{Name: name, StartDate: &start})
	require.NoError(t, err)
	return m
}

// seat fills the bureau with n members and the committee with c members
func (f *fixture) seat(t *testing.T, n, c int) {
	t.Helper()
	ctx := context.Background()
	a := dbtest.CreateAssociation(t, f.db, "AE")
	fn, err := f.bureau.CreateFunction(ctx, &bureau.CreateFunctionRequest{Name: "Conseiller", Rank: 6})
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		m := dbtest.CreateMember(t, f.db, a.ID, "Bureau")
		_, err := f.bureau.Assign(ctx, &bureau.AssignRequest{MemberID: m.ID, FunctionID: fn.ID})
		require.NoError(t, err)
	}
	for i := 0; i < c; i++ {
		m := dbtest.CreateMember(t, f.db, a.ID, "Comite")
		_, err := f.bureau.Nominate(ctx, &bureau.NominateRequest{MemberID: m.ID, DisplayOrder: i})
		require.NoError(t, err)
	}
}

func (f *fixture) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func day(d *datatypes.Date) string {
	if d == nil {
		return ""
	}
	return time.Time(*d).UTC().Format(time.DateOnly)
}

func TestTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	previous := f.open(t, "2024-2026", "2024-09-01")
	f.seat(t, 3, 2)

	result, err := f.mandates.Transition(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, previous.ID, result.Previous.ID)
	assert.EqualValues(t, 3, result.BureauArchived)
	assert.EqualValues(t, 2, result.CommitteeArchived)

	next := result.Mandate
	assert.Equal(t, "2027-2028", next.Name)
	assert.Equal(t, mandate.StateCurrent, next.State)
	assert.Equal(t, "2026-06-01", day(&next.StartDate))
	require.NotNil(t, next.Description)
	assert.Equal(t, "Mandat automatiquement créé après la fin du mandat 2024-2026", *next.Description)

	closed, err := f.mandates.GetByID(ctx, previous.ID)
	require.NoError(t, err)
	assert.Equal(t, mandate.StateArchived, closed.State)
	assert.Equal(t, "2026-06-01", day(closed.EndDate))
	require.NotNil(t, closed.EndReason)
	assert.Equal(t, mandate.DefaultTransitionReason, *closed.EndReason)

	assert.EqualValues(t, 0, f.count(t, &bureau.BureauMembership{}, "is_current = ?", true))
	assert.EqualValues(t, 0, f.count(t, &bureau.CommitteeMembership{}, "is_active = ?", true))
	assert.EqualValues(t, 3, f.count(t, &bureau.BureauMembership{}, "mandate_id = ?", previous.ID))
	assert.EqualValues(t, 2, f.count(t, &bureau.CommitteeMembership{}, "mandate_id = ?", previous.ID))
	assert.EqualValues(t, 1, f.count(t, &mandate.Mandate{}, "state = ?", mandate.StateCurrent))

	current, err := f.mandates.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, next.ID, current.ID)
}

func TestTransitionWithMotif(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	previous := f.open(t, "2024-2026", "2024-09-01")

	_, err := f.mandates.Transition(ctx, "  Assemblée générale extraordinaire ")
	require.NoError(t, err)

	closed, err := f.mandates.GetByID(ctx, previous.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.EndReason)
	assert.Equal(t, "Assemblée générale extraordinaire", *closed.EndReason)
}

func TestTransitionWithoutCurrentMandate(t *testing.T) {
	f := newFixture(t)
	_, err := f.mandates.Transition(context.Background(), "")
	require.ErrorIs(t, err, mandate.ErrNoCurrentMandate)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.mandates.PreviewTransition(context.Background())
	assert.ErrorIs(t, err, mandate.ErrNoCurrentMandate)
}

func TestPreviewTransition(t *testing.T) {
	f := newFixture(t)
	m := f.open(t, "2024-2026", "2024-09-01")
	f.seat(t, 2, 1)

	entry, err := f.mandates.PreviewTransition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, m.ID, entry.Mandate.ID)
	assert.Len(t, entry.Bureau, 2)
	assert.Len(t, entry.Committee, 1)

	// nothing changed
	assert.EqualValues(t, 2, f.count(t, &bureau.BureauMembership{}, "is_current = ?", true))
}

func TestConcurrentTransitions(t *testing.T) {
	f := newFixture(t)
	f.open(t, "2024-2026", "2024-09-01")
	f.seat(t, 2, 1)

	const workers = 5
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		failures  []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.mandates.Transition(context.Background(), "")
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			succeeded++
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	require.Len(t, failures, workers-1)
	for _, err := range failures {
		assert.ErrorIs(t, err, apperr.ErrConflict)
	}
	assert.EqualValues(t, 1, f.count(t, &mandate.Mandate{}, "state = ?", mandate.StateCurrent))
	assert.EqualValues(t, 1, f.count(t, &mandate.Mandate{}, "state = ?", mandate.StateArchived))
	assert.EqualValues(t, 1, f.count(t, &mandate.Mandate{}, "name = ?", "2027-2028"))
	assert.EqualValues(t, 0, f.count(t, &bureau.BureauMembership{}, "is_current = ?", true))
}

func TestSecondTransitionSameDay(t *testing.T) {
	f := newFixture(t)
	previous := f.open(t, "2024-2026", "2024-09-01")

	first, err := f.mandates.Transition(context.Background(), "")
	require.NoError(t, err)

	_, err = f.mandates.Transition(context.Background(), "")
	require.ErrorIs(t, err, mandate.ErrConcurrentChange)

	current, err := f.mandates.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Mandate.ID, current.ID)
	assert.EqualValues(t, 1, f.count(t, &mandate.Mandate{}, "state = ?", mandate.StateArchived))
	assert.EqualValues(t, 1, f.count(t, &mandate.Mandate{}, "id = ? AND state = ?", previous.ID, mandate.StateArchived))

	// a year on the successor closes normally
	f.clock.T = f.clock.T.AddDate(1, 0, 0)
	_, err = f.mandates.Transition(context.Background(), "")
	require.NoError(t, err)
}

func TestCreateWhileCurrent(t *testing.T) {
	f := newFixture(t)
	f.open(t, "2024-2026", "2024-09-01")

	_, err := f.mandates.Create(context.Background(), &mandate.CreateMandateRequest{Name: "2025-2027"})
	require.ErrorIs(t, err, mandate.ErrMandateInProgress)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestCreateInvalidStartDate(t *testing.T) {
	f := newFixture(t)
	bad := "1er septembre"
	_, err := f.mandates.Create(context.Background(), &mandate.CreateMandateRequest{Name: "2024-2026", StartDate: &bad})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.open(t, "2024-2026", "2024-09-01")
	f.seat(t, 2, 2)

	result, err := f.mandates.End(ctx, m.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.BureauArchived)
	assert.Equal(t, mandate.StateArchived, result.Mandate.State)
	assert.Equal(t, "2026-06-01", day(result.Mandate.EndDate))
	assert.Nil(t, result.Mandate.EndReason)

	// the bureau is archived but not linked, the committee keeps sitting
	assert.EqualValues(t, 2, f.count(t, &bureau.BureauMembership{}, "is_current = ? AND mandate_id IS NULL", false))
	assert.EqualValues(t, 2, f.count(t, &bureau.CommitteeMembership{}, "is_active = ?", true))

	_, err = f.mandates.End(ctx, m.ID)
	require.ErrorIs(t, err, mandate.ErrMandateNotCurrent)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = f.mandates.End(ctx, 999)
	assert.ErrorIs(t, err, mandate.ErrMandateNotFound)

	_, err = f.mandates.Current(ctx)
	assert.ErrorIs(t, err, mandate.ErrNoCurrentMandate)
}

func TestPurgeHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.open(t, "2022-2024", "2022-09-01")
	f.seat(t, 2, 1)
	_, err := f.mandates.End(ctx, first.ID)
	require.NoError(t, err)

	f.open(t, "2024-2026", "2024-09-01")
	fn, err := f.bureau.CreateFunction(ctx, &bureau.CreateFunctionRequest{Name: "Trésorier", Rank: 4})
	require.NoError(t, err)
	a := dbtest.CreateAssociation(t, f.db, "Club")
	m := dbtest.CreateMember(t, f.db, a.ID, "Caissier")
	_, err = f.bureau.Assign(ctx, &bureau.AssignRequest{MemberID: m.ID, FunctionID: fn.ID})
	require.NoError(t, err)

	result, err := f.mandates.Transition(ctx, "")
	require.NoError(t, err)
	// the committee sat through the manual end, so the transition archived it
	assert.EqualValues(t, 1, result.CommitteeArchived)

	purged, err := f.mandates.PurgeHistory(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, purged.MandatesDeleted)
	assert.EqualValues(t, 3, purged.BureauDeleted)
	assert.EqualValues(t, 1, purged.CommitteeDeleted)

	assert.EqualValues(t, 0, f.count(t, &mandate.Mandate{}, "state = ?", mandate.StateArchived))
	assert.EqualValues(t, 1, f.count(t, &mandate.Mandate{}, "state = ?", mandate.StateCurrent))
	assert.EqualValues(t, 0, f.count(t, &bureau.BureauMembership{}, "is_current = ?", false))
	assert.EqualValues(t, 0, f.count(t, &bureau.CommitteeMembership{}, "is_active = ?", false))

	again, err := f.mandates.PurgeHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, &mandate.PurgeResult{}, again)
}

func TestDeleteArchived(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	previous := f.open(t, "2024-2026", "2024-09-01")
	f.seat(t, 2, 1)

	result, err := f.mandates.Transition(ctx, "")
	require.NoError(t, err)

	_, err = f.mandates.DeleteArchived(ctx, result.Mandate.ID)
	require.ErrorIs(t, err, mandate.ErrMandateIsCurrent)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = f.mandates.DeleteArchived(ctx, 999)
	assert.ErrorIs(t, err, mandate.ErrMandateNotFound)

	deleted, err := f.mandates.DeleteArchived(ctx, previous.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted.BureauDeleted)
	assert.EqualValues(t, 1, deleted.CommitteeDeleted)

	_, err = f.mandates.GetByID(ctx, previous.ID)
	assert.ErrorIs(t, err, mandate.ErrMandateNotFound)
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oldest := f.open(t, "2020-2022", "2020-09-01")
	f.seat(t, 2, 1)

	f.clock.T = time.Date(2022, 8, 31, 0, 0, 0, 0, time.UTC)
	first, err := f.mandates.Transition(ctx, "")
	require.NoError(t, err)

	f.clock.T = time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC)
	second, err := f.mandates.Transition(ctx, "")
	require.NoError(t, err)

	h, err := f.mandates.History(ctx)
	require.NoError(t, err)
	require.Len(t, h.Entries, 3)

	assert.Equal(t, second.Mandate.ID, h.Entries[0].Mandate.ID)
	assert.Equal(t, first.Mandate.ID, h.Entries[1].Mandate.ID)
	assert.Equal(t, oldest.ID, h.Entries[2].Mandate.ID)

	assert.Len(t, h.Entries[2].Bureau, 2)
	assert.Len(t, h.Entries[2].Committee, 1)
	assert.Empty(t, h.Entries[1].Bureau)
	assert.Empty(t, h.Entries[0].Bureau)

	assert.Equal(t, mandate.Totals{Mandates: 3, Current: 1, Archived: 2, FormerMembers: 2}, h.Totals)

	resp := h.ToResponse()
	require.Len(t, resp.Mandates, 3)
	assert.Equal(t, "2025-2026", resp.Mandates[0].Mandate.Name)
}

func TestSuccessorName(t *testing.T) {
	assert.Equal(t, "2027-2028", mandate.SuccessorName(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-2027", mandate.SuccessorName(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
}
