package member_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fizato/federation/internal/apperr"
	"github.com/fizato/federation/internal/association"
	"github.com/fizato/federation/internal/database/dbtest"
	"github.com/fizato/federation/internal/member"
	"github.com/fizato/federation/internal/metrics"
)

func newService(db *gorm.DB) *member.Service {
	return member.NewService(
		db,
		member.NewRepository(db),
		association.NewRepository(db),
		metrics.New(prometheus.NewRegistry()),
		dbtest.Logger(),
	)
}

func createRequest(associationID int64, nationalID string) *member.CreateMemberRequest {
	return &member.CreateMemberRequest{
		AssociationID: associationID,
		LastName:      "Ndiaye",
		FirstName:     "Awa",
		NationalID:    nationalID,
		Field:         "Mathématiques",
		Track:         "Master",
	}
}

func TestCreateAssignsSequentialCardNumbers(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	svc := newService(db)
	a := dbtest.CreateAssociation(t, db, "Amicale des Étudiants")

	for _, nid := range []string{"N1", "N2", "N3"} {
		_, err := svc.Create(ctx, createRequest(a.ID, nid))
		require.NoError(t, err)
	}

	fourth, err := svc.Create(ctx, createRequest(a.ID, "N4"))
	require.NoError(t, err)
	assert.Equal(t, "0004AM", fourth.CardNumber)
	assert.Equal(t, a.Name, fourth.Association.Name)
}

func TestCreateSkipsSequenceGaps(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	svc := newService(db)
	a := dbtest.CreateAssociation(t, db, "AE")

	first, err := svc.Create(ctx, createRequest(a.ID, "N1"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, createRequest(a.ID, "N2"))
	require.NoError(t, err)
	third, err := svc.Create(ctx, createRequest(a.ID, "N3"))
	require.NoError(t, err)
	assert.Equal(t, "0003AE", third.CardNumber)

	require.NoError(t, svc.Delete(ctx, first.ID))

	// count+1 would reuse 0003AE
	next, err := svc.Create(ctx, createRequest(a.ID, "N4"))
	require.NoError(t, err)
	assert.Equal(t, "0004AE", next.CardNumber)
}

func TestCreateRejectsDuplicateNationalID(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	svc := newService(db)
	a := dbtest.CreateAssociation(t, db, "AE")

	_, err := svc.Create(ctx, createRequest(a.ID, "N1"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, createRequest(a.ID, "N1"))
	require.ErrorIs(t, err, member.ErrNationalIDInUse)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestCreateUnknownAssociation(t *testing.T) {
	db := dbtest.New(t)
	_, err := newService(db).Create(context.Background(), createRequest(99, "N1"))
	require.ErrorIs(t, err, association.ErrAssociationNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateAvoidsCodesHeldElsewhere(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	svc := newService(db)
	a := dbtest.CreateAssociation(t, db, "AE")

	// a stray row already holds the number the next member would get
	stray := dbtest.CreateAssociation(t, db, "Zz")
	require.NoError(t, db.Create(&member.Member{
		AssociationID: stray.ID,
		LastName:      "Stray",
		FirstName:     "Row",
		NationalID:    "STRAY",
		Field:         "-",
		Track:         "-",
		CardNumber:    "0001AE",
	}).Error)

	// AE is held by another association's card, so the sweep moves on
	m, err := svc.Create(ctx, createRequest(a.ID, "N1"))
	require.NoError(t, err)
	assert.NotEqual(t, "0001AE", m.CardNumber)
	assert.Equal(t, "0001A0", m.CardNumber)
}

func TestUpdateKeepsCardNumber(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	svc := newService(db)
	a := dbtest.CreateAssociation(t, db, "AE")
	b := dbtest.CreateAssociation(t, db, "Club")

	m, err := svc.Create(ctx, createRequest(a.ID, "N1"))
	require.NoError(t, err)
	original := m.CardNumber

	name := "Fall"
	updated, err := svc.Update(ctx, m.ID, &member.UpdateMemberRequest{
		AssociationID: &b.ID,
		LastName:      &name,
	})
	require.NoError(t, err)
	assert.Equal(t, original, updated.CardNumber)
	assert.Equal(t, b.ID, updated.AssociationID)

	reloaded, err := svc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, original, reloaded.CardNumber)
	assert.Equal(t, "Fall", reloaded.LastName)

	// the moved card still holds AE, so AE falls back to another code
	next, err := svc.Create(ctx, createRequest(a.ID, "N2"))
	require.NoError(t, err)
	assert.Equal(t, "0001A0", next.CardNumber)
}

func TestUpdateOwn(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	svc := newService(db)
	a := dbtest.CreateAssociation(t, db, "AE")

	subject := "awa@example.org"
	req := createRequest(a.ID, "N1")
	req.AccountSubject = &subject
	m, err := svc.Create(ctx, req)
	require.NoError(t, err)

	phone := "+221 77 000 00 00"
	updated, err := svc.UpdateOwn(ctx, subject, &member.ContactUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, m.ID, updated.ID)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
	assert.Equal(t, m.CardNumber, updated.CardNumber)

	_, err = svc.UpdateOwn(ctx, "nobody", &member.ContactUpdate{Phone: &phone})
	assert.ErrorIs(t, err, member.ErrNoLinkedMember)
}

func TestListNewestFirst(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	svc := newService(db)
	a := dbtest.CreateAssociation(t, db, "AE")
	b := dbtest.CreateAssociation(t, db, "Club")

	first := dbtest.CreateMember(t, db, a.ID, "Un")
	second := dbtest.CreateMember(t, db, a.ID, "Deux")
	dbtest.CreateMember(t, db, b.ID, "Trois")

	members, total, err := svc.List(ctx, member.ListFilter{AssociationID: &a.ID}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, members, 2)
	assert.Equal(t, second.ID, members[0].ID)
	assert.Equal(t, first.ID, members[1].ID)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestDeleteUnknownMember(t *testing.T) {
	db := dbtest.New(t)
	err := newService(db).Delete(context.Background(), 42)
	assert.ErrorIs(t, err, member.ErrMemberNotFound)
}

func TestDeleteRemovesCardAndSeats(t *testing.T) {
	db := dbtest.New(t)
	a := dbtest.CreateAssociation(t, db, "AE")
	gone := dbtest.CreateMember(t, db, a.ID, "Sarr")
	kept := dbtest.CreateMember(t, db, a.ID, "Fall")
	dbtest.Attach(t, db, gone.ID)
	dbtest.Attach(t, db, kept.ID)

	require.NoError(t, newService(db).Delete(context.Background(), gone.ID))

	for _, table := range []string{"cards", "bureau_memberships", "committee_memberships"} {
		assert.Zero(t, dbtest.CountRows(t, db, table, gone.ID), table)
		assert.EqualValues(t, 1, dbtest.CountRows(t, db, table, kept.ID), table)
	}
	_, err := newService(db).GetByID(context.Background(), gone.ID)
	assert.ErrorIs(t, err, member.ErrMemberNotFound)
}
