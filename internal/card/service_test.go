package card_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fizato/federation/internal/apperr"
	"github.com/fizato/federation/internal/card"
	"github.com/fizato/federation/internal/clock"
	"github.com/fizato/federation/internal/database/dbtest"
	"github.com/fizato/federation/internal/member"
)

func newService(db *gorm.DB, clk clock.Clock) *card.Service {
	return card.NewService(db, card.NewRepository(db), member.NewRepository(db), clk, nil, dbtest.Logger(), 0)
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	svc := newService(db, &clock.Fixed{T: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)})
	a := dbtest.CreateAssociation(t, db, "AE")
	m := dbtest.CreateMember(t, db, a.ID, "Diallo")

	c, created, err := svc.GetOrCreate(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, m.ID, c.MemberID)
	assert.False(t, c.IsPrinted)
	assert.Nil(t, c.PrintedAt)

	again, created, err := svc.GetOrCreate(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, c.ID, again.ID)
	assert.Equal(t, c.UID, again.UID)

	resp := again.ToResponse()
	assert.Equal(t, m.CardNumber, resp.CardNumber)
	assert.Equal(t, "AE", resp.AssociationName)
}

func TestGetOrCreateUnknownMember(t *testing.T) {
	db := dbtest.New(t)
	_, _, err := newService(db, clock.Real()).GetOrCreate(context.Background(), 7)
	require.ErrorIs(t, err, member.ErrMemberNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMarkPrintedKeepsFirstDate(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	clk := &clock.Fixed{T: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc := newService(db, clk)
	a := dbtest.CreateAssociation(t, db, "AE")
	m := dbtest.CreateMember(t, db, a.ID, "Diallo")

	c, _, err := svc.GetOrCreate(ctx, m.ID)
	require.NoError(t, err)

	printed, err := svc.MarkPrinted(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, printed.IsPrinted)
	require.NotNil(t, printed.PrintedAt)
	firstDate := *printed.PrintedAt

	clk.T = clk.T.Add(48 * time.Hour)
	reprinted, err := svc.MarkPrinted(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, reprinted.PrintedAt)
	assert.True(t, firstDate.Equal(*reprinted.PrintedAt), "print date moved to %s", reprinted.PrintedAt)

	_, err = svc.MarkPrinted(ctx, 999)
	assert.ErrorIs(t, err, card.ErrCardNotFound)
}

func TestPrintBatch(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	svc := newService(db, clock.Real())
	a := dbtest.CreateAssociation(t, db, "AE")
	first := dbtest.CreateMember(t, db, a.ID, "Un")
	second := dbtest.CreateMember(t, db, a.ID, "Deux")

	t.Run("generates and prints", func(t *testing.T) {
		sheet, err := svc.PrintBatch(ctx, []int64{first.ID, second.ID, first.ID})
		require.NoError(t, err)
		require.Len(t, sheet, 2)
		for _, c := range sheet {
			assert.True(t, c.IsPrinted)
		}

		printed := true
		cards, total, err := svc.List(ctx, &printed, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, cards, 2)
	})

	t.Run("empty sheet", func(t *testing.T) {
		_, err := svc.PrintBatch(ctx, nil)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("sheet too large", func(t *testing.T) {
		ids := make([]int64, card.DefaultSheetSize+1)
		for i := range ids {
			ids[i] = first.ID
		}
		_, err := svc.PrintBatch(ctx, ids)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("unknown member fails the sheet", func(t *testing.T) {
		third := dbtest.CreateMember(t, db, a.ID, "Trois")
		_, err := svc.PrintBatch(ctx, []int64{third.ID, 4242})
		require.ErrorIs(t, err, apperr.ErrNotFound)

		var n int64
		require.NoError(t, db.Model(&card.Card{}).Where("member_id = ?", third.ID).Count(&n).Error)
		assert.Zero(t, n)
	})
}

func TestPrintSingleMember(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	svc := newService(db, clock.Real())
	a := dbtest.CreateAssociation(t, db, "AE")
	m := dbtest.CreateMember(t, db, a.ID, "Seul")

	c, err := svc.Print(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, c.MemberID)
	assert.True(t, c.IsPrinted)

	unprinted := false
	cards, total, err := svc.List(ctx, &unprinted, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, cards)
}
