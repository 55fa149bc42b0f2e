package federation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fizato/federation/internal/apperr"
	"github.com/fizato/federation/internal/database/dbtest"
	"github.com/fizato/federation/internal/federation"
	"github.com/fizato/federation/internal/mandate"
)

type count int64

func (c count) Count(context.Context) (int64, error) { return int64(c), nil }

type seats int64

func (s seats) CountCurrentMemberships(context.Context) (int64, error) { return int64(s), nil }

type currentMandate struct {
	m   *mandate.Mandate
	err error
}

func (c currentMandate) Current(context.Context) (*mandate.Mandate, error) { return c.m, c.err }

func TestProfile(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	svc := federation.NewService(federation.NewRepository(db), federation.Sources{}, dbtest.Logger())

	p, err := svc.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, federation.DefaultShortName, p.ShortName)

	full := "Fédération des associations étudiantes"
	founders := "Awa Ndiaye, Moussa Fall,"
	founded := "1998-03-14"
	saved, err := svc.UpdateProfile(ctx, &federation.UpdateProfileRequest{FullName: &full, Founders: &founders, FoundedOn: &founded})
	require.NoError(t, err)
	assert.Equal(t, federation.DefaultShortName, saved.ShortName)

	motto := "Unis pour réussir"
	_, err = svc.UpdateProfile(ctx, &federation.UpdateProfileRequest{Motto: &motto})
	require.NoError(t, err)

	p, err = svc.Profile(ctx)
	require.NoError(t, err)
	resp := p.ToResponse()
	assert.Equal(t, full, resp.FullName)
	assert.Equal(t, []string{"Awa Ndiaye", "Moussa Fall"}, resp.Founders)
	require.NotNil(t, resp.FoundedOn)
	assert.Equal(t, founded, *resp.FoundedOn)
	require.NotNil(t, resp.Motto)
	assert.Equal(t, motto, *resp.Motto)

	var rows int64
	require.NoError(t, db.Model(&federation.Profile{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	bad := "14/03/1998"
	_, err = svc.UpdateProfile(ctx, &federation.UpdateProfileRequest{FoundedOn: &bad})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSummary(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	sources := federation.Sources{
		Associations: count(4),
		Members:      count(120),
		Cards:        count(80),
		Bureau:       seats(7),
		Mandates:     currentMandate{m: &mandate.Mandate{ID: 3, Name: "2024-2026", State: mandate.StateCurrent}},
	}
	svc := federation.NewService(federation.NewRepository(db), sources, dbtest.Logger())

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, summary.Associations)
	assert.EqualValues(t, 120, summary.Members)
	assert.EqualValues(t, 80, summary.Cards)
	assert.EqualValues(t, 7, summary.BureauSize)
	require.NotNil(t, summary.CurrentMandate)
	assert.Equal(t, "2024-2026", summary.CurrentMandate.Name)

	sources.Mandates = currentMandate{}
	summary, err = federation.NewService(federation.NewRepository(db), sources, dbtest.Logger()).Summary(ctx)
	require.NoError(t, err)
	assert.Nil(t, summary.CurrentMandate)

	boom := errors.New("boom")
	sources.Mandates = currentMandate{err: boom}
	_, err = federation.NewService(federation.NewRepository(db), sources, dbtest.Logger()).Summary(ctx)
	assert.ErrorIs(t, err, boom)
}
