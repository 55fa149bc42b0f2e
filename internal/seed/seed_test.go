package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fizato/federation/internal/clock"
	"github.com/fizato/federation/internal/config"
	"github.com/fizato/federation/internal/database/dbtest"
	"github.com/fizato/federation/internal/seed"
	"github.com/fizato/federation/internal/server"
)

func TestDefault(t *testing.T) {
	f, err := seed.Default()
	require.NoError(t, err)

	require.NotNil(t, f.Federation)
	assert.Equal(t, "FI.ZA.TO", f.Federation.ShortName)
	require.Len(t, f.Functions, 6)
	assert.Equal(t, "Président", f.Functions[0].Name)
	assert.True(t, f.Functions[0].Singular)
	for _, fn := range f.Functions[1:] {
		assert.False(t, fn.Singular, fn.Name)
	}
	require.NotNil(t, f.Mandate)
	assert.Equal(t, "2024-2026", f.Mandate.Name)
	assert.Equal(t, "2024-09-01", f.Mandate.StartDate)
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"unnamed function":   "functions:\n  - rank: 1\n",
		"rank below one":     "functions:\n  - name: Président\n    rank: 0\n",
		"duplicate function": "functions:\n  - name: A\n    rank: 1\n  - name: A\n    rank: 2\n",
		"unnamed mandate":    "mandate:\n  startDate: \"2024-09-01\"\n",
		"not yaml":           "functions: {",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := seed.Parse([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	svc := server.NewServices(db, config.Default(), clock.Real(), nil, dbtest.Logger())
	services := seed.Services{Federation: svc.Federation, Bureau: svc.Bureau, Mandates: svc.Mandates}

	f, err := seed.Default()
	require.NoError(t, err)

	first, err := f.Apply(ctx, services, dbtest.Logger())
	require.NoError(t, err)
	assert.Equal(t, 6, first.FunctionsCreated)
	assert.True(t, first.MandateOpened)

	second, err := f.Apply(ctx, services, dbtest.Logger())
	require.NoError(t, err)
	assert.Zero(t, second.FunctionsCreated)
	assert.False(t, second.MandateOpened)

	functions, err := svc.Bureau.ListFunctions(ctx)
	require.NoError(t, err)
	assert.Len(t, functions, 6)

	current, err := svc.Mandates.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-2026", current.Name)

	profile, err := svc.Federation.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fédération des associations étudiantes", profile.FullName)
}
