package association_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fizato/federation/internal/apperr"
	"github.com/fizato/federation/internal/association"
	"github.com/fizato/federation/internal/database/dbtest"
	"github.com/fizato/federation/internal/member"
)

func TestLetters(t *testing.T) {
	assert.Equal(t, "CLUBDEROBOTIQUEFIZATO", string(association.Letters("Club de Robotique FIZATO")))
	assert.Equal(t, "ÉTUDIANTS", string(association.Letters("étudiants 2024!")))
	assert.Empty(t, association.Letters("2024 - 42"))
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"A", nil},
		{"AE", []string{"AE"}},
		{"ABC", []string{"AB", "AC"}},
		{"Club", []string{"CL", "CU", "CB", "LB"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, association.Candidates(association.Letters(tt.name)))
		})
	}
}

func TestPickCode(t *testing.T) {
	t.Run("first candidate when free", func(t *testing.T) {
		code, err := association.PickCode("Club de Robotique FIZATO", nil)
		require.NoError(t, err)
		assert.Equal(t, "CL", code)
	})

	t.Run("walks the candidates in order", func(t *testing.T) {
		taken := map[string]bool{"CL": true, "CU": true}
		code, err := association.PickCode("Club", taken)
		require.NoError(t, err)
		assert.Equal(t, "CB", code)

		taken["CB"] = true
		code, err = association.PickCode("Club", taken)
		require.NoError(t, err)
		assert.Equal(t, "LB", code)
	})

	t.Run("falls back to the first letter sweep", func(t *testing.T) {
		taken := map[string]bool{"CL": true, "CU": true, "CB": true, "LB": true}
		code, err := association.PickCode("Club", taken)
		require.NoError(t, err)
		assert.Equal(t, "C0", code)

		taken["C0"] = true
		taken["C1"] = true
		code, err = association.PickCode("Club", taken)
		require.NoError(t, err)
		assert.Equal(t, "C2", code)
	})

	t.Run("short names go straight to the sweep", func(t *testing.T) {
		code, err := association.PickCode("A", nil)
		require.NoError(t, err)
		assert.Equal(t, "A0", code)

		code, err = association.PickCode("123", nil)
		require.NoError(t, err)
		assert.Equal(t, "X0", code)
	})

	t.Run("moves to the next prefix once the first is full", func(t *testing.T) {
		taken := map[string]bool{}
		for _, s := range "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ" {
			taken["X"+string(s)] = true
		}
		code, err := association.PickCode("", taken)
		require.NoError(t, err)
		assert.Equal(t, "A0", code)
	})

	t.Run("exhaustion is a conflict", func(t *testing.T) {
		taken := map[string]bool{}
		for p := 'A'; p <= 'Z'; p++ {
			for _, s := range "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ" {
				taken[string([]rune{p, s})] = true
			}
		}
		_, err := association.PickCode("Club", taken)
		require.ErrorIs(t, err, association.ErrCodesExhausted)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})
}

func TestCodeSuffix(t *testing.T) {
	assert.Equal(t, "AE", association.CodeSuffix("0001AE"))
	assert.Equal(t, "", association.CodeSuffix("A"))
}

func TestDeriveCode(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	repo := association.NewRepository(db)

	club := dbtest.CreateAssociation(t, db, "Club de Robotique FIZATO")
	code, err := association.DeriveCode(ctx, repo, club)
	require.NoError(t, err)
	assert.Equal(t, "CL", code)

	t.Run("own members do not collide", func(t *testing.T) {
		m := dbtest.CreateMember(t, db, club.ID, "Diallo")
		assert.Equal(t, "0001CL", m.CardNumber)

		code, err := association.DeriveCode(ctx, repo, club)
		require.NoError(t, err)
		assert.Equal(t, "CL", code)
	})

	t.Run("another association's suffix is skipped", func(t *testing.T) {
		clinic := dbtest.CreateAssociation(t, db, "Club Linguistique")
		code, err := association.DeriveCode(ctx, repo, clinic)
		require.NoError(t, err)
		assert.Equal(t, "CU", code)

		m := dbtest.CreateMember(t, db, clinic.ID, "Ba")
		assert.Equal(t, "0001CU", m.CardNumber)
	})

	t.Run("codes stay distinct across associations", func(t *testing.T) {
		svc := association.NewService(repo, nil, dbtest.Logger())
		seen := map[string]int64{}
		associations, _, err := svc.List(ctx, 1, 100)
		require.NoError(t, err)
		for _, a := range associations {
			code, err := svc.Code(ctx, a.ID)
			require.NoError(t, err)
			if other, dup := seen[code]; dup {
				t.Fatalf("associations %d and %d share code %s", other, a.ID, code)
			}
			seen[code] = a.ID
		}
	})
}

func TestCardNumberSuffixMatchesCode(t *testing.T) {
	db := dbtest.New(t)
	a := dbtest.CreateAssociation(t, db, "AE")
	m := dbtest.CreateMember(t, db, a.ID, "Sow")
	assert.Equal(t, member.FormatCardNumber(1, "AE"), m.CardNumber)
}
