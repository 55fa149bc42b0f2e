package dbtest

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fizato/federation/internal/association"
	"github.com/fizato/federation/internal/bureau"
	"github.com/fizato/federation/internal/card"
	"github.com/fizato/federation/internal/clock"
	"github.com/fizato/federation/internal/member"
)

var (
	nationalIDs atomic.Int64
	functions   atomic.Int64
)

// Logger discards everything
func Logger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// CreateAssociation inserts an association named name
func CreateAssociation(t testing.TB, db *gorm.DB, name string) *association.Association {
	t.Helper()

	a, err := association.NewRepository(db).Create(context.Background(), &association.Association{Name: name})
	require.NoError(t, err)
	return a
}

// CreateMember registers a member of the association through the member
// service, so it receives a generated card number
func CreateMember(t testing.TB, db *gorm.DB, associationID int64, lastName string) *member.Member {
	t.Helper()

	svc := member.NewService(db, member.NewRepository(db), association.NewRepository(db), nil, Logger())
	m, err := svc.Create(context.Background(), &member.CreateMemberRequest{
		AssociationID: associationID,
		LastName:      lastName,
		FirstName:     "Test",
		NationalID:    fmt.Sprintf("NID%06d", nationalIDs.Add(1)),
		Field:         "Informatique",
		Track:         "Licence",
	})
	require.NoError(t, err)
	return m
}

// Attach gives the member a card, a current bureau seat and an active
// committee seat
func Attach(t testing.TB, db *gorm.DB, memberID int64) {
	t.Helper()
	ctx := context.Background()
	clk := clock.Real()

	members := member.NewRepository(db)
	_, _, err := card.NewService(db, card.NewRepository(db), members, clk, nil, Logger(), 0).GetOrCreate(ctx, memberID)
	require.NoError(t, err)

	seats := bureau.NewService(db, bureau.NewRepository(db), members, clk, nil, Logger())
	fn, err := seats.CreateFunction(ctx, &bureau.CreateFunctionRequest{
		Name: fmt.Sprintf("Fonction %d", functions.Add(1)),
		Rank: 5,
	})
	require.NoError(t, err)
	_, err = seats.Assign(ctx, &bureau.AssignRequest{MemberID: memberID, FunctionID: fn.ID})
	require.NoError(t, err)
	_, err = seats.Nominate(ctx, &bureau.NominateRequest{MemberID: memberID})
	require.NoError(t, err)
}

// CountRows counts the rows of table that reference the member
func CountRows(t testing.TB, db *gorm.DB, table string, memberID int64) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Table(table).Where("member_id = ?", memberID).Count(&n).Error)
	return n
}
