package association_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fizato/federation/internal/association"
	"github.com/fizato/federation/internal/clock"
	"github.com/fizato/federation/internal/database/dbtest"
)

func TestDeleteRemovesMembersAndTheirRecords(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	svc := association.NewService(association.NewRepository(db), clock.Real(), dbtest.Logger())

	gone := dbtest.CreateAssociation(t, db, "Club Photo")
	kept := dbtest.CreateAssociation(t, db, "AE")
	a := dbtest.CreateMember(t, db, gone.ID, "Sarr")
	b := dbtest.CreateMember(t, db, gone.ID, "Ba")
	c := dbtest.CreateMember(t, db, kept.ID, "Fall")
	for _, m := range []int64{a.ID, b.ID, c.ID} {
		dbtest.Attach(t, db, m)
	}

	require.NoError(t, svc.Delete(ctx, gone.ID))

	_, err := svc.GetByID(ctx, gone.ID)
	require.ErrorIs(t, err, association.ErrAssociationNotFound)

	var members int64
	require.NoError(t, db.Table("members").Where("association_id = ?", gone.ID).Count(&members).Error)
	assert.Zero(t, members)
	for _, table := range []string{"cards", "bureau_memberships", "committee_memberships"} {
		assert.Zero(t, dbtest.CountRows(t, db, table, a.ID), table)
		assert.Zero(t, dbtest.CountRows(t, db, table, b.ID), table)
		assert.EqualValues(t, 1, dbtest.CountRows(t, db, table, c.ID), table)
	}
}

func TestDeleteUnknownAssociation(t *testing.T) {
	db := dbtest.New(t)
	svc := association.NewService(association.NewRepository(db), clock.Real(), dbtest.Logger())
	assert.ErrorIs(t, svc.Delete(context.Background(), 99), association.ErrAssociationNotFound)
}
