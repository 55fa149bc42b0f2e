// Package schema lists the persisted models and migrates them.
package schema

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/fizato/federation/internal/association"
	"github.com/fizato/federation/internal/bureau"
	"github.com/fizato/federation/internal/card"
	"github.com/fizato/federation/internal/federation"
	"github.com/fizato/federation/internal/mandate"
	"github.com/fizato/federation/internal/member"
)

// Models returns every persisted model, parents before children
func Models() []any {
	return []any{
		&federation.Profile{},
		&association.Association{},
		&member.Member{},
		&card.Card{},
		&bureau.OfficeFunction{},
		&mandate.Mandate{},
		&bureau.BureauMembership{},
		&bureau.CommitteeMembership{},
	}
}

// Migrate creates or updates the tables, indexes and foreign keys
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
