package database

import (
	"fmt"

	"gorm.io/gorm"

	"studio-site-api/internal/domain"
)

// Models lists every persisted entity in migration order.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.TeamMember{},
		&domain.Project{},
		&domain.ContactMessage{},
		&domain.ContactNote{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
