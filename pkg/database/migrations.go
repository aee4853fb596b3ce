package database

import (
	"gorm.io/gorm"

	"github.com/hiredvalley/career-server-go/pkg/database/migrations"
)

// Data fixups that AutoMigrate cannot express. Each runs on every start
// and must stay idempotent.
func init() {
	migrations.Register("lowercase-user-emails", func(db *gorm.DB) error {
		return db.Exec("UPDATE users SET email = LOWER(email) WHERE email <> LOWER(email)").Error
	})

	migrations.Register("normalize-legacy-enrollment-status", func(db *gorm.DB) error {
		return db.Exec("UPDATE enrollments SET status = 'in_progress' WHERE status = 'active'").Error
	})
}
