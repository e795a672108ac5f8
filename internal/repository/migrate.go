package repository

import "gorm.io/gorm"

// AutoMigrate creates/updates the schema for every table this package
// owns. Called from cmd/api and cmd/seed.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&userModel{},
		&businessModel{},
		&reviewModel{},
		&likeModel{},
		&reportModel{},
		&historyModel{},
		&notificationModel{},
	)
	if err != nil {
		return err
	}

	// Partial index gorm tags cannot express: at most one open report per
	// review, enforced at the database so concurrent reporters cannot both
	// slip past the service-level check.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_pending_report_per_review
		 ON review_reports (review_id) WHERE status = 'Pending'`,
	).Error
}
