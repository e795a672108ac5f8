package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrPendingReports blocks deletion of a review that is under an open
	// report: the moderation case must be resolved first.
	ErrPendingReports = errors.New("review has pending reports")

	// ErrAlreadyResolved marks an attempt to resolve a terminal report.
	// Resolutions are one-shot so strikes are never double-counted.
	ErrAlreadyResolved = errors.New("report already resolved")
)

// IsUniqueViolation reports whether err is a unique-constraint failure
// from any of the supported drivers.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// sqlite driver reports constraint violations as plain strings
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
