package database

import (
	"strings"

	"github.com/arnold/okrtrack-api/internal/config"
	"github.com/arnold/okrtrack-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var dialector gorm.Dialector

	// Use PostgreSQL if URL starts with postgres, otherwise SQLite
	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	DB = db
	return nil
}

func Migrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Goal{},
		&models.ActionPlan{},
		&models.WeeklyReport{},
		&models.VerificationTemplate{},
		&models.VerificationRequest{},
		&models.VerificationReview{},
		&models.GoalProgressHistory{},
	)
}

// IsMissingColumn reports whether err came from the store rejecting an
// unknown column. Postgres signals SQLSTATE 42703 (undefined_column),
// SQLite reports "no such column".
func IsMissingColumn(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "42703") ||
		strings.Contains(strings.ToLower(msg), "no such column") ||
		strings.Contains(strings.ToLower(msg), "has no column named")
}

// UpdateWithAuditFallback applies core+audit columns in one update; when the
// schema predates the audit columns it retries once with the core columns
// only. Audit data is best-effort, the decision itself must not fail on it.
func UpdateWithAuditFallback(db *gorm.DB, model interface{}, core, audit map[string]interface{}) error {
	full := make(map[string]interface{}, len(core)+len(audit))
	for k, v := range core {
		full[k] = v
	}
	for k, v := range audit {
		full[k] = v
	}

	err := db.Model(model).Updates(full).Error
	if err == nil || len(audit) == 0 || !IsMissingColumn(err) {
		return err
	}
	return db.Model(model).Updates(core).Error
}
