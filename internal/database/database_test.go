package database

import (
	"testing"
	"time"

	"github.com/arnold/okrtrack-api/internal/models"
	"github.com/arnold/okrtrack-api/internal/review"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// legacyGoal mirrors a goals table deployed before the reviewer audit
// columns existed.
type legacyGoal struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID `gorm:"type:uuid"`
	Year              int
	Title             string
	Progress          int
	Status            string
	ReviewStatus      *string
	IsLocked          bool
	LeaderReviewNotes string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt
}

func (legacyGoal) TableName() string { return "goals" }

func openTestDB(t *testing.T, schema ...interface{}) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(schema...))
	return db
}

func TestIsMissingColumn(t *testing.T) {
	assert.False(t, IsMissingColumn(nil))
	assert.False(t, IsMissingColumn(gorm.ErrRecordNotFound))
	assert.True(t, IsMissingColumn(stringError("ERROR: column \"reviewed_by\" of relation \"goals\" does not exist (SQLSTATE 42703)")))
	assert.True(t, IsMissingColumn(stringError("no such column: reviewed_at")))
	assert.True(t, IsMissingColumn(stringError("table goals has no column named approved_at")))
}

type stringError string

func (e stringError) Error() string { return string(e) }

func TestAuditFallbackOnLegacySchema(t *testing.T) {
	db := openTestDB(t, &legacyGoal{})

	pending := models.ReviewPending
	row := legacyGoal{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Year:         2024,
		Title:        "Ship onboarding revamp",
		Status:       models.GoalStatusNotStarted,
		ReviewStatus: &pending,
		IsLocked:     true,
	}
	require.NoError(t, db.Create(&row).Error)

	goal := models.Goal{ID: row.ID, Status: row.Status, ReviewStatus: row.ReviewStatus}
	core, audit := review.DecideGoal(goal, models.ReviewApproved, "looks solid", uuid.New(), time.Now())

	require.NoError(t, UpdateWithAuditFallback(db, &models.Goal{ID: row.ID}, core, audit))

	var got legacyGoal
	require.NoError(t, db.First(&got, "id = ?", row.ID).Error)
	require.NotNil(t, got.ReviewStatus)
	assert.Equal(t, models.ReviewApproved, *got.ReviewStatus)
	assert.False(t, got.IsLocked)
	assert.Equal(t, models.GoalStatusInProgress, got.Status)
	assert.Equal(t, "looks solid", got.LeaderReviewNotes)
}

func TestAuditColumnsWrittenWhenPresent(t *testing.T) {
	db := openTestDB(t, &models.Goal{})

	pending := models.ReviewPending
	goal := models.Goal{
		UserID:       uuid.New(),
		Year:         2024,
		Title:        "Ship onboarding revamp",
		Status:       models.GoalStatusInProgress,
		ReviewStatus: &pending,
		IsLocked:     true,
	}
	require.NoError(t, db.Create(&goal).Error)

	reviewer := uuid.New()
	core, audit := review.DecideGoal(goal, models.ReviewApproved, "", reviewer, time.Now())
	require.NoError(t, UpdateWithAuditFallback(db, &models.Goal{ID: goal.ID}, core, audit))

	var got models.Goal
	require.NoError(t, db.First(&got, "id = ?", goal.ID).Error)
	require.NotNil(t, got.ReviewedBy)
	assert.Equal(t, reviewer, *got.ReviewedBy)
	assert.NotNil(t, got.ReviewedAt)
	assert.NotNil(t, got.ApprovedAt)
}
