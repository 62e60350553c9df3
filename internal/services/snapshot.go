package services

import (
	"log"
	"time"

	"github.com/arnold/okrtrack-api/internal/database"
	"github.com/arnold/okrtrack-api/internal/models"
	"github.com/robfig/cron/v3"
)

// SnapshotService appends a GoalProgressHistory row per live goal on a
// cron schedule. The dashboard's week-over-week deltas read this series.
type SnapshotService struct {
	cron *cron.Cron
}

// StartSnapshots registers the snapshot job and starts the scheduler.
// schedule is a standard 5-field cron spec, e.g. "0 0 * * MON".
func StartSnapshots(schedule string) (*SnapshotService, error) {
	s := &SnapshotService{
		cron: cron.New(cron.WithLocation(time.Local)),
	}
	if _, err := s.cron.AddFunc(schedule, func() {
		if err := CaptureProgressSnapshots(time.Now()); err != nil {
			log.Printf("snapshot: capture failed: %v", err)
		}
	}); err != nil {
		return nil, err
	}
	s.cron.Start()
	log.Printf("snapshot: scheduled %q", schedule)
	return s, nil
}

func (s *SnapshotService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// snapshotPageSize bounds each goals page the capture walks.
const snapshotPageSize = 500

// CaptureProgressSnapshots records every goal's current progress at now,
// paging through the goals table.
func CaptureProgressSnapshots(now time.Time) error {
	for offset := 0; ; offset += snapshotPageSize {
		var goals []models.Goal
		err := database.DB.Order("created_at").Offset(offset).Limit(snapshotPageSize).Find(&goals).Error
		if err != nil {
			return err
		}
		if len(goals) == 0 {
			return nil
		}

		rows := make([]models.GoalProgressHistory, len(goals))
		for i, g := range goals {
			rows[i] = models.GoalProgressHistory{
				GoalID:     g.ID,
				Progress:   g.Progress,
				RecordedAt: now,
			}
		}
		if err := database.DB.Create(&rows).Error; err != nil {
			return err
		}

		if len(goals) < snapshotPageSize {
			return nil
		}
	}
}
