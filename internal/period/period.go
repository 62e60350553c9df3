// Package period holds the calendar helpers the aggregator buckets by:
// weeks start Monday 00:00 local, keyed by that Monday's ISO date.
package period

import (
	"time"

	"github.com/google/uuid"
)

// DefaultChunkSize caps how many ids a single IN-list fetch may carry.
const DefaultChunkSize = 200

// WeekStart returns Monday 00:00 in t's location.
func WeekStart(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -daysSinceMonday)
}

// WeekKey is the ISO date of the Monday starting t's week.
func WeekKey(t time.Time) string {
	return WeekStart(t).Format("2006-01-02")
}

// WeekKeys returns the keys of the window's weeks, oldest to newest, ending
// at the week containing now.
func WeekKeys(now time.Time, weeks int) []string {
	if weeks < 1 {
		weeks = 1
	}
	keys := make([]string, weeks)
	start := WeekStart(now).AddDate(0, 0, -7*(weeks-1))
	for i := 0; i < weeks; i++ {
		keys[i] = start.AddDate(0, 0, 7*i).Format("2006-01-02")
	}
	return keys
}

// WindowStart is the beginning of the oldest week in a W-week window
// ending now.
func WindowStart(now time.Time, weeks int) time.Time {
	if weeks < 1 {
		weeks = 1
	}
	return WeekStart(now).AddDate(0, 0, -7*(weeks-1))
}

// ChunkIDs splits ids into slices of at most size elements.
func ChunkIDs(ids []uuid.UUID, size int) [][]uuid.UUID {
	if size < 1 {
		size = DefaultChunkSize
	}
	if len(ids) == 0 {
		return nil
	}
	chunks := make([][]uuid.UUID, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
