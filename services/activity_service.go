package services

import (
	"context"
	"fmt"
	"time"

	"ripplegate/models"
	"ripplegate/services/platform"
)

// RelativeTime buckets the distance between a timestamp and an explicit
// "now" into a human phrase. Word choice is singular exactly at n == 1.
func RelativeTime(t, now time.Time) string {
	seconds := int64(now.Sub(t).Seconds())
	if seconds < 60 {
		return "just now"
	}

	if seconds < 3600 {
		minutes := seconds / 60
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	}

	if seconds < 86400 {
		hours := seconds / 3600
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}

	days := seconds / 86400
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}

// ActivityService turns the raw platform activity log into display records.
type ActivityService struct {
	platform *platform.Client
}

func NewActivityService(pc *platform.Client) *ActivityService {
	return &ActivityService{platform: pc}
}

// Recent fetches the activity log and decorates each record with its
// relative timestamp and display class at the given instant.
func (s *ActivityService) Recent(ctx context.Context, now time.Time) ([]models.ActivityView, error) {
	records, err := s.platform.RecentActivity(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.ActivityView, 0, len(records))
	for _, record := range records {
		views = append(views, models.ActivityView{
			ActivityRecord: record,
			RelativeTime:   RelativeTime(record.CreatedAt, now),
			StatusClass:    record.Status.DisplayClass(),
		})
	}
	return views, nil
}
