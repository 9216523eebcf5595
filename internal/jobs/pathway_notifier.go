package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Growth_Platform/internal/models"
	"github.com/Dias221467/Growth_Platform/internal/services"
	"github.com/Dias221467/Growth_Platform/pkg/logger"
	"github.com/sirupsen/logrus"
)

// A pathway untouched for this long earns a nudge.
const pathwayInactivityThreshold = 3 * 24 * time.Hour

// PathwaySource lists inactive pathways. Pathways are owned by the pathways
// service; the scanner only reads them.
type PathwaySource interface {
	FindInactiveSince(ctx context.Context, threshold time.Time) ([]models.GrowthPathway, error)
}

// PathwayNotifier reminds users about learning pathways they have let sit.
type PathwayNotifier struct {
	pathways PathwaySource
	gate     services.NotificationGate
	loc      *time.Location
}

func NewPathwayNotifier(pathways PathwaySource, gate services.NotificationGate, loc *time.Location) *PathwayNotifier {
	return &PathwayNotifier{
		pathways: pathways,
		gate:     gate,
		loc:      loc,
	}
}

// RunPathwayReminderScan nudges owners of pathways with no activity for 3 or
// more days. At most one reminder per pathway per day.
func (p *PathwayNotifier) RunPathwayReminderScan(ctx context.Context, now time.Time) (services.ScanReport, error) {
	var report services.ScanReport
	now = now.In(p.loc)

	inactive, err := p.pathways.FindInactiveSince(ctx, now.Add(-pathwayInactivityThreshold))
	if err != nil {
		return report, fmt.Errorf("failed to fetch inactive pathways: %v", err)
	}

	for i := range inactive {
		pathway := &inactive[i]
		daysInactive := models.DaysBetween(pathway.LastActivity, now)

		created, err := p.gate.AttemptCreate(ctx, now, services.NotificationInput{
			UserID:           pathway.UserID,
			Category:         models.CategoryPathwayReminder,
			Title:            "Continue Your Learning",
			Message:          fmt.Sprintf("You haven't worked on %q for %d days. Keep your momentum going!", pathway.Title, daysInactive),
			Priority:         models.PriorityMedium,
			RelatedPathwayID: &pathway.ID,
			ActionURL:        fmt.Sprintf("/pathways/%s", pathway.ID.Hex()),
			ActionText:       "Continue Learning",
			Dedup:            true,
		})
		if err != nil {
			logger.Log.WithError(err).WithField("pathway_id", pathway.ID.Hex()).Warn("Failed to create pathway reminder")
			report.Failed++
			continue
		}
		if created == nil {
			report.Suppressed++
			continue
		}
		report.Created++
	}

	logger.Log.WithFields(logrus.Fields{
		"created":    report.Created,
		"suppressed": report.Suppressed,
		"failed":     report.Failed,
	}).Info("Pathway reminder scan completed")
	return report, nil
}
