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

// GoalSource lists goals by deadline. Goals are owned by the goals service;
// the scanner only reads them.
type GoalSource interface {
	FindIncompleteByTargetDate(ctx context.Context, day time.Time) ([]models.Goal, error)
	FindIncompleteDueBefore(ctx context.Context, day time.Time) ([]models.Goal, error)
}

// DeadlineNotifier scans goals crossing attention thresholds (3 days out,
// 1 day out, overdue) and emits deadline notifications.
type DeadlineNotifier struct {
	goals GoalSource
	gate  services.NotificationGate
	loc   *time.Location
}

func NewDeadlineNotifier(goals GoalSource, gate services.NotificationGate, loc *time.Location) *DeadlineNotifier {
	return &DeadlineNotifier{
		goals: goals,
		gate:  gate,
		loc:   loc,
	}
}

// RunDeadlineScan checks goal deadlines relative to the given day. A failure
// on one goal is logged and skipped; only a failed fetch aborts the scan.
func (d *DeadlineNotifier) RunDeadlineScan(ctx context.Context, today time.Time) (services.ScanReport, error) {
	var report services.ScanReport
	today = models.DateOnly(today.In(d.loc))

	// Goals due in 3 days.
	upcoming, err := d.goals.FindIncompleteByTargetDate(ctx, today.AddDate(0, 0, 3))
	if err != nil {
		return report, fmt.Errorf("failed to fetch upcoming goals: %v", err)
	}
	for i := range upcoming {
		goal := &upcoming[i]
		d.notify(ctx, today, &report, goal, models.PriorityHigh,
			"Goal Deadline Approaching",
			fmt.Sprintf("Your goal %q is due in 3 days. Don't forget to complete it!", goal.Title),
		)
	}

	// Goals due tomorrow.
	urgent, err := d.goals.FindIncompleteByTargetDate(ctx, today.AddDate(0, 0, 1))
	if err != nil {
		return report, fmt.Errorf("failed to fetch goals due tomorrow: %v", err)
	}
	for i := range urgent {
		goal := &urgent[i]
		d.notify(ctx, today, &report, goal, models.PriorityUrgent,
			"Goal Due Tomorrow!",
			fmt.Sprintf("Your goal %q is due tomorrow. Time to finish it up!", goal.Title),
		)
	}

	// Overdue goals, any amount.
	overdue, err := d.goals.FindIncompleteDueBefore(ctx, today)
	if err != nil {
		return report, fmt.Errorf("failed to fetch overdue goals: %v", err)
	}
	for i := range overdue {
		goal := &overdue[i]
		daysOverdue := models.DaysBetween(goal.TargetDate, today)
		d.notify(ctx, today, &report, goal, models.PriorityUrgent,
			"Goal Overdue",
			fmt.Sprintf("Your goal %q is %d days overdue. Consider updating the deadline or completing it.", goal.Title, daysOverdue),
		)
	}

	logger.Log.WithFields(logrus.Fields{
		"created":    report.Created,
		"suppressed": report.Suppressed,
		"failed":     report.Failed,
	}).Info("Deadline scan completed")
	return report, nil
}

func (d *DeadlineNotifier) notify(ctx context.Context, now time.Time, report *services.ScanReport, goal *models.Goal, priority, title, message string) {
	created, err := d.gate.AttemptCreate(ctx, now, services.NotificationInput{
		UserID:        goal.UserID,
		Category:      models.CategoryGoalDeadline,
		Title:         title,
		Message:       message,
		Priority:      priority,
		RelatedGoalID: &goal.ID,
		ActionURL:     fmt.Sprintf("/goals/%s", goal.ID.Hex()),
		ActionText:    "View Goal",
		Dedup:         true,
	})
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", goal.ID.Hex()).Warn("Failed to create deadline notification")
		report.Failed++
		return
	}
	if created == nil {
		report.Suppressed++
		return
	}
	report.Created++
}
