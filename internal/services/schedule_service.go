package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Growth_Platform/internal/models"
	"github.com/Dias221467/Growth_Platform/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleStore is the persistence contract for recurring schedules.
type ScheduleStore interface {
	CreateSchedule(ctx context.Context, schedule *models.NotificationSchedule) (*models.NotificationSchedule, error)
	GetActiveSchedules(ctx context.Context, day time.Time) ([]models.NotificationSchedule, error)
	GetUserSchedules(ctx context.Context, userID primitive.ObjectID) ([]models.NotificationSchedule, error)
	DeactivateSchedule(ctx context.Context, id, userID primitive.ObjectID) error
}

// GoalFinder resolves goals linked to schedules.
type GoalFinder interface {
	GetGoalByID(ctx context.Context, id primitive.ObjectID) (*models.Goal, error)
}

// PathwayFinder resolves pathways linked to schedules.
type PathwayFinder interface {
	GetPathwayByID(ctx context.Context, id primitive.ObjectID) (*models.GrowthPathway, error)
}

// NotificationGate accepts notification candidates. Implemented by
// NotificationService; narrowed to an interface so scans can be tested
// against an in-memory gate.
type NotificationGate interface {
	AttemptCreate(ctx context.Context, now time.Time, input NotificationInput) (*models.Notification, error)
}

// DedupChecker answers whether an equivalent notification was already
// created inside given day bounds.
type DedupChecker interface {
	ExistsToday(ctx context.Context, userID primitive.ObjectID, category string, goalID, pathwayID *primitive.ObjectID, dayStart, dayEnd time.Time) (bool, error)
}

// ScheduleService evaluates recurring notification schedules and decides,
// per tick, whether each one should fire.
type ScheduleService struct {
	schedules ScheduleStore
	goals     GoalFinder
	pathways  PathwayFinder
	ledger    DedupChecker
	gate      NotificationGate
	loc       *time.Location
}

func NewScheduleService(schedules ScheduleStore, goals GoalFinder, pathways PathwayFinder, ledger DedupChecker, gate NotificationGate, loc *time.Location) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		goals:     goals,
		pathways:  pathways,
		ledger:    ledger,
		gate:      gate,
		loc:       loc,
	}
}

// CreateSchedule validates and persists a user-defined schedule.
func (s *ScheduleService) CreateSchedule(ctx context.Context, schedule *models.NotificationSchedule) (*models.NotificationSchedule, error) {
	if err := schedule.Validate(); err != nil {
		logger.Log.WithError(err).Warn("Rejected malformed notification schedule")
		return nil, fmt.Errorf("invalid schedule: %v", err)
	}
	return s.schedules.CreateSchedule(ctx, schedule)
}

// CreateGoalReminderSchedule sets up a recurring reminder tied to a goal.
// The reminder runs at 09:00 and stops at the goal's target date.
func (s *ScheduleService) CreateGoalReminderSchedule(ctx context.Context, now time.Time, goal *models.Goal, frequency string) (*models.NotificationSchedule, error) {
	now = now.In(s.loc)
	endDate := models.DateOnly(goal.TargetDate)
	schedule := &models.NotificationSchedule{
		UserID:          goal.UserID,
		Category:        models.CategoryGoalReminder,
		TitleTemplate:   fmt.Sprintf("Reminder: %s", goal.Title),
		MessageTemplate: fmt.Sprintf("Don't forget to work on your goal %q. You have {{days_remaining}} days left.", goal.Title),
		Frequency:       frequency,
		TimeOfDay:       9 * 60,
		IsActive:        true,
		StartDate:       models.DateOnly(now),
		EndDate:         &endDate,
		RelatedGoalID:   &goal.ID,
	}
	if frequency == models.FrequencyWeekly && len(schedule.DaysOfWeek) == 0 {
		schedule.DaysOfWeek = []int{models.WeekdayIndex(now.Weekday())}
	}
	return s.CreateSchedule(ctx, schedule)
}

// CreatePathwayReminderSchedule sets up a recurring evening reminder tied to
// a learning pathway.
func (s *ScheduleService) CreatePathwayReminderSchedule(ctx context.Context, now time.Time, pathway *models.GrowthPathway, frequency string) (*models.NotificationSchedule, error) {
	now = now.In(s.loc)
	schedule := &models.NotificationSchedule{
		UserID:           pathway.UserID,
		Category:         models.CategoryPathwayReminder,
		TitleTemplate:    fmt.Sprintf("Continue Learning: %s", pathway.Title),
		MessageTemplate:  fmt.Sprintf("Keep up with your %q pathway. You're {{progress_percentage}}%% complete.", pathway.Title),
		Frequency:        frequency,
		TimeOfDay:        19 * 60,
		IsActive:         true,
		StartDate:        models.DateOnly(now),
		RelatedPathwayID: &pathway.ID,
	}
	if frequency == models.FrequencyWeekly && len(schedule.DaysOfWeek) == 0 {
		schedule.DaysOfWeek = []int{models.WeekdayIndex(now.Weekday())}
	}
	return s.CreateSchedule(ctx, schedule)
}

// GetUserSchedules returns all schedules owned by the user.
func (s *ScheduleService) GetUserSchedules(ctx context.Context, userID primitive.ObjectID) ([]models.NotificationSchedule, error) {
	return s.schedules.GetUserSchedules(ctx, userID)
}

// DeactivateSchedule turns one of the user's schedules off.
func (s *ScheduleService) DeactivateSchedule(ctx context.Context, id, userID primitive.ObjectID) error {
	return s.schedules.DeactivateSchedule(ctx, id, userID)
}

// RunScheduleEvaluation walks every active schedule and fires the ones that
// are due at the given instant. Re-running the same tick is idempotent: the
// same-day existence check plus the ledger's unique dedup index cap output
// at one notification per schedule per day.
func (s *ScheduleService) RunScheduleEvaluation(ctx context.Context, now time.Time) (ScanReport, error) {
	var report ScanReport
	now = now.In(s.loc)

	schedules, err := s.schedules.GetActiveSchedules(ctx, now)
	if err != nil {
		return report, fmt.Errorf("failed to fetch active schedules: %v", err)
	}

	dayStart, dayEnd := models.DayBounds(now)

	for i := range schedules {
		schedule := &schedules[i]

		if !schedule.InWindow(now) || !schedule.DueOn(now) {
			report.Skipped++
			continue
		}
		if models.MinuteOfDay(now) < schedule.TimeOfDay {
			report.Skipped++
			continue
		}

		exists, err := s.ledger.ExistsToday(ctx, schedule.UserID, schedule.Category, schedule.RelatedGoalID, schedule.RelatedPathwayID, dayStart, dayEnd)
		if err != nil {
			logger.Log.WithError(err).WithField("schedule_id", schedule.ID.Hex()).Error("Dedup check failed, skipping schedule")
			report.Failed++
			continue
		}
		if exists {
			report.Skipped++
			continue
		}

		title, message := s.renderSchedule(ctx, schedule, now)

		created, err := s.gate.AttemptCreate(ctx, now, NotificationInput{
			UserID:           schedule.UserID,
			Category:         schedule.Category,
			Title:            title,
			Message:          message,
			Priority:         models.PriorityMedium,
			RelatedGoalID:    schedule.RelatedGoalID,
			RelatedPathwayID: schedule.RelatedPathwayID,
			Dedup:            true,
		})
		if err != nil {
			logger.Log.WithError(err).WithField("schedule_id", schedule.ID.Hex()).Error("Failed to create scheduled notification")
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
		"skipped":    report.Skipped,
		"failed":     report.Failed,
	}).Info("Schedule evaluation completed")
	return report, nil
}

// renderSchedule fills the schedule's templates from its linked entities.
// A missing entity is a soft condition: the affected tokens stay unresolved.
func (s *ScheduleService) renderSchedule(ctx context.Context, schedule *models.NotificationSchedule, now time.Time) (string, string) {
	var vars TemplateVars

	if schedule.RelatedGoalID != nil {
		goal, err := s.goals.GetGoalByID(ctx, *schedule.RelatedGoalID)
		if err != nil {
			logger.Log.WithError(err).WithField("schedule_id", schedule.ID.Hex()).Warn("Linked goal not found while rendering schedule")
		} else {
			days := goal.DaysRemaining(now)
			vars.DaysRemaining = &days
			vars.GoalTitle = goal.Title
		}
	}

	if schedule.RelatedPathwayID != nil {
		pathway, err := s.pathways.GetPathwayByID(ctx, *schedule.RelatedPathwayID)
		if err != nil {
			logger.Log.WithError(err).WithField("schedule_id", schedule.ID.Hex()).Warn("Linked pathway not found while rendering schedule")
		} else {
			progress := pathway.ProgressPercentage()
			vars.ProgressPercentage = &progress
			vars.PathwayTitle = pathway.Title
		}
	}

	return RenderTemplate(schedule.TitleTemplate, vars), RenderTemplate(schedule.MessageTemplate, vars)
}
