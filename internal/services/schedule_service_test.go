package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dias221467/Growth_Platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type scheduleFixture struct {
	svc       *ScheduleService
	ledger    *fakeLedger
	store     *fakeScheduleStore
	goals     *fakeGoalFinder
	pathways  *fakePathwayFinder
	prefs     *fakePrefStore
	deliverer *fakeDeliverer
}

func newScheduleFixture(now time.Time) *scheduleFixture {
	ledger := newFakeLedger(now)
	prefs := newFakePrefStore()
	deliverer := &fakeDeliverer{}
	gate := NewNotificationService(ledger, prefs, deliverer, time.UTC)

	store := &fakeScheduleStore{}
	goals := &fakeGoalFinder{goals: make(map[primitive.ObjectID]*models.Goal)}
	pathways := &fakePathwayFinder{pathways: make(map[primitive.ObjectID]*models.GrowthPathway)}

	return &scheduleFixture{
		svc:       NewScheduleService(store, goals, pathways, ledger, gate, time.UTC),
		ledger:    ledger,
		store:     store,
		goals:     goals,
		pathways:  pathways,
		prefs:     prefs,
		deliverer: deliverer,
	}
}

var (
	monday0930  = time.Date(2024, time.January, 8, 9, 30, 0, 0, time.UTC) // Monday
	tuesday0930 = time.Date(2024, time.January, 9, 9, 30, 0, 0, time.UTC) // Tuesday
)

func weeklyMondaySchedule(userID primitive.ObjectID, goalID *primitive.ObjectID) *models.NotificationSchedule {
	return &models.NotificationSchedule{
		UserID:          userID,
		Category:        models.CategoryGoalReminder,
		TitleTemplate:   "Reminder: {{goal_title}}",
		MessageTemplate: "You have {{days_remaining}} days left.",
		Frequency:       models.FrequencyWeekly,
		DaysOfWeek:      []int{0}, // Monday
		TimeOfDay:       9 * 60,
		IsActive:        true,
		StartDate:       time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		RelatedGoalID:   goalID,
	}
}

func TestScheduleEvaluationWeeklyScenario(t *testing.T) {
	fix := newScheduleFixture(monday0930)
	userID := primitive.NewObjectID()
	goalID := primitive.NewObjectID()

	fix.goals.goals[goalID] = &models.Goal{
		ID:         goalID,
		UserID:     userID,
		Title:      "Read 12 books",
		TargetDate: time.Date(2024, time.January, 18, 0, 0, 0, 0, time.UTC),
	}

	_, err := fix.svc.CreateSchedule(context.Background(), weeklyMondaySchedule(userID, &goalID))
	require.NoError(t, err)

	// Tuesday: not a scheduled weekday, nothing fires.
	report, err := fix.svc.RunScheduleEvaluation(context.Background(), tuesday0930)
	require.NoError(t, err)
	assert.Zero(t, report.Created)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, fix.ledger.all())

	// Monday 09:30, past the 09:00 firing time: exactly one notification,
	// with both templates rendered from the linked goal.
	report, err = fix.svc.RunScheduleEvaluation(context.Background(), monday0930)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	notifications := fix.ledger.all()
	require.Len(t, notifications, 1)
	assert.Equal(t, "Reminder: Read 12 books", notifications[0].Title)
	assert.Equal(t, "You have 10 days left.", notifications[0].Message)
	assert.Equal(t, models.CategoryGoalReminder, notifications[0].Category)

	// Re-running the same tick is idempotent.
	report, err = fix.svc.RunScheduleEvaluation(context.Background(), monday0930)
	require.NoError(t, err)
	assert.Zero(t, report.Created)
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, fix.ledger.all(), 1)
}

func TestScheduleEvaluationBeforeTimeOfDay(t *testing.T) {
	fix := newScheduleFixture(monday0930)
	userID := primitive.NewObjectID()

	_, err := fix.svc.CreateSchedule(context.Background(), weeklyMondaySchedule(userID, nil))
	require.NoError(t, err)

	monday0800 := time.Date(2024, time.January, 8, 8, 0, 0, 0, time.UTC)
	report, err := fix.svc.RunScheduleEvaluation(context.Background(), monday0800)
	require.NoError(t, err)
	assert.Zero(t, report.Created)
	assert.Empty(t, fix.ledger.all())
}

func TestScheduleEvaluationMissingGoalLeavesTokens(t *testing.T) {
	fix := newScheduleFixture(monday0930)
	userID := primitive.NewObjectID()
	danglingGoal := primitive.NewObjectID() // never registered

	_, err := fix.svc.CreateSchedule(context.Background(), weeklyMondaySchedule(userID, &danglingGoal))
	require.NoError(t, err)

	report, err := fix.svc.RunScheduleEvaluation(context.Background(), monday0930)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	notifications := fix.ledger.all()
	require.Len(t, notifications, 1)
	// The linked goal is gone: tokens stay unresolved instead of crashing.
	assert.Equal(t, "You have {{days_remaining}} days left.", notifications[0].Message)
}

func TestScheduleEvaluationDaily(t *testing.T) {
	fix := newScheduleFixture(monday0930)
	userID := primitive.NewObjectID()
	pathwayID := primitive.NewObjectID()

	fix.pathways.pathways[pathwayID] = &models.GrowthPathway{
		ID:             pathwayID,
		UserID:         userID,
		Title:          "Public Speaking",
		CompletedSteps: 3,
		TotalSteps:     4,
	}

	_, err := fix.svc.CreateSchedule(context.Background(), &models.NotificationSchedule{
		UserID:           userID,
		Category:         models.CategoryPathwayReminder,
		TitleTemplate:    "Continue Learning: {{pathway_title}}",
		MessageTemplate:  "You're {{progress_percentage}}% complete.",
		Frequency:        models.FrequencyDaily,
		TimeOfDay:        9 * 60,
		IsActive:         true,
		StartDate:        time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		RelatedPathwayID: &pathwayID,
	})
	require.NoError(t, err)

	report, err := fix.svc.RunScheduleEvaluation(context.Background(), monday0930)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	notifications := fix.ledger.all()
	require.Len(t, notifications, 1)
	assert.Equal(t, "Continue Learning: Public Speaking", notifications[0].Title)
	assert.Equal(t, "You're 75% complete.", notifications[0].Message)
}

func TestScheduleEvaluationCustomNeverFires(t *testing.T) {
	fix := newScheduleFixture(monday0930)

	_, err := fix.svc.CreateSchedule(context.Background(), &models.NotificationSchedule{
		UserID:          primitive.NewObjectID(),
		Category:        models.CategoryGoalReminder,
		TitleTemplate:   "Custom",
		MessageTemplate: "Explicit trigger only.",
		Frequency:       models.FrequencyCustom,
		TimeOfDay:       0,
		IsActive:        true,
		StartDate:       time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	report, err := fix.svc.RunScheduleEvaluation(context.Background(), monday0930)
	require.NoError(t, err)
	assert.Zero(t, report.Created)
	assert.Empty(t, fix.ledger.all())
}

func TestScheduleEvaluationMonthly(t *testing.T) {
	jan15 := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	fix := newScheduleFixture(jan15)

	_, err := fix.svc.CreateSchedule(context.Background(), &models.NotificationSchedule{
		UserID:          primitive.NewObjectID(),
		Category:        models.CategoryGoalReminder,
		TitleTemplate:   "Mid-month check-in",
		MessageTemplate: "How are your goals doing?",
		Frequency:       models.FrequencyMonthly,
		DaysOfMonth:     []int{1, 15},
		TimeOfDay:       9 * 60,
		IsActive:        true,
		StartDate:       time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	report, err := fix.svc.RunScheduleEvaluation(context.Background(), jan15)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	jan16 := jan15.AddDate(0, 0, 1)
	report, err = fix.svc.RunScheduleEvaluation(context.Background(), jan16)
	require.NoError(t, err)
	assert.Zero(t, report.Created)
}

func TestCreateScheduleRejectsMalformed(t *testing.T) {
	fix := newScheduleFixture(monday0930)

	_, err := fix.svc.CreateSchedule(context.Background(), &models.NotificationSchedule{
		UserID:          primitive.NewObjectID(),
		Category:        models.CategoryGoalReminder,
		TitleTemplate:   "Broken",
		MessageTemplate: "No weekdays.",
		Frequency:       models.FrequencyWeekly,
		TimeOfDay:       9 * 60,
		IsActive:        true,
		StartDate:       time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.Error(t, err)
}

func TestCreateGoalReminderSchedule(t *testing.T) {
	fix := newScheduleFixture(monday0930)
	goalID := primitive.NewObjectID()
	goal := &models.Goal{
		ID:         goalID,
		UserID:     primitive.NewObjectID(),
		Title:      "Ship the feature",
		TargetDate: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
	}

	created, err := fix.svc.CreateGoalReminderSchedule(context.Background(), monday0930, goal, models.FrequencyDaily)
	require.NoError(t, err)

	assert.Equal(t, models.CategoryGoalReminder, created.Category)
	assert.Equal(t, 9*60, created.TimeOfDay)
	require.NotNil(t, created.EndDate)
	assert.True(t, created.EndDate.Equal(models.DateOnly(goal.TargetDate)))
	assert.Contains(t, created.MessageTemplate, "{{days_remaining}}")
}
