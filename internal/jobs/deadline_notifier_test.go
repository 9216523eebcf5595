package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Dias221467/Growth_Platform/internal/models"
	"github.com/Dias221467/Growth_Platform/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeGate records every candidate the scanner submits.
type fakeGate struct {
	mu       sync.Mutex
	inputs   []services.NotificationInput
	failFor  map[primitive.ObjectID]error
	suppress bool
}

func (f *fakeGate) AttemptCreate(_ context.Context, _ time.Time, input services.NotificationInput) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if input.RelatedGoalID != nil {
		if err, ok := f.failFor[*input.RelatedGoalID]; ok {
			return nil, err
		}
	}
	f.inputs = append(f.inputs, input)
	if f.suppress {
		return nil, nil
	}
	return &models.Notification{ID: primitive.NewObjectID()}, nil
}

func (f *fakeGate) recorded() []services.NotificationInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]services.NotificationInput(nil), f.inputs...)
}

// fakeGoalSource serves goals keyed by whole-day offsets from a base day.
type fakeGoalSource struct {
	goals []models.Goal
}

func (f *fakeGoalSource) FindIncompleteByTargetDate(_ context.Context, day time.Time) ([]models.Goal, error) {
	var out []models.Goal
	for _, g := range f.goals {
		if !g.IsCompleted && models.DaysBetween(day, g.TargetDate) == 0 {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGoalSource) FindIncompleteDueBefore(_ context.Context, day time.Time) ([]models.Goal, error) {
	dayStart, _ := models.DayBounds(day)
	var out []models.Goal
	for _, g := range f.goals {
		if !g.IsCompleted && g.TargetDate.Before(dayStart) {
			out = append(out, g)
		}
	}
	return out, nil
}

func goalDueIn(today time.Time, days int, title string) models.Goal {
	return models.Goal{
		ID:         primitive.NewObjectID(),
		UserID:     primitive.NewObjectID(),
		Title:      title,
		TargetDate: models.DateOnly(today).AddDate(0, 0, days),
	}
}

func TestDeadlineScanThreeDayWarning(t *testing.T) {
	today := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	gate := &fakeGate{}
	source := &fakeGoalSource{goals: []models.Goal{goalDueIn(today, 3, "Learn Go")}}

	report, err := NewDeadlineNotifier(source, gate, time.UTC).RunDeadlineScan(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	inputs := gate.recorded()
	require.Len(t, inputs, 1)
	assert.Equal(t, models.CategoryGoalDeadline, inputs[0].Category)
	assert.Equal(t, models.PriorityHigh, inputs[0].Priority)
	assert.Contains(t, inputs[0].Message, "3 days")
	assert.True(t, inputs[0].Dedup)
}

func TestDeadlineScanDueTomorrowIsUrgent(t *testing.T) {
	today := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	gate := &fakeGate{}
	source := &fakeGoalSource{goals: []models.Goal{goalDueIn(today, 1, "Submit application")}}

	report, err := NewDeadlineNotifier(source, gate, time.UTC).RunDeadlineScan(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	inputs := gate.recorded()
	require.Len(t, inputs, 1)
	assert.Equal(t, models.PriorityUrgent, inputs[0].Priority)
	assert.Contains(t, inputs[0].Message, "tomorrow")
}

func TestDeadlineScanOverdueIncludesDayCount(t *testing.T) {
	today := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	gate := &fakeGate{}
	source := &fakeGoalSource{goals: []models.Goal{goalDueIn(today, -5, "Write report")}}

	report, err := NewDeadlineNotifier(source, gate, time.UTC).RunDeadlineScan(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	inputs := gate.recorded()
	require.Len(t, inputs, 1)
	assert.Equal(t, models.PriorityUrgent, inputs[0].Priority)
	assert.Contains(t, inputs[0].Message, "5")
}

func TestDeadlineScanSkipsOtherOffsets(t *testing.T) {
	today := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	gate := &fakeGate{}
	source := &fakeGoalSource{goals: []models.Goal{
		goalDueIn(today, 0, "Due today"),
		goalDueIn(today, 2, "Due in two days"),
		goalDueIn(today, 4, "Due in four days"),
	}}

	report, err := NewDeadlineNotifier(source, gate, time.UTC).RunDeadlineScan(context.Background(), today)
	require.NoError(t, err)
	assert.Zero(t, report.Created)
	assert.Empty(t, gate.recorded())
}

func TestDeadlineScanIgnoresCompletedGoals(t *testing.T) {
	today := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	done := goalDueIn(today, -2, "Already finished")
	done.IsCompleted = true

	gate := &fakeGate{}
	source := &fakeGoalSource{goals: []models.Goal{done}}

	report, err := NewDeadlineNotifier(source, gate, time.UTC).RunDeadlineScan(context.Background(), today)
	require.NoError(t, err)
	assert.Zero(t, report.Created)
}

func TestDeadlineScanToleratesSingleFailures(t *testing.T) {
	today := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	failing := goalDueIn(today, 3, "Unlucky goal")
	healthy := goalDueIn(today, 3, "Healthy goal")

	gate := &fakeGate{failFor: map[primitive.ObjectID]error{
		failing.ID: errors.New("persistence down"),
	}}
	source := &fakeGoalSource{goals: []models.Goal{failing, healthy}}

	report, err := NewDeadlineNotifier(source, gate, time.UTC).RunDeadlineScan(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Failed)

	inputs := gate.recorded()
	require.Len(t, inputs, 1)
	assert.Equal(t, healthy.ID, *inputs[0].RelatedGoalID)
}

func TestDeadlineScanCountsSuppressed(t *testing.T) {
	today := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	gate := &fakeGate{suppress: true}
	source := &fakeGoalSource{goals: []models.Goal{goalDueIn(today, 1, "Muted user goal")}}

	report, err := NewDeadlineNotifier(source, gate, time.UTC).RunDeadlineScan(context.Background(), today)
	require.NoError(t, err)
	assert.Zero(t, report.Created)
	assert.Equal(t, 1, report.Suppressed)
}
