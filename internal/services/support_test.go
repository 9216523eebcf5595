package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Dias221467/Growth_Platform/internal/models"
	"github.com/Dias221467/Growth_Platform/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeLedger is an in-memory NotificationLedger. CreatedAt is stamped with
// the fake's clock so day-bound checks behave deterministically.
type fakeLedger struct {
	mu            sync.Mutex
	now           time.Time
	notifications []models.Notification
	insertErr     error
}

func newFakeLedger(now time.Time) *fakeLedger {
	return &fakeLedger{now: now}
}

func (f *fakeLedger) Insert(_ context.Context, notif *models.Notification) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return nil, f.insertErr
	}
	if notif.DedupKey != "" {
		for _, existing := range f.notifications {
			if existing.DedupKey == notif.DedupKey {
				return nil, repository.ErrDuplicateNotification
			}
		}
	}

	notif.ID = primitive.NewObjectID()
	notif.CreatedAt = f.now
	if notif.ExpiresAt.IsZero() {
		notif.ExpiresAt = f.now.Add(7 * 24 * time.Hour)
	}
	f.notifications = append(f.notifications, *notif)
	return notif, nil
}

func (f *fakeLedger) ExistsToday(_ context.Context, userID primitive.ObjectID, category string, goalID, pathwayID *primitive.ObjectID, dayStart, dayEnd time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, n := range f.notifications {
		if n.UserID != userID || n.Category != category {
			continue
		}
		if !sameRef(n.RelatedGoalID, goalID) || !sameRef(n.RelatedPathwayID, pathwayID) {
			continue
		}
		if n.CreatedAt.Before(dayStart) || n.CreatedAt.After(dayEnd) {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (f *fakeLedger) GetUserNotifications(_ context.Context, userID primitive.ObjectID, limit int64, unreadOnly bool) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Notification
	for _, n := range f.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeLedger) MarkAsRead(_ context.Context, id, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.notifications {
		if f.notifications[i].ID == id && f.notifications[i].UserID == userID {
			f.notifications[i].IsRead = true
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeLedger) MarkAllAsRead(_ context.Context, userID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for i := range f.notifications {
		if f.notifications[i].UserID == userID && !f.notifications[i].IsRead {
			f.notifications[i].IsRead = true
			count++
		}
	}
	return count, nil
}

func (f *fakeLedger) MarkSent(_ context.Context, id primitive.ObjectID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.notifications {
		if f.notifications[i].ID == id {
			f.notifications[i].IsSent = true
			sentAt := at
			f.notifications[i].SentAt = &sentAt
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeLedger) FindDueScheduled(_ context.Context, now time.Time) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Notification
	for _, n := range f.notifications {
		if n.IsSent || n.ScheduledFor == nil {
			continue
		}
		if n.ScheduledFor.After(now) || !n.ExpiresAt.After(now) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeLedger) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var kept []models.Notification
	var deleted int64
	for _, n := range f.notifications {
		if n.ExpiresAt.Before(now) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	f.notifications = kept
	return deleted, nil
}

func (f *fakeLedger) all() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Notification(nil), f.notifications...)
}

func (f *fakeLedger) byID(id primitive.ObjectID) *models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notifications {
		if f.notifications[i].ID == id {
			n := f.notifications[i]
			return &n
		}
	}
	return nil
}

func sameRef(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// fakePrefStore hands out stored or default preferences.
type fakePrefStore struct {
	mu    sync.Mutex
	prefs map[primitive.ObjectID]*models.NotificationPreference
	err   error
}

func newFakePrefStore() *fakePrefStore {
	return &fakePrefStore{prefs: make(map[primitive.ObjectID]*models.NotificationPreference)}
}

func (f *fakePrefStore) GetOrCreate(_ context.Context, userID primitive.ObjectID) (*models.NotificationPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if pref, ok := f.prefs[userID]; ok {
		copied := *pref
		return &copied, nil
	}
	pref := models.DefaultPreference(userID)
	f.prefs[userID] = pref
	copied := *pref
	return &copied, nil
}

func (f *fakePrefStore) Update(_ context.Context, pref *models.NotificationPreference) (*models.NotificationPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	copied := *pref
	f.prefs[pref.UserID] = &copied
	return pref, nil
}

func (f *fakePrefStore) set(pref *models.NotificationPreference) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefs[pref.UserID] = pref
}

// fakeDeliverer records delivered notification IDs.
type fakeDeliverer struct {
	mu        sync.Mutex
	delivered []primitive.ObjectID
	err       error
}

func (f *fakeDeliverer) Deliver(_ context.Context, notif *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.delivered = append(f.delivered, notif.ID)
	return nil
}

func (f *fakeDeliverer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.delivered)
}

// fakeStreakStore is an in-memory StreakStore.
type fakeStreakStore struct {
	mu      sync.Mutex
	streaks map[primitive.ObjectID]*models.LearningStreak
}

func newFakeStreakStore() *fakeStreakStore {
	return &fakeStreakStore{streaks: make(map[primitive.ObjectID]*models.LearningStreak)}
}

func (f *fakeStreakStore) GetOrCreate(_ context.Context, userID primitive.ObjectID) (*models.LearningStreak, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if streak, ok := f.streaks[userID]; ok {
		copied := *streak
		return &copied, nil
	}
	streak := models.DefaultStreak(userID)
	streak.ID = primitive.NewObjectID()
	f.streaks[userID] = streak
	copied := *streak
	return &copied, nil
}

func (f *fakeStreakStore) Save(_ context.Context, streak *models.LearningStreak) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	copied := *streak
	f.streaks[streak.UserID] = &copied
	return nil
}

func (f *fakeStreakStore) FindAtRisk(_ context.Context, day time.Time, minStreak int) ([]models.LearningStreak, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	dayStart, _ := models.DayBounds(day)
	var out []models.LearningStreak
	for _, streak := range f.streaks {
		if streak.CurrentStreak < minStreak {
			continue
		}
		if streak.LastActivityDate == nil || !streak.LastActivityDate.Before(dayStart) {
			continue
		}
		out = append(out, *streak)
	}
	return out, nil
}

// fakeScheduleStore is an in-memory ScheduleStore.
type fakeScheduleStore struct {
	mu        sync.Mutex
	schedules []models.NotificationSchedule
}

func (f *fakeScheduleStore) CreateSchedule(_ context.Context, schedule *models.NotificationSchedule) (*models.NotificationSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	schedule.ID = primitive.NewObjectID()
	f.schedules = append(f.schedules, *schedule)
	return schedule, nil
}

func (f *fakeScheduleStore) GetActiveSchedules(_ context.Context, day time.Time) ([]models.NotificationSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.NotificationSchedule
	for _, s := range f.schedules {
		if s.IsActive && s.InWindow(day) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScheduleStore) GetUserSchedules(_ context.Context, userID primitive.ObjectID) ([]models.NotificationSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.NotificationSchedule
	for _, s := range f.schedules {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScheduleStore) DeactivateSchedule(_ context.Context, id, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.schedules {
		if f.schedules[i].ID == id && f.schedules[i].UserID == userID {
			f.schedules[i].IsActive = false
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

// fakeGoalFinder resolves goals from a fixed map.
type fakeGoalFinder struct {
	goals map[primitive.ObjectID]*models.Goal
}

func (f *fakeGoalFinder) GetGoalByID(_ context.Context, id primitive.ObjectID) (*models.Goal, error) {
	if goal, ok := f.goals[id]; ok {
		copied := *goal
		return &copied, nil
	}
	return nil, fmt.Errorf("goal %s not found", id.Hex())
}

// fakePathwayFinder resolves pathways from a fixed map.
type fakePathwayFinder struct {
	pathways map[primitive.ObjectID]*models.GrowthPathway
}

func (f *fakePathwayFinder) GetPathwayByID(_ context.Context, id primitive.ObjectID) (*models.GrowthPathway, error) {
	if pathway, ok := f.pathways[id]; ok {
		copied := *pathway
		return &copied, nil
	}
	return nil, fmt.Errorf("pathway %s not found", id.Hex())
}
