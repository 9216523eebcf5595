package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/Growth_Platform/internal/models"
	"github.com/Dias221467/Growth_Platform/internal/repository"
	"github.com/Dias221467/Growth_Platform/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationLedger is the persistence contract for the notification record.
type NotificationLedger interface {
	Insert(ctx context.Context, notif *models.Notification) (*models.Notification, error)
	ExistsToday(ctx context.Context, userID primitive.ObjectID, category string, goalID, pathwayID *primitive.ObjectID, dayStart, dayEnd time.Time) (bool, error)
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID, limit int64, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkSent(ctx context.Context, id primitive.ObjectID, at time.Time) error
	FindDueScheduled(ctx context.Context, now time.Time) ([]models.Notification, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PreferenceStore looks up (and lazily creates) per-user notification
// preferences. The engine only ever reads them.
type PreferenceStore interface {
	GetOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.NotificationPreference, error)
	Update(ctx context.Context, pref *models.NotificationPreference) (*models.NotificationPreference, error)
}

// Deliverer pushes a persisted notification out through a delivery channel
// (email, push, in-app). Best effort: a failure never affects the ledger.
type Deliverer interface {
	Deliver(ctx context.Context, notif *models.Notification) error
}

// ScanReport is the aggregate outcome of one engine scan.
type ScanReport struct {
	Created    int `json:"created"`
	Suppressed int `json:"suppressed"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// NotificationInput describes a notification candidate submitted to the gate.
type NotificationInput struct {
	UserID   primitive.ObjectID
	Category string
	Title    string
	Message  string
	Priority string

	RelatedGoalID        *primitive.ObjectID
	RelatedPathwayID     *primitive.ObjectID
	RelatedAchievementID *primitive.ObjectID
	RelatedMatchID       *primitive.ObjectID

	ActionURL  string
	ActionText string

	ScheduledFor *time.Time
	ExpiresAt    time.Time

	// Dedup marks engine-produced candidates that must be collapsed to at
	// most one notification per user, category, related entities and day.
	Dedup bool
}

// NotificationService is the single choke point through which every
// notification candidate passes before reaching the ledger. It guarantees
// preference compliance is never bypassed.
type NotificationService struct {
	ledger    NotificationLedger
	prefs     PreferenceStore
	deliverer Deliverer
	loc       *time.Location
}

func NewNotificationService(ledger NotificationLedger, prefs PreferenceStore, deliverer Deliverer, loc *time.Location) *NotificationService {
	return &NotificationService{
		ledger:    ledger,
		prefs:     prefs,
		deliverer: deliverer,
		loc:       loc,
	}
}

// AttemptCreate runs a candidate through the preference gate and, if allowed,
// persists it. A (nil, nil) return means the candidate was suppressed, either
// by the user's preferences or by the per-day dedup guard. Unless scheduled
// for a future time the notification is sent immediately.
func (s *NotificationService) AttemptCreate(ctx context.Context, now time.Time, input NotificationInput) (*models.Notification, error) {
	pref, err := s.prefs.GetOrCreate(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %v", err)
	}

	if !pref.AllowsCategory(input.Category) {
		logger.Log.WithFields(logrus.Fields{
			"user_id":  input.UserID.Hex(),
			"category": input.Category,
		}).Debug("Notification suppressed by user preference")
		return nil, nil
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	notif := &models.Notification{
		UserID:               input.UserID,
		Category:             input.Category,
		Title:                input.Title,
		Message:              input.Message,
		Priority:             priority,
		RelatedGoalID:        input.RelatedGoalID,
		RelatedPathwayID:     input.RelatedPathwayID,
		RelatedAchievementID: input.RelatedAchievementID,
		RelatedMatchID:       input.RelatedMatchID,
		ActionURL:            input.ActionURL,
		ActionText:           input.ActionText,
		ScheduledFor:         input.ScheduledFor,
		ExpiresAt:            input.ExpiresAt,
	}
	if input.Dedup {
		notif.DedupKey = models.DedupKey(input.UserID, input.Category, input.RelatedGoalID, input.RelatedPathwayID, now.In(s.loc))
	}

	created, err := s.ledger.Insert(ctx, notif)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateNotification) {
			return nil, nil
		}
		return nil, err
	}

	if created.ScheduledFor == nil || !created.ScheduledFor.After(now) {
		s.send(ctx, created, now)
	}
	return created, nil
}

// send marks the notification sent and hands it to the delivery channel.
// Delivery is fire-and-forget: failures are logged and never roll back the
// persisted record.
func (s *NotificationService) send(ctx context.Context, notif *models.Notification, now time.Time) {
	if err := s.ledger.MarkSent(ctx, notif.ID, now); err != nil {
		logger.Log.WithError(err).WithField("notification_id", notif.ID.Hex()).Error("Failed to mark notification as sent")
		return
	}
	notif.IsSent = true
	sentAt := now
	notif.SentAt = &sentAt

	go func(n models.Notification) {
		if err := s.deliverer.Deliver(context.WithoutCancel(ctx), &n); err != nil {
			logger.Log.WithError(err).WithField("notification_id", n.ID.Hex()).Warn("Notification delivery failed")
		}
	}(*notif)
}

// ProcessScheduled sends every pending notification whose dispatch time has
// arrived. Safe to re-run: already-sent records are excluded by the query.
func (s *NotificationService) ProcessScheduled(ctx context.Context, now time.Time) (int, error) {
	pending, err := s.ledger.FindDueScheduled(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch due scheduled notifications: %v", err)
	}

	for i := range pending {
		s.send(ctx, &pending[i], now)
	}
	return len(pending), nil
}

// SweepExpired deletes notifications past their expiry and returns the count.
func (s *NotificationService) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.ledger.DeleteExpired(ctx, now)
}

// GetUserNotifications returns the user's unexpired notifications.
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID, limit int64, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.ledger.GetUserNotifications(ctx, userID, limit, unreadOnly)
}

// MarkNotificationRead marks one of the user's notifications as read.
func (s *NotificationService) MarkNotificationRead(ctx context.Context, id, userID primitive.ObjectID) error {
	return s.ledger.MarkAsRead(ctx, id, userID)
}

// MarkAllNotificationsRead marks every unread notification of the user as
// read and returns how many were updated.
func (s *NotificationService) MarkAllNotificationsRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.ledger.MarkAllAsRead(ctx, userID)
}

// GetPreferences returns the user's notification preferences, creating the
// default record on first access.
func (s *NotificationService) GetPreferences(ctx context.Context, userID primitive.ObjectID) (*models.NotificationPreference, error) {
	return s.prefs.GetOrCreate(ctx, userID)
}

// UpdatePreferences stores the user's notification preferences.
func (s *NotificationService) UpdatePreferences(ctx context.Context, pref *models.NotificationPreference) (*models.NotificationPreference, error) {
	if _, err := s.prefs.GetOrCreate(ctx, pref.UserID); err != nil {
		return nil, err
	}
	return s.prefs.Update(ctx, pref)
}

// NotifyGoalCompleted emits a celebration notification for a completed goal.
func (s *NotificationService) NotifyGoalCompleted(ctx context.Context, now time.Time, goal *models.Goal) error {
	_, err := s.AttemptCreate(ctx, now, NotificationInput{
		UserID:        goal.UserID,
		Category:      models.CategoryGoalMilestone,
		Title:         "Goal Completed!",
		Message:       fmt.Sprintf("Congratulations! You've completed your goal %q.", goal.Title),
		Priority:      models.PriorityMedium,
		RelatedGoalID: &goal.ID,
		ActionURL:     fmt.Sprintf("/goals/%s", goal.ID.Hex()),
		ActionText:    "View Goal",
	})
	return err
}

// NotifyGoalMilestone emits a notification for a completed goal milestone.
func (s *NotificationService) NotifyGoalMilestone(ctx context.Context, now time.Time, goal *models.Goal, milestoneTitle string) error {
	_, err := s.AttemptCreate(ctx, now, NotificationInput{
		UserID:        goal.UserID,
		Category:      models.CategoryGoalMilestone,
		Title:         "Milestone Reached!",
		Message:       fmt.Sprintf("Great job! You've completed the milestone %q for your goal %q.", milestoneTitle, goal.Title),
		Priority:      models.PriorityMedium,
		RelatedGoalID: &goal.ID,
		ActionURL:     fmt.Sprintf("/goals/%s", goal.ID.Hex()),
		ActionText:    "View Goal",
	})
	return err
}

// NotifyPathwayStep emits a notification for a completed pathway step.
func (s *NotificationService) NotifyPathwayStep(ctx context.Context, now time.Time, pathway *models.GrowthPathway, stepTitle string) error {
	_, err := s.AttemptCreate(ctx, now, NotificationInput{
		UserID:           pathway.UserID,
		Category:         models.CategoryPathwayStep,
		Title:            "Step Completed!",
		Message:          fmt.Sprintf("Well done! You've completed %q in your %q pathway.", stepTitle, pathway.Title),
		Priority:         models.PriorityLow,
		RelatedPathwayID: &pathway.ID,
		ActionURL:        fmt.Sprintf("/pathways/%s", pathway.ID.Hex()),
		ActionText:       "Continue Learning",
	})
	return err
}

// NotifyAchievementUnlocked emits a notification for an unlocked achievement.
func (s *NotificationService) NotifyAchievementUnlocked(ctx context.Context, now time.Time, userID, achievementID primitive.ObjectID, title, description string) error {
	_, err := s.AttemptCreate(ctx, now, NotificationInput{
		UserID:               userID,
		Category:             models.CategoryAchievementUnlocked,
		Title:                "Achievement Unlocked!",
		Message:              fmt.Sprintf("Congratulations! You've unlocked %q. %s", title, description),
		Priority:             models.PriorityMedium,
		RelatedAchievementID: &achievementID,
		ActionURL:            "/achievements",
		ActionText:           "View Achievement",
	})
	return err
}
