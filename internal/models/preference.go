package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationPreference holds a user's per-category toggles plus delivery
// channel and quiet-hour settings. Exactly one record exists per user,
// created lazily on first access.
type NotificationPreference struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`

	GoalReminders  bool `bson:"goal_reminders" json:"goal_reminders"`
	GoalDeadlines  bool `bson:"goal_deadlines" json:"goal_deadlines"`
	GoalMilestones bool `bson:"goal_milestones" json:"goal_milestones"`

	PathwayReminders bool `bson:"pathway_reminders" json:"pathway_reminders"`
	PathwaySteps     bool `bson:"pathway_steps" json:"pathway_steps"`

	Achievements bool `bson:"achievements" json:"achievements"`

	StreakReminders bool `bson:"streak_reminders" json:"streak_reminders"`
	StreakBroken    bool `bson:"streak_broken" json:"streak_broken"`

	Matches       bool `bson:"matches" json:"matches"`
	Insights      bool `bson:"insights" json:"insights"`
	SystemUpdates bool `bson:"system_updates" json:"system_updates"`

	EmailNotifications bool `bson:"email_notifications" json:"email_notifications"`
	PushNotifications  bool `bson:"push_notifications" json:"push_notifications"`
	InAppNotifications bool `bson:"in_app_notifications" json:"in_app_notifications"`

	QuietHoursStart string `bson:"quiet_hours_start" json:"quiet_hours_start"`
	QuietHoursEnd   string `bson:"quiet_hours_end" json:"quiet_hours_end"`
	Timezone        string `bson:"timezone" json:"timezone"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DefaultPreference returns the preference record created on first access.
// System updates are opt-in; everything else is on by default.
func DefaultPreference(userID primitive.ObjectID) *NotificationPreference {
	return &NotificationPreference{
		UserID:             userID,
		GoalReminders:      true,
		GoalDeadlines:      true,
		GoalMilestones:     true,
		PathwayReminders:   true,
		PathwaySteps:       true,
		Achievements:       true,
		StreakReminders:    true,
		StreakBroken:       true,
		Matches:            true,
		Insights:           true,
		SystemUpdates:      false,
		EmailNotifications: true,
		PushNotifications:  true,
		InAppNotifications: true,
		QuietHoursStart:    "22:00",
		QuietHoursEnd:      "08:00",
		Timezone:           "UTC",
	}
}

// AllowsCategory reports whether the user accepts notifications of the given
// category. Unrecognized categories are allowed so that adding a category
// never silently mutes it for existing users.
func (p *NotificationPreference) AllowsCategory(category string) bool {
	switch category {
	case CategoryGoalReminder:
		return p.GoalReminders
	case CategoryGoalDeadline:
		return p.GoalDeadlines
	case CategoryGoalMilestone:
		return p.GoalMilestones
	case CategoryPathwayReminder:
		return p.PathwayReminders
	case CategoryPathwayStep:
		return p.PathwaySteps
	case CategoryAchievementUnlocked:
		return p.Achievements
	case CategoryStreakReminder:
		return p.StreakReminders
	case CategoryStreakBroken:
		return p.StreakBroken
	case CategoryMatchFound:
		return p.Matches
	case CategoryInsightAvailable:
		return p.Insights
	case CategorySystemUpdate:
		return p.SystemUpdates
	default:
		return true
	}
}
