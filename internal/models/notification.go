package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification categories. Unknown categories are allowed through the
// preference gate, so new categories can be introduced without a migration.
const (
	CategoryGoalReminder        = "goal_reminder"
	CategoryGoalDeadline        = "goal_deadline"
	CategoryGoalMilestone       = "goal_milestone"
	CategoryPathwayReminder     = "pathway_reminder"
	CategoryPathwayStep         = "pathway_step"
	CategoryAchievementUnlocked = "achievement_unlocked"
	CategoryStreakReminder      = "streak_reminder"
	CategoryStreakBroken        = "streak_broken"
	CategoryMatchFound          = "match_found"
	CategoryInsightAvailable    = "insight_available"
	CategorySystemUpdate        = "system_update"
)

// Notification priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Notification is a single emitted notification instance. Immutable once
// sent, except for the read and expiry flags.
type Notification struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Category string             `bson:"category" json:"category"`
	Title    string             `bson:"title" json:"title"`
	Message  string             `bson:"message" json:"message"`
	Priority string             `bson:"priority" json:"priority"`

	RelatedGoalID        *primitive.ObjectID `bson:"related_goal_id,omitempty" json:"related_goal_id,omitempty"`
	RelatedPathwayID     *primitive.ObjectID `bson:"related_pathway_id,omitempty" json:"related_pathway_id,omitempty"`
	RelatedAchievementID *primitive.ObjectID `bson:"related_achievement_id,omitempty" json:"related_achievement_id,omitempty"`
	RelatedMatchID       *primitive.ObjectID `bson:"related_match_id,omitempty" json:"related_match_id,omitempty"`

	IsRead bool       `bson:"is_read" json:"is_read"`
	IsSent bool       `bson:"is_sent" json:"is_sent"`
	SentAt *time.Time `bson:"sent_at,omitempty" json:"sent_at,omitempty"`

	ActionURL  string `bson:"action_url,omitempty" json:"action_url,omitempty"`
	ActionText string `bson:"action_text,omitempty" json:"action_text,omitempty"`

	ScheduledFor *time.Time `bson:"scheduled_for,omitempty" json:"scheduled_for,omitempty"`
	ExpiresAt    time.Time  `bson:"expires_at" json:"expires_at"`

	// DedupKey is set only for engine-produced notifications. A unique
	// sparse index on it makes the existence-check-then-insert sequence
	// race-free across overlapping ticks.
	DedupKey string `bson:"dedup_key,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// DedupKey materializes the (user, category, related goal, related pathway,
// calendar day) tuple that identifies one engine-produced notification per day.
func DedupKey(userID primitive.ObjectID, category string, goalID, pathwayID *primitive.ObjectID, day time.Time) string {
	goal := "-"
	if goalID != nil {
		goal = goalID.Hex()
	}
	pathway := "-"
	if pathwayID != nil {
		pathway = pathwayID.Hex()
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s", userID.Hex(), category, goal, pathway, day.Format("2006-01-02"))
}
