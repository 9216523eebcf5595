package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StreakEvent describes what a recorded activity did to a streak.
type StreakEvent int

const (
	// StreakUnchanged means activity was already counted for that day.
	StreakUnchanged StreakEvent = iota
	// StreakExtended means the streak grew by one day.
	StreakExtended
	// StreakReset means a gap was detected and the streak restarted at 1.
	StreakReset
)

// LearningStreak tracks a user's consecutive active days.
type LearningStreak struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`

	CurrentStreak    int        `bson:"current_streak" json:"current_streak"`
	LongestStreak    int        `bson:"longest_streak" json:"longest_streak"`
	LastActivityDate *time.Time `bson:"last_activity_date,omitempty" json:"last_activity_date,omitempty"`

	TargetStreak       int  `bson:"target_streak" json:"target_streak"`
	StreakGoalAchieved bool `bson:"streak_goal_achieved" json:"streak_goal_achieved"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DefaultStreak returns the streak record created on a user's first activity.
func DefaultStreak(userID primitive.ObjectID) *LearningStreak {
	return &LearningStreak{
		UserID:       userID,
		TargetStreak: 7,
	}
}

// RecordActivity applies one qualifying activity on the given day.
// Recording twice on the same day is a no-op; a first activity or one
// exactly a day after the last extends the streak; anything later resets
// it to 1. LongestStreak never decreases.
func (s *LearningStreak) RecordActivity(today time.Time) StreakEvent {
	today = DateOnly(today)

	event := StreakExtended
	switch {
	case s.LastActivityDate == nil:
		s.CurrentStreak++
	case DaysBetween(*s.LastActivityDate, today) == 0:
		return StreakUnchanged
	case DaysBetween(*s.LastActivityDate, today) == 1:
		s.CurrentStreak++
	default:
		s.CurrentStreak = 1
		event = StreakReset
	}

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.StreakGoalAchieved = s.TargetStreak > 0 && s.CurrentStreak >= s.TargetStreak
	s.LastActivityDate = &today

	return event
}
