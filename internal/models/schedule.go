package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Schedule frequencies.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	// FrequencyCustom schedules are fired by explicit application events
	// only; the evaluator never considers them due.
	FrequencyCustom = "custom"
)

// NotificationSchedule is a recurring reminder definition owned by a user.
// It is read on every engine tick while active and inside its date range,
// and is only ever deactivated explicitly, never auto-deleted.
type NotificationSchedule struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Category string             `bson:"category" json:"category"`

	TitleTemplate   string `bson:"title_template" json:"title_template"`
	MessageTemplate string `bson:"message_template" json:"message_template"`

	Frequency string `bson:"frequency" json:"frequency"`
	// TimeOfDay is minutes since midnight in the engine's configured zone.
	TimeOfDay   int   `bson:"time_of_day" json:"time_of_day"`
	DaysOfWeek  []int `bson:"days_of_week,omitempty" json:"days_of_week,omitempty"`   // 0=Monday .. 6=Sunday
	DaysOfMonth []int `bson:"days_of_month,omitempty" json:"days_of_month,omitempty"` // 1..31

	IsActive  bool       `bson:"is_active" json:"is_active"`
	StartDate time.Time  `bson:"start_date" json:"start_date"`
	EndDate   *time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`

	RelatedGoalID    *primitive.ObjectID `bson:"related_goal_id,omitempty" json:"related_goal_id,omitempty"`
	RelatedPathwayID *primitive.ObjectID `bson:"related_pathway_id,omitempty" json:"related_pathway_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Validate rejects malformed schedules at creation time so the evaluator
// can assume well-formed input.
func (s *NotificationSchedule) Validate() error {
	switch s.Frequency {
	case FrequencyDaily, FrequencyCustom:
	case FrequencyWeekly:
		if len(s.DaysOfWeek) == 0 {
			return fmt.Errorf("weekly schedule requires at least one weekday")
		}
		for _, d := range s.DaysOfWeek {
			if d < 0 || d > 6 {
				return fmt.Errorf("invalid weekday %d: must be 0 (Monday) through 6 (Sunday)", d)
			}
		}
	case FrequencyMonthly:
		if len(s.DaysOfMonth) == 0 {
			return fmt.Errorf("monthly schedule requires at least one day of month")
		}
		for _, d := range s.DaysOfMonth {
			if d < 1 || d > 31 {
				return fmt.Errorf("invalid day of month %d", d)
			}
		}
	default:
		return fmt.Errorf("unknown frequency %q", s.Frequency)
	}

	if s.TimeOfDay < 0 || s.TimeOfDay >= 24*60 {
		return fmt.Errorf("time_of_day %d out of range", s.TimeOfDay)
	}
	if s.EndDate != nil && s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("end_date must not precede start_date")
	}
	return nil
}

// InWindow reports whether the given day falls inside the schedule's
// active date range.
func (s *NotificationSchedule) InWindow(day time.Time) bool {
	day = DateOnly(day)
	if day.Before(DateOnly(s.StartDate)) {
		return false
	}
	if s.EndDate != nil && day.After(DateOnly(*s.EndDate)) {
		return false
	}
	return true
}

// DueOn reports whether the schedule's frequency rule matches the given day.
// A malformed schedule (e.g. weekly with no weekdays) is never due.
func (s *NotificationSchedule) DueOn(day time.Time) bool {
	switch s.Frequency {
	case FrequencyDaily:
		return true
	case FrequencyWeekly:
		weekday := WeekdayIndex(day.Weekday())
		for _, d := range s.DaysOfWeek {
			if d == weekday {
				return true
			}
		}
		return false
	case FrequencyMonthly:
		for _, d := range s.DaysOfMonth {
			if d == day.Day() {
				return true
			}
		}
		return false
	default:
		return false
	}
}
