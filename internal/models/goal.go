package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal is the engine's read-only view of a member goal. The goal lifecycle
// itself (creation, progress, completion) is owned by the goals service.
type Goal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title       string             `bson:"title" json:"title"`
	TargetDate  time.Time          `bson:"target_date" json:"target_date"`
	IsCompleted bool               `bson:"is_completed" json:"is_completed"`
}

// DaysRemaining returns whole days from today until the target date.
// Negative when the goal is overdue.
func (g *Goal) DaysRemaining(today time.Time) int {
	return DaysBetween(today, g.TargetDate)
}
