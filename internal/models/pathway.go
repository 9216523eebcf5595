package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GrowthPathway is the engine's read-only view of a learning pathway.
type GrowthPathway struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title          string             `bson:"title" json:"title"`
	CompletedSteps int                `bson:"completed_steps" json:"completed_steps"`
	TotalSteps     int                `bson:"total_steps" json:"total_steps"`
	IsCompleted    bool               `bson:"is_completed" json:"is_completed"`
	LastActivity   time.Time          `bson:"last_activity" json:"last_activity"`
}

// ProgressPercentage returns the completed-step ratio as a whole percentage.
func (p *GrowthPathway) ProgressPercentage() int {
	if p.TotalSteps == 0 {
		return 0
	}
	return p.CompletedSteps * 100 / p.TotalSteps
}
