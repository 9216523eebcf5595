package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Growth_Platform/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GoalRepository is the engine's read-only access to the goals collection,
// which is owned by the goals service.
type GoalRepository struct {
	collection *mongo.Collection
}

func NewGoalRepository(db *mongo.Database) *GoalRepository {
	return &GoalRepository{
		collection: db.Collection("goals"),
	}
}

// GetGoalByID fetches a single goal.
func (r *GoalRepository) GetGoalByID(ctx context.Context, id primitive.ObjectID) (*models.Goal, error) {
	var goal models.Goal
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&goal); err != nil {
		return nil, fmt.Errorf("failed to find goal %s: %v", id.Hex(), err)
	}
	return &goal, nil
}

// FindIncompleteByTargetDate returns incomplete goals whose target date falls
// on the given calendar day.
func (r *GoalRepository) FindIncompleteByTargetDate(ctx context.Context, day time.Time) ([]models.Goal, error) {
	dayStart, dayEnd := models.DayBounds(day)

	filter := bson.M{
		"is_completed": false,
		"target_date":  bson.M{"$gte": dayStart, "$lte": dayEnd},
	}
	return r.findGoals(ctx, filter)
}

// FindIncompleteDueBefore returns incomplete goals whose target date is
// strictly before the given calendar day (i.e. overdue goals).
func (r *GoalRepository) FindIncompleteDueBefore(ctx context.Context, day time.Time) ([]models.Goal, error) {
	dayStart, _ := models.DayBounds(day)

	filter := bson.M{
		"is_completed": false,
		"target_date":  bson.M{"$lt": dayStart},
	}
	return r.findGoals(ctx, filter)
}

func (r *GoalRepository) findGoals(ctx context.Context, filter bson.M) ([]models.Goal, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goals: %v", err)
	}
	defer cursor.Close(ctx)

	var goals []models.Goal
	if err := cursor.All(ctx, &goals); err != nil {
		return nil, fmt.Errorf("failed to decode goals: %v", err)
	}
	return goals, nil
}
