package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/Growth_Platform/internal/models"
	"github.com/Dias221467/Growth_Platform/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// StreakRepository handles database operations for learning streaks.
type StreakRepository struct {
	collection *mongo.Collection
}

func NewStreakRepository(db *mongo.Database) *StreakRepository {
	return &StreakRepository{
		collection: db.Collection("learning_streaks"),
	}
}

// GetOrCreate fetches the user's streak record, creating an empty one on
// first activity.
func (r *StreakRepository) GetOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.LearningStreak, error) {
	var streak models.LearningStreak
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&streak)
	if err == nil {
		return &streak, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to fetch learning streak: %v", err)
	}

	created := models.DefaultStreak(userID)
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt

	result, err := r.collection.InsertOne(ctx, created)
	if err != nil {
		return nil, fmt.Errorf("failed to create learning streak: %v", err)
	}
	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		created.ID = insertedID
	}

	logger.Log.WithField("user_id", userID.Hex()).Info("Created learning streak record")
	return created, nil
}

// Save persists the current state of a streak record.
func (r *StreakRepository) Save(ctx context.Context, streak *models.LearningStreak) error {
	streak.UpdatedAt = time.Now()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": streak.UserID},
		bson.M{"$set": streak},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", streak.UserID.Hex()).Error("Failed to save learning streak")
		return fmt.Errorf("failed to save learning streak: %v", err)
	}
	return nil
}

// FindAtRisk returns streaks of at least minStreak days whose owner has not
// been active on the given day yet.
func (r *StreakRepository) FindAtRisk(ctx context.Context, day time.Time, minStreak int) ([]models.LearningStreak, error) {
	dayStart, _ := models.DayBounds(day)

	filter := bson.M{
		"current_streak":     bson.M{"$gte": minStreak},
		"last_activity_date": bson.M{"$lt": dayStart},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch at-risk streaks: %v", err)
	}
	defer cursor.Close(ctx)

	var streaks []models.LearningStreak
	if err := cursor.All(ctx, &streaks); err != nil {
		return nil, fmt.Errorf("failed to decode streaks: %v", err)
	}
	return streaks, nil
}
