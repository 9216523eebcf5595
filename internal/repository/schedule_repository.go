package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Growth_Platform/internal/models"
	"github.com/Dias221467/Growth_Platform/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ScheduleRepository handles database operations for notification schedules.
type ScheduleRepository struct {
	collection *mongo.Collection
}

func NewScheduleRepository(db *mongo.Database) *ScheduleRepository {
	return &ScheduleRepository{
		collection: db.Collection("notification_schedules"),
	}
}

// CreateSchedule persists a new notification schedule.
func (r *ScheduleRepository) CreateSchedule(ctx context.Context, schedule *models.NotificationSchedule) (*models.NotificationSchedule, error) {
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = schedule.CreatedAt

	result, err := r.collection.InsertOne(ctx, schedule)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert notification schedule")
		return nil, fmt.Errorf("failed to create schedule: %v", err)
	}

	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		schedule.ID = insertedID
	}

	logger.Log.WithField("schedule_id", schedule.ID.Hex()).Info("Notification schedule created")
	return schedule, nil
}

// GetActiveSchedules returns every active schedule whose date range covers
// the given day.
func (r *ScheduleRepository) GetActiveSchedules(ctx context.Context, day time.Time) ([]models.NotificationSchedule, error) {
	dayStart, dayEnd := models.DayBounds(day)

	filter := bson.M{
		"is_active":  true,
		"start_date": bson.M{"$lte": dayEnd},
		"$or": []bson.M{
			{"end_date": nil},
			{"end_date": bson.M{"$gte": dayStart}},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active schedules: %v", err)
	}
	defer cursor.Close(ctx)

	var schedules []models.NotificationSchedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode schedules: %v", err)
	}
	return schedules, nil
}

// GetUserSchedules returns all schedules owned by the user.
func (r *ScheduleRepository) GetUserSchedules(ctx context.Context, userID primitive.ObjectID) ([]models.NotificationSchedule, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user schedules: %v", err)
	}
	defer cursor.Close(ctx)

	var schedules []models.NotificationSchedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode schedules: %v", err)
	}
	return schedules, nil
}

// DeactivateSchedule turns a schedule off. Schedules are never deleted,
// only deactivated.
func (r *ScheduleRepository) DeactivateSchedule(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate schedule: %v", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
