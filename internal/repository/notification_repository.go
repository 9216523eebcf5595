package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/Growth_Platform/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateNotification is returned by Insert when the unique dedup index
// rejects a notification that was already created for the same
// (user, category, related entities, day) tuple.
var ErrDuplicateNotification = errors.New("notification already created for this dedup key")

type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("notifications"),
	}
}

// EnsureIndexes creates the unique sparse index backing the per-day dedup
// guarantee, plus the listing index. Safe to call on every startup.
func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "dedup_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create notification indexes: %v", err)
	}
	return nil
}

// Insert persists a new notification. Notifications without an explicit
// expiry are kept for 7 days.
func (r *NotificationRepository) Insert(ctx context.Context, notif *models.Notification) (*models.Notification, error) {
	notif.CreatedAt = time.Now()
	if notif.ExpiresAt.IsZero() {
		notif.ExpiresAt = notif.CreatedAt.Add(7 * 24 * time.Hour)
	}

	result, err := r.collection.InsertOne(ctx, notif)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateNotification
		}
		logrus.WithError(err).Error("Failed to insert notification")
		return nil, fmt.Errorf("failed to create notification: %v", err)
	}

	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		notif.ID = insertedID
	}
	return notif, nil
}

// ExistsToday reports whether a notification with the same user, category and
// related entities was already created inside the given day bounds.
func (r *NotificationRepository) ExistsToday(ctx context.Context, userID primitive.ObjectID, category string, goalID, pathwayID *primitive.ObjectID, dayStart, dayEnd time.Time) (bool, error) {
	filter := bson.M{
		"user_id":            userID,
		"category":           category,
		"related_goal_id":    goalID,
		"related_pathway_id": pathwayID,
		"created_at":         bson.M{"$gte": dayStart, "$lte": dayEnd},
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check existing notifications: %v", err)
	}
	return count > 0, nil
}

// GetUserNotifications returns a user's unexpired notifications, newest first.
func (r *NotificationRepository) GetUserNotifications(ctx context.Context, userID primitive.ObjectID, limit int64, unreadOnly bool) ([]models.Notification, error) {
	filter := bson.M{
		"user_id":    userID,
		"expires_at": bson.M{"$gt": time.Now()},
	}
	if unreadOnly {
		filter["is_read"] = false
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %v", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %v", err)
	}
	return notifications, nil
}

// MarkAsRead sets the read flag on one of the user's notifications.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %v", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkAllAsRead sets the read flag on every unread notification of the user
// and returns how many were updated.
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %v", err)
	}
	return result.ModifiedCount, nil
}

// MarkSent stamps a notification as sent.
func (r *NotificationRepository) MarkSent(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_sent": true, "sent_at": at}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification as sent: %v", err)
	}
	return nil
}

// FindDueScheduled returns unsent notifications whose dispatch time has
// arrived and which have not yet expired.
func (r *NotificationRepository) FindDueScheduled(ctx context.Context, now time.Time) ([]models.Notification, error) {
	filter := bson.M{
		"scheduled_for": bson.M{"$lte": now},
		"is_sent":       false,
		"expires_at":    bson.M{"$gt": now},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scheduled notifications: %v", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode scheduled notifications: %v", err)
	}
	return notifications, nil
}

// DeleteExpired removes every notification whose expiry is in the past and
// returns the number deleted. Idempotent.
func (r *NotificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired notifications: %v", err)
	}
	if result.DeletedCount > 0 {
		logrus.Infof("Deleted %d expired notifications", result.DeletedCount)
	}
	return result.DeletedCount, nil
}
