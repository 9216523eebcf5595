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

type PreferenceRepository struct {
	collection *mongo.Collection
}

func NewPreferenceRepository(db *mongo.Database) *PreferenceRepository {
	return &PreferenceRepository{
		collection: db.Collection("notification_preferences"),
	}
}

// GetOrCreate fetches the user's preference record, creating the default one
// on first access.
func (r *PreferenceRepository) GetOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.NotificationPreference, error) {
	var pref models.NotificationPreference
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&pref)
	if err == nil {
		return &pref, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to fetch notification preference: %v", err)
	}

	created := models.DefaultPreference(userID)
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt

	result, err := r.collection.InsertOne(ctx, created)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification preference: %v", err)
	}
	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		created.ID = insertedID
	}

	logger.Log.WithField("user_id", userID.Hex()).Info("Created default notification preference")
	return created, nil
}

// Update replaces the user's preference record.
func (r *PreferenceRepository) Update(ctx context.Context, pref *models.NotificationPreference) (*models.NotificationPreference, error) {
	pref.UpdatedAt = time.Now()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": pref.UserID},
		bson.M{"$set": pref},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update notification preference: %v", err)
	}
	return pref, nil
}
