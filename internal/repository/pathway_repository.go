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

// PathwayRepository is the engine's read-only access to growth pathways,
// which are owned by the pathways service.
type PathwayRepository struct {
	collection *mongo.Collection
}

func NewPathwayRepository(db *mongo.Database) *PathwayRepository {
	return &PathwayRepository{
		collection: db.Collection("growth_pathways"),
	}
}

// GetPathwayByID fetches a single pathway.
func (r *PathwayRepository) GetPathwayByID(ctx context.Context, id primitive.ObjectID) (*models.GrowthPathway, error) {
	var pathway models.GrowthPathway
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pathway); err != nil {
		return nil, fmt.Errorf("failed to find pathway %s: %v", id.Hex(), err)
	}
	return &pathway, nil
}

// FindInactiveSince returns incomplete pathways with no activity since the
// given threshold.
func (r *PathwayRepository) FindInactiveSince(ctx context.Context, threshold time.Time) ([]models.GrowthPathway, error) {
	filter := bson.M{
		"is_completed":  false,
		"last_activity": bson.M{"$lt": threshold},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inactive pathways: %v", err)
	}
	defer cursor.Close(ctx)

	var pathways []models.GrowthPathway
	if err := cursor.All(ctx, &pathways); err != nil {
		return nil, fmt.Errorf("failed to decode pathways: %v", err)
	}
	return pathways, nil
}
