package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Amirhan2201/ChatLink/internal/apperrors"
	"github.com/Amirhan2201/ChatLink/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// BlockRepository persists directed block edges.
type BlockRepository struct {
	collection *mongo.Collection
}

func NewBlockRepository(db *mongo.Database) *BlockRepository {
	return &BlockRepository{collection: db.Collection("blocks")}
}

func (r *BlockRepository) CreateBlock(ctx context.Context, block *models.Block) (*models.Block, error) {
	block.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, block)
	if err != nil {
		return nil, fmt.Errorf("failed to create block: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	block.ID = insertedID

	return block, nil
}

// Exists reports whether the blocker currently blocks the target.
func (r *BlockRepository) Exists(ctx context.Context, blockerID, blockedID primitive.ObjectID) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{"blocker_id": blockerID, "blocked_id": blockedID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check block: %v", err)
	}
	return true, nil
}

// ExistsEither reports whether either user blocks the other.
func (r *BlockRepository) ExistsEither(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"blocker_id": a, "blocked_id": b},
			{"blocker_id": b, "blocked_id": a},
		},
	}
	err := r.collection.FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check blocks: %v", err)
	}
	return true, nil
}

// DeleteBlock removes a directed block. Unblocking an absent edge is NotFound.
func (r *BlockRepository) DeleteBlock(ctx context.Context, blockerID, blockedID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"blocker_id": blockerID, "blocked_id": blockedID})
	if err != nil {
		return fmt.Errorf("failed to delete block: %v", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("user %s has not blocked %s", blockerID.Hex(), blockedID.Hex())
	}
	return nil
}
