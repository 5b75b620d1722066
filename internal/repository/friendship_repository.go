package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Amirhan2201/ChatLink/internal/apperrors"
	"github.com/Amirhan2201/ChatLink/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FriendshipRepository persists the canonical friendship edges.
type FriendshipRepository struct {
	collection *mongo.Collection
}

func NewFriendshipRepository(db *mongo.Database) *FriendshipRepository {
	return &FriendshipRepository{
		collection: db.Collection("friendships"),
	}
}

func (r *FriendshipRepository) CreateFriendship(ctx context.Context, f *models.Friendship) (*models.Friendship, error) {
	result, err := r.collection.InsertOne(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to create friendship: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	f.ID = insertedID

	return f, nil
}

// GetByPair fetches the canonical edge for an unordered pair.
func (r *FriendshipRepository) GetByPair(ctx context.Context, a, b primitive.ObjectID) (*models.Friendship, error) {
	userA, userB := models.SortPair(a, b)

	var friendship models.Friendship
	err := r.collection.FindOne(ctx, bson.M{"user_a": userA, "user_b": userB}).Decode(&friendship)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("no friendship between %s and %s", a.Hex(), b.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find friendship: %v", err)
	}
	return &friendship, nil
}

// DeleteByPair removes the canonical edge. Deleting an absent edge is reported
// as NotFound rather than silently succeeding.
func (r *FriendshipRepository) DeleteByPair(ctx context.Context, a, b primitive.ObjectID) error {
	userA, userB := models.SortPair(a, b)

	result, err := r.collection.DeleteOne(ctx, bson.M{"user_a": userA, "user_b": userB})
	if err != nil {
		return fmt.Errorf("failed to delete friendship: %v", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("no friendship between %s and %s", a.Hex(), b.Hex())
	}
	return nil
}

// GetFriendIDs returns every user connected to the given user by an edge.
func (r *FriendshipRepository) GetFriendIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"user_a": userID},
			{"user_b": userID},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve friendships: %v", err)
	}
	defer cursor.Close(ctx)

	var friends []primitive.ObjectID
	for cursor.Next(ctx) {
		var edge models.Friendship
		if err := cursor.Decode(&edge); err != nil {
			return nil, err
		}
		friends = append(friends, edge.Other(userID))
	}

	return friends, nil
}
