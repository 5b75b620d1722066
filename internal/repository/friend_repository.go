package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Amirhan2201/ChatLink/internal/apperrors"
	"github.com/Amirhan2201/ChatLink/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FriendRequestRepository persists pending friend requests.
type FriendRequestRepository struct {
	collection *mongo.Collection
}

func NewFriendRequestRepository(db *mongo.Database) *FriendRequestRepository {
	return &FriendRequestRepository{
		collection: db.Collection("friend_requests"),
	}
}

func (r *FriendRequestRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	req.CreatedAt = time.Now()
	req.Status = models.RequestStatusPending

	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create friend request: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	req.ID = insertedID

	return req, nil
}

func (r *FriendRequestRepository) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("friend request %s not found", id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find friend request: %v", err)
	}
	return &request, nil
}

// GetPendingBetween returns the pending request sent from one user to another,
// or a NotFound error when none exists.
func (r *FriendRequestRepository) GetPendingBetween(ctx context.Context, senderID, receiverID primitive.ObjectID) (*models.FriendRequest, error) {
	filter := bson.M{
		"sender_id":   senderID,
		"receiver_id": receiverID,
		"status":      models.RequestStatusPending,
	}

	var request models.FriendRequest
	err := r.collection.FindOne(ctx, filter).Decode(&request)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("no pending request from %s to %s", senderID.Hex(), receiverID.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pending request: %v", err)
	}
	return &request, nil
}

func (r *FriendRequestRepository) DeleteRequest(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete friend request: %v", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("friend request %s not found", id.Hex())
	}
	return nil
}

// DeletePendingBetweenPair removes pending requests in both directions for an
// unordered pair. Used when a block severs the relationship.
func (r *FriendRequestRepository) DeletePendingBetweenPair(ctx context.Context, a, b primitive.ObjectID) error {
	filter := bson.M{
		"status": models.RequestStatusPending,
		"$or": []bson.M{
			{"sender_id": a, "receiver_id": b},
			{"sender_id": b, "receiver_id": a},
		},
	}
	if _, err := r.collection.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete pending requests: %v", err)
	}
	return nil
}

func (r *FriendRequestRepository) ListPendingByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.FriendRequest, error) {
	return r.listPending(ctx, bson.M{"receiver_id": receiverID, "status": models.RequestStatusPending})
}

func (r *FriendRequestRepository) ListPendingBySender(ctx context.Context, senderID primitive.ObjectID) ([]models.FriendRequest, error) {
	return r.listPending(ctx, bson.M{"sender_id": senderID, "status": models.RequestStatusPending})
}

// ListPendingReceiverIDs returns the users the sender currently has pending
// outgoing requests to. Used to exclude them from friend suggestions.
func (r *FriendRequestRepository) ListPendingReceiverIDs(ctx context.Context, senderID primitive.ObjectID) ([]primitive.ObjectID, error) {
	requests, err := r.ListPendingBySender(ctx, senderID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(requests))
	for _, req := range requests {
		ids = append(ids, req.ReceiverID)
	}
	return ids, nil
}

func (r *FriendRequestRepository) listPending(ctx context.Context, filter bson.M) ([]models.FriendRequest, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find friend requests: %v", err)
	}
	defer cursor.Close(ctx)

	var requests []models.FriendRequest
	for cursor.Next(ctx) {
		var req models.FriendRequest
		if err := cursor.Decode(&req); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, nil
}
