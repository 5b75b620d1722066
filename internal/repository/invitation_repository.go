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

// InvitationRepository persists group join invitations.
type InvitationRepository struct {
	collection *mongo.Collection
}

func NewInvitationRepository(db *mongo.Database) *InvitationRepository {
	return &InvitationRepository{
		collection: db.Collection("invitations"),
	}
}

func (r *InvitationRepository) CreateInvitation(ctx context.Context, inv *models.Invitation) (*models.Invitation, error) {
	inv.CreatedAt = time.Now()
	inv.Status = models.RequestStatusPending

	result, err := r.collection.InsertOne(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	inv.ID = insertedID

	return inv, nil
}

func (r *InvitationRepository) GetInvitationByID(ctx context.Context, id primitive.ObjectID) (*models.Invitation, error) {
	var inv models.Invitation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("invitation %s not found", id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find invitation: %v", err)
	}
	return &inv, nil
}

// GetPendingJoin returns the user's pending join request for a group, if any.
func (r *InvitationRepository) GetPendingJoin(ctx context.Context, senderID, groupID primitive.ObjectID) (*models.Invitation, error) {
	filter := bson.M{
		"type":      models.InvitationTypeGroup,
		"sender_id": senderID,
		"group_id":  groupID,
		"status":    models.RequestStatusPending,
	}

	var inv models.Invitation
	err := r.collection.FindOne(ctx, filter).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("no pending join request for group %s", groupID.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find join request: %v", err)
	}
	return &inv, nil
}

func (r *InvitationRepository) UpdateInvitationStatus(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update invitation status: %v", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("invitation %s not found", id.Hex())
	}
	return nil
}

func (r *InvitationRepository) ListPendingByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.Invitation, error) {
	filter := bson.M{"receiver_id": receiverID, "status": models.RequestStatusPending}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %v", err)
	}
	defer cursor.Close(ctx)

	var invitations []models.Invitation
	for cursor.Next(ctx) {
		var inv models.Invitation
		if err := cursor.Decode(&inv); err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}

	return invitations, nil
}
