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

// ChatRepository persists chat documents, including the pinned-content ledger.
type ChatRepository struct {
	collection *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{collection: db.Collection("chats")}
}

func (r *ChatRepository) CreateChat(ctx context.Context, chat *models.Chat) (*models.Chat, error) {
	chat.CreatedAt = time.Now()
	if chat.PinnedMessageIDs == nil {
		chat.PinnedMessageIDs = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, chat)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	chat.ID = insertedID

	return chat, nil
}

func (r *ChatRepository) GetChatByID(ctx context.Context, id primitive.ObjectID) (*models.Chat, error) {
	var chat models.Chat
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("chat %s not found", id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find chat: %v", err)
	}
	return &chat, nil
}

// GetPeerChat returns the peer chat between two users, if one exists.
func (r *ChatRepository) GetPeerChat(ctx context.Context, a, b primitive.ObjectID) (*models.Chat, error) {
	filter := bson.M{
		"type": models.ChatTypePeer,
		"$and": []bson.M{
			{"member_ids": a},
			{"member_ids": b},
		},
	}

	var chat models.Chat
	err := r.collection.FindOne(ctx, filter).Decode(&chat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("no peer chat between %s and %s", a.Hex(), b.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find peer chat: %v", err)
	}
	return &chat, nil
}

// GetChatByGroup returns the chat attached to a group.
func (r *ChatRepository) GetChatByGroup(ctx context.Context, groupID primitive.ObjectID) (*models.Chat, error) {
	var chat models.Chat
	err := r.collection.FindOne(ctx, bson.M{"type": models.ChatTypeGroup, "group_id": groupID}).Decode(&chat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("no chat for group %s", groupID.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find group chat: %v", err)
	}
	return &chat, nil
}

// SetPinned replaces the pinned-message sequence in a single atomic update.
func (r *ChatRepository) SetPinned(ctx context.Context, chatID primitive.ObjectID, pinned []primitive.ObjectID) error {
	if pinned == nil {
		pinned = []primitive.ObjectID{}
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": chatID},
		bson.M{"$set": bson.M{"pinned_message_ids": pinned}},
	)
	if err != nil {
		return fmt.Errorf("failed to update pinned messages: %v", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("chat %s not found", chatID.Hex())
	}
	return nil
}

func (r *ChatRepository) DeleteChat(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete chat: %v", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("chat %s not found", id.Hex())
	}
	return nil
}
