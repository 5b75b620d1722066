package services

import (
	"context"

	"github.com/Amirhan2201/ChatLink/internal/apperrors"
	"github.com/Amirhan2201/ChatLink/internal/models"
	"github.com/Amirhan2201/ChatLink/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PinService keeps the bounded FIFO set of pinned messages per chat. Who may
// pin is decided by the caller (chat-type specific); this service only owns
// the capacity and membership invariants of the pinned set.
type PinService struct {
	chats ChatStore
}

func NewPinService(chats ChatStore) *PinService {
	return &PinService{chats: chats}
}

// Pin appends a message to the chat's pinned sequence. When the ledger is
// full the oldest pin is evicted first.
func (s *PinService) Pin(ctx context.Context, chatID, messageID primitive.ObjectID) ([]primitive.ObjectID, error) {
	chat, err := s.chats.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.IsPinned(messageID) {
		return nil, apperrors.Conflict("message is already pinned")
	}

	pinned := chat.PinnedMessageIDs
	for len(pinned) >= models.MaxPinnedMessages {
		pinned = pinned[1:]
	}
	pinned = append(pinned, messageID)

	if err := s.chats.SetPinned(ctx, chatID, pinned); err != nil {
		return nil, err
	}

	logger.Log.WithFields(map[string]interface{}{
		"chat_id":    chatID.Hex(),
		"message_id": messageID.Hex(),
	}).Info("Message pinned")
	return pinned, nil
}

// Unpin removes a message from the pinned sequence.
func (s *PinService) Unpin(ctx context.Context, chatID, messageID primitive.ObjectID) error {
	chat, err := s.chats.GetChatByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsPinned(messageID) {
		return apperrors.NotFound("message is not pinned")
	}

	pinned := make([]primitive.ObjectID, 0, len(chat.PinnedMessageIDs))
	for _, id := range chat.PinnedMessageIDs {
		if id != messageID {
			pinned = append(pinned, id)
		}
	}
	return s.chats.SetPinned(ctx, chatID, pinned)
}

// GetPinned returns the chat's pinned messages, oldest first.
func (s *PinService) GetPinned(ctx context.Context, chatID primitive.ObjectID) ([]primitive.ObjectID, error) {
	chat, err := s.chats.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return chat.PinnedMessageIDs, nil
}
