package services

import (
	"context"

	"github.com/Amirhan2201/ChatLink/internal/apperrors"
	"github.com/Amirhan2201/ChatLink/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatService manages chat containers. Peer chats require an existing
// friendship; group chats are created alongside their group.
type ChatService struct {
	chats  ChatStore
	edges  FriendshipStore
	groups GroupStore
}

func NewChatService(chats ChatStore, edges FriendshipStore, groups GroupStore) *ChatService {
	return &ChatService{
		chats:  chats,
		edges:  edges,
		groups: groups,
	}
}

// CreatePeerChat opens (or returns) the chat between two friends.
func (s *ChatService) CreatePeerChat(ctx context.Context, userID, friendID primitive.ObjectID) (*models.Chat, error) {
	if userID == friendID {
		return nil, apperrors.InvalidArgument("cannot open a chat with yourself")
	}

	if _, err := s.edges.GetByPair(ctx, userID, friendID); err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.Forbidden("peer chats are only available between friends")
		}
		return nil, err
	}

	if chat, err := s.chats.GetPeerChat(ctx, userID, friendID); err == nil {
		return chat, nil
	} else if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	return s.chats.CreateChat(ctx, &models.Chat{
		Type:      models.ChatTypePeer,
		MemberIDs: []primitive.ObjectID{userID, friendID},
	})
}

// GetChat fetches a chat the acting user is allowed to see.
func (s *ChatService) GetChat(ctx context.Context, actingUser, chatID primitive.ObjectID) (*models.Chat, error) {
	chat, err := s.chats.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	switch chat.Type {
	case models.ChatTypePeer:
		if !chat.IsParticipant(actingUser) {
			return nil, apperrors.Forbidden("user is not a participant of this chat")
		}
	case models.ChatTypeGroup:
		group, err := s.groups.GetGroupByID(ctx, chat.GroupID)
		if err != nil {
			return nil, err
		}
		if !group.IsMember(actingUser) {
			return nil, apperrors.Forbidden("user is not a member of this group")
		}
	}
	return chat, nil
}

// CanPin applies the chat-type specific pinning rule: any participant of a
// peer chat, admin or sub-admin of a group chat.
func (s *ChatService) CanPin(ctx context.Context, actingUser primitive.ObjectID, chat *models.Chat) (bool, error) {
	switch chat.Type {
	case models.ChatTypePeer:
		return chat.IsParticipant(actingUser), nil
	case models.ChatTypeGroup:
		group, err := s.groups.GetGroupByID(ctx, chat.GroupID)
		if err != nil {
			return false, err
		}
		return group.CanModerate(actingUser), nil
	default:
		return false, nil
	}
}
