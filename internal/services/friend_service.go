package services

import (
	"context"
	"fmt"

	"github.com/Amirhan2201/ChatLink/internal/apperrors"
	"github.com/Amirhan2201/ChatLink/internal/models"
	"github.com/Amirhan2201/ChatLink/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendService owns the friend-request state machine and the canonical
// friendship edge.
type FriendService struct {
	requests FriendRequestStore
	edges    FriendshipStore
	users    UserStore
	blocks   BlockStore
	tx       TxRunner
}

// NewFriendService creates a new FriendService.
func NewFriendService(requests FriendRequestStore, edges FriendshipStore, users UserStore, blocks BlockStore, tx TxRunner) *FriendService {
	return &FriendService{
		requests: requests,
		edges:    edges,
		users:    users,
		blocks:   blocks,
		tx:       tx,
	}
}

// SendRequest creates a pending friend request. A pending request in the
// reverse direction is reported as a conflict so two independent edges can
// never form for the same pair.
func (s *FriendService) SendRequest(ctx context.Context, senderID, receiverID primitive.ObjectID, message string) (*models.FriendRequest, error) {
	if senderID == receiverID {
		return nil, apperrors.InvalidArgument("cannot send a friend request to yourself")
	}
	if len(message) > models.MaxRequestMessageLen {
		return nil, apperrors.InvalidArgument("request message exceeds %d characters", models.MaxRequestMessageLen)
	}

	if _, err := s.users.GetUserByID(ctx, receiverID); err != nil {
		return nil, err
	}

	blocked, err := s.blocks.ExistsEither(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, apperrors.Forbidden("cannot send a friend request to this user")
	}

	if _, err := s.edges.GetByPair(ctx, senderID, receiverID); err == nil {
		return nil, apperrors.Conflict("users are already friends")
	} else if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	if _, err := s.requests.GetPendingBetween(ctx, senderID, receiverID); err == nil {
		return nil, apperrors.Conflict("friend request already sent")
	} else if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	if _, err := s.requests.GetPendingBetween(ctx, receiverID, senderID); err == nil {
		return nil, apperrors.Conflict("this user has already sent you a friend request, accept it instead")
	} else if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	request := &models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    message,
	}

	created, err := s.requests.CreateRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("request_id", created.ID.Hex()).Info("Friend request sent")
	return created, nil
}

// AcceptRequest converts a pending request into the canonical friendship edge.
// Deleting the request and creating the edge happen in one transaction.
func (s *FriendService) AcceptRequest(ctx context.Context, requestID, actingUser primitive.ObjectID) (*models.Friendship, error) {
	request, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.ReceiverID != actingUser {
		return nil, apperrors.Forbidden("only the recipient can accept a friend request")
	}
	if request.Status != models.RequestStatusPending {
		return nil, apperrors.AlreadyProcessed("friend request was already %s", request.Status)
	}

	edge := models.NewFriendship(request.SenderID, request.ReceiverID)

	err = s.tx.Atomic(ctx, func(ctx context.Context) error {
		if err := s.requests.DeleteRequest(ctx, requestID); err != nil {
			return err
		}
		created, err := s.edges.CreateFriendship(ctx, edge)
		if err != nil {
			return err
		}
		edge = created
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to accept friend request: %w", err)
	}

	logger.Log.WithField("friendship_id", edge.ID.Hex()).Info("Friend request accepted")
	return edge, nil
}

// RejectRequest deletes a pending request. Only the recipient may reject.
func (s *FriendService) RejectRequest(ctx context.Context, requestID, actingUser primitive.ObjectID) error {
	request, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}

	if request.ReceiverID != actingUser {
		return apperrors.Forbidden("only the recipient can reject a friend request")
	}
	if request.Status != models.RequestStatusPending {
		return apperrors.AlreadyProcessed("friend request was already %s", request.Status)
	}

	return s.requests.DeleteRequest(ctx, requestID)
}

// CancelRequest deletes a pending request. Only the sender may cancel.
func (s *FriendService) CancelRequest(ctx context.Context, requestID, actingUser primitive.ObjectID) error {
	request, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}

	if request.SenderID != actingUser {
		return apperrors.Forbidden("only the sender can cancel a friend request")
	}
	if request.Status != models.RequestStatusPending {
		return apperrors.AlreadyProcessed("friend request was already %s", request.Status)
	}

	return s.requests.DeleteRequest(ctx, requestID)
}

// RemoveFriend deletes the friendship edge. Removing an absent edge reports
// NotFound rather than succeeding silently.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	if err := s.edges.DeleteByPair(ctx, userID, friendID); err != nil {
		return err
	}

	logger.Log.WithFields(map[string]interface{}{
		"user":   userID.Hex(),
		"friend": friendID.Hex(),
	}).Info("Friendship removed")
	return nil
}

// ListFriends returns the public profiles of the user's friends. The list is
// materialized at read time from the edges, never stored.
func (s *FriendService) ListFriends(ctx context.Context, userID primitive.ObjectID) ([]models.PublicUser, error) {
	friendIDs, err := s.edges.GetFriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend IDs: %w", err)
	}
	if len(friendIDs) == 0 {
		return []models.PublicUser{}, nil
	}

	users, err := s.users.GetUsersByIDs(ctx, friendIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	friends := make([]models.PublicUser, 0, len(users))
	for i := range users {
		friends = append(friends, users[i].Public())
	}
	return friends, nil
}

// ListPendingRequests returns the incoming pending requests for a user.
func (s *FriendService) ListPendingRequests(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error) {
	return s.requests.ListPendingByReceiver(ctx, userID)
}

// ListSentRequests returns the outgoing pending requests of a user.
func (s *FriendService) ListSentRequests(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error) {
	return s.requests.ListPendingBySender(ctx, userID)
}
