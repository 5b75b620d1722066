package services

import (
	"context"
	"fmt"

	"github.com/Amirhan2201/ChatLink/internal/apperrors"
	"github.com/Amirhan2201/ChatLink/internal/models"
	"github.com/Amirhan2201/ChatLink/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlockService records directed blocks. Blocking severs the friendship edge
// and any pending requests between the pair in the same transaction.
type BlockService struct {
	blocks   BlockStore
	edges    FriendshipStore
	requests FriendRequestStore
	tx       TxRunner
}

func NewBlockService(blocks BlockStore, edges FriendshipStore, requests FriendRequestStore, tx TxRunner) *BlockService {
	return &BlockService{
		blocks:   blocks,
		edges:    edges,
		requests: requests,
		tx:       tx,
	}
}

func (s *BlockService) Block(ctx context.Context, blockerID, blockedID primitive.ObjectID) error {
	if blockerID == blockedID {
		return apperrors.InvalidArgument("cannot block yourself")
	}

	exists, err := s.blocks.Exists(ctx, blockerID, blockedID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.Conflict("user is already blocked")
	}

	err = s.tx.Atomic(ctx, func(ctx context.Context) error {
		if _, err := s.blocks.CreateBlock(ctx, &models.Block{
			BlockerID: blockerID,
			BlockedID: blockedID,
		}); err != nil {
			return err
		}

		if err := s.edges.DeleteByPair(ctx, blockerID, blockedID); err != nil {
			if !apperrors.IsKind(err, apperrors.KindNotFound) {
				return err
			}
		}
		return s.requests.DeletePendingBetweenPair(ctx, blockerID, blockedID)
	})
	if err != nil {
		return fmt.Errorf("failed to block user: %w", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"blocker": blockerID.Hex(),
		"blocked": blockedID.Hex(),
	}).Info("User blocked")
	return nil
}

// Unblock removes the block. Unblocking a user that was never blocked reports
// NotFound rather than succeeding silently.
func (s *BlockService) Unblock(ctx context.Context, blockerID, blockedID primitive.ObjectID) error {
	return s.blocks.DeleteBlock(ctx, blockerID, blockedID)
}

// IsBlocked reports whether either user blocks the other.
func (s *BlockService) IsBlocked(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	return s.blocks.ExistsEither(ctx, a, b)
}
