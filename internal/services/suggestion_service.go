package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/Amirhan2201/ChatLink/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultSuggestionLimit is used when the caller does not specify one.
const DefaultSuggestionLimit = 10

const newUserReason = "new to platform"

// SuggestionService ranks friend-of-friend candidates by mutual-friend count.
// The traversal is O(|friends| x avg-degree) against the edge store; callers
// could swap in a precomputed adjacency index behind FriendshipStore without
// touching this code.
type SuggestionService struct {
	edges    FriendshipStore
	requests FriendRequestStore
	users    UserStore
}

func NewSuggestionService(edges FriendshipStore, requests FriendRequestStore, users UserStore) *SuggestionService {
	return &SuggestionService{
		edges:    edges,
		requests: requests,
		users:    users,
	}
}

// Suggest returns up to limit candidates. A candidate is never the user,
// never a current friend and never someone the user already has a pending
// outgoing request to. Users with no friends get unranked newcomers instead.
func (s *SuggestionService) Suggest(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.Suggestion, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	friendIDs, err := s.edges.GetFriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load friends: %w", err)
	}

	pendingIDs, err := s.requests.ListPendingReceiverIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending requests: %w", err)
	}

	excluded := make(map[primitive.ObjectID]bool, len(friendIDs)+len(pendingIDs)+1)
	excluded[userID] = true
	for _, id := range pendingIDs {
		excluded[id] = true
	}
	for _, id := range friendIDs {
		excluded[id] = true
	}

	if len(friendIDs) == 0 {
		return s.suggestNewcomers(ctx, excluded, limit)
	}

	mutualCounts := make(map[primitive.ObjectID]int)
	for _, friendID := range friendIDs {
		theirFriends, err := s.edges.GetFriendIDs(ctx, friendID)
		if err != nil {
			return nil, fmt.Errorf("failed to load friends of %s: %w", friendID.Hex(), err)
		}
		for _, candidate := range theirFriends {
			if excluded[candidate] {
				continue
			}
			mutualCounts[candidate]++
		}
	}

	candidates := make([]models.Suggestion, 0, len(mutualCounts))
	for id, count := range mutualCounts {
		candidates = append(candidates, models.Suggestion{
			UserID:        id,
			MutualFriends: count,
			Reason:        mutualReason(count),
		})
	}

	// Mutual count descending; candidate id ascending keeps the order stable.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].MutualFriends != candidates[j].MutualFriends {
			return candidates[i].MutualFriends > candidates[j].MutualFriends
		}
		return candidates[i].UserID.Hex() < candidates[j].UserID.Hex()
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (s *SuggestionService) suggestNewcomers(ctx context.Context, excluded map[primitive.ObjectID]bool, limit int) ([]models.Suggestion, error) {
	recent, err := s.users.ListRecentUsers(ctx, limit+len(excluded))
	if err != nil {
		return nil, fmt.Errorf("failed to load newcomers: %w", err)
	}

	suggestions := make([]models.Suggestion, 0, limit)
	for i := range recent {
		if excluded[recent[i].ID] {
			continue
		}
		suggestions = append(suggestions, models.Suggestion{
			UserID: recent[i].ID,
			Reason: newUserReason,
		})
		if len(suggestions) == limit {
			break
		}
	}
	return suggestions, nil
}

func mutualReason(count int) string {
	if count == 1 {
		return "1 mutual friend"
	}
	return fmt.Sprintf("%d mutual friends", count)
}
