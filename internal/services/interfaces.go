package services

import (
	"context"

	"github.com/Amirhan2201/ChatLink/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The store interfaces below are the only way the engines touch persistence.
// They are satisfied by the mongo repositories and by in-memory fakes in tests.

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	ListRecentUsers(ctx context.Context, limit int) ([]models.User, error)
}

type FriendRequestStore interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error)
	GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error)
	GetPendingBetween(ctx context.Context, senderID, receiverID primitive.ObjectID) (*models.FriendRequest, error)
	DeleteRequest(ctx context.Context, id primitive.ObjectID) error
	DeletePendingBetweenPair(ctx context.Context, a, b primitive.ObjectID) error
	ListPendingByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.FriendRequest, error)
	ListPendingBySender(ctx context.Context, senderID primitive.ObjectID) ([]models.FriendRequest, error)
	ListPendingReceiverIDs(ctx context.Context, senderID primitive.ObjectID) ([]primitive.ObjectID, error)
}

type FriendshipStore interface {
	CreateFriendship(ctx context.Context, f *models.Friendship) (*models.Friendship, error)
	GetByPair(ctx context.Context, a, b primitive.ObjectID) (*models.Friendship, error)
	DeleteByPair(ctx context.Context, a, b primitive.ObjectID) error
	GetFriendIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

type GroupStore interface {
	CreateGroup(ctx context.Context, group *models.Group) (*models.Group, error)
	GetGroupByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error)
	ReplaceGroup(ctx context.Context, group *models.Group) error
	DeleteGroup(ctx context.Context, id primitive.ObjectID) error
	ListGroupsByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error)
}

type InvitationStore interface {
	CreateInvitation(ctx context.Context, inv *models.Invitation) (*models.Invitation, error)
	GetInvitationByID(ctx context.Context, id primitive.ObjectID) (*models.Invitation, error)
	GetPendingJoin(ctx context.Context, senderID, groupID primitive.ObjectID) (*models.Invitation, error)
	UpdateInvitationStatus(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) error
	ListPendingByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.Invitation, error)
}

type ChatStore interface {
	CreateChat(ctx context.Context, chat *models.Chat) (*models.Chat, error)
	GetChatByID(ctx context.Context, id primitive.ObjectID) (*models.Chat, error)
	GetPeerChat(ctx context.Context, a, b primitive.ObjectID) (*models.Chat, error)
	GetChatByGroup(ctx context.Context, groupID primitive.ObjectID) (*models.Chat, error)
	SetPinned(ctx context.Context, chatID primitive.ObjectID, pinned []primitive.ObjectID) error
	DeleteChat(ctx context.Context, id primitive.ObjectID) error
}

type BlockStore interface {
	CreateBlock(ctx context.Context, block *models.Block) (*models.Block, error)
	Exists(ctx context.Context, blockerID, blockedID primitive.ObjectID) (bool, error)
	ExistsEither(ctx context.Context, a, b primitive.ObjectID) (bool, error)
	DeleteBlock(ctx context.Context, blockerID, blockedID primitive.ObjectID) error
}

// TxRunner groups multiple store writes into one atomic unit.
type TxRunner interface {
	Atomic(ctx context.Context, fn func(ctx context.Context) error) error
}
