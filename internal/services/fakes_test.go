package services

import (
	"context"
	"sort"
	"time"

	"github.com/Amirhan2201/ChatLink/internal/apperrors"
	"github.com/Amirhan2201/ChatLink/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory store implementations used across the service tests. They mimic
// the mongo repositories' observable behavior, including NotFound errors and
// copy-on-read semantics for group and chat documents.

type memUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (s *memUserStore) addUser() primitive.ObjectID {
	u := &models.User{ID: primitive.NewObjectID(), CreatedAt: time.Now()}
	u.Username = "user-" + u.ID.Hex()[:6]
	u.Email = u.Username + "@example.com"
	s.users[u.ID] = u
	return u.ID
}

func (s *memUserStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	return user, nil
}

func (s *memUserStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user %s not found", id.Hex())
}

func (s *memUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("no user with email %s", email)
}

func (s *memUserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("no user with username %s", username)
}

func (s *memUserStore) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *memUserStore) ListRecentUsers(ctx context.Context, limit int) ([]models.User, error) {
	var out []models.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memRequestStore struct {
	requests map[primitive.ObjectID]*models.FriendRequest
}

func newMemRequestStore() *memRequestStore {
	return &memRequestStore{requests: make(map[primitive.ObjectID]*models.FriendRequest)}
}

func (s *memRequestStore) CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	req.ID = primitive.NewObjectID()
	req.Status = models.RequestStatusPending
	req.CreatedAt = time.Now()
	s.requests[req.ID] = req
	return req, nil
}

func (s *memRequestStore) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	if r, ok := s.requests[id]; ok {
		return r, nil
	}
	return nil, apperrors.NotFound("friend request %s not found", id.Hex())
}

func (s *memRequestStore) GetPendingBetween(ctx context.Context, senderID, receiverID primitive.ObjectID) (*models.FriendRequest, error) {
	for _, r := range s.requests {
		if r.SenderID == senderID && r.ReceiverID == receiverID && r.Status == models.RequestStatusPending {
			return r, nil
		}
	}
	return nil, apperrors.NotFound("no pending request")
}

func (s *memRequestStore) DeleteRequest(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := s.requests[id]; !ok {
		return apperrors.NotFound("friend request %s not found", id.Hex())
	}
	delete(s.requests, id)
	return nil
}

func (s *memRequestStore) DeletePendingBetweenPair(ctx context.Context, a, b primitive.ObjectID) error {
	for id, r := range s.requests {
		if r.Status != models.RequestStatusPending {
			continue
		}
		if (r.SenderID == a && r.ReceiverID == b) || (r.SenderID == b && r.ReceiverID == a) {
			delete(s.requests, id)
		}
	}
	return nil
}

func (s *memRequestStore) ListPendingByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.FriendRequest, error) {
	var out []models.FriendRequest
	for _, r := range s.requests {
		if r.ReceiverID == receiverID && r.Status == models.RequestStatusPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *memRequestStore) ListPendingBySender(ctx context.Context, senderID primitive.ObjectID) ([]models.FriendRequest, error) {
	var out []models.FriendRequest
	for _, r := range s.requests {
		if r.SenderID == senderID && r.Status == models.RequestStatusPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *memRequestStore) ListPendingReceiverIDs(ctx context.Context, senderID primitive.ObjectID) ([]primitive.ObjectID, error) {
	requests, _ := s.ListPendingBySender(ctx, senderID)
	ids := make([]primitive.ObjectID, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ReceiverID)
	}
	return ids, nil
}

type memEdgeStore struct {
	edges map[primitive.ObjectID]*models.Friendship
}

func newMemEdgeStore() *memEdgeStore {
	return &memEdgeStore{edges: make(map[primitive.ObjectID]*models.Friendship)}
}

func (s *memEdgeStore) addEdge(a, b primitive.ObjectID) {
	f := models.NewFriendship(a, b)
	f.ID = primitive.NewObjectID()
	s.edges[f.ID] = f
}

func (s *memEdgeStore) CreateFriendship(ctx context.Context, f *models.Friendship) (*models.Friendship, error) {
	f.ID = primitive.NewObjectID()
	s.edges[f.ID] = f
	return f, nil
}

func (s *memEdgeStore) GetByPair(ctx context.Context, a, b primitive.ObjectID) (*models.Friendship, error) {
	userA, userB := models.SortPair(a, b)
	for _, f := range s.edges {
		if f.UserA == userA && f.UserB == userB {
			return f, nil
		}
	}
	return nil, apperrors.NotFound("no friendship")
}

func (s *memEdgeStore) DeleteByPair(ctx context.Context, a, b primitive.ObjectID) error {
	f, err := s.GetByPair(ctx, a, b)
	if err != nil {
		return err
	}
	delete(s.edges, f.ID)
	return nil
}

func (s *memEdgeStore) GetFriendIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var out []primitive.ObjectID
	for _, f := range s.edges {
		if f.Involves(userID) {
			out = append(out, f.Other(userID))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hex() < out[j].Hex() })
	return out, nil
}

type memGroupStore struct {
	groups map[primitive.ObjectID]*models.Group
}

func newMemGroupStore() *memGroupStore {
	return &memGroupStore{groups: make(map[primitive.ObjectID]*models.Group)}
}

func copyGroup(g *models.Group) *models.Group {
	out := *g
	out.SubAdminIDs = append([]primitive.ObjectID(nil), g.SubAdminIDs...)
	out.MemberIDs = append([]primitive.ObjectID(nil), g.MemberIDs...)
	return &out
}

func (s *memGroupStore) CreateGroup(ctx context.Context, group *models.Group) (*models.Group, error) {
	group.ID = primitive.NewObjectID()
	group.CreatedAt = time.Now()
	group.Recount()
	s.groups[group.ID] = copyGroup(group)
	return group, nil
}

func (s *memGroupStore) GetGroupByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	if g, ok := s.groups[id]; ok {
		return copyGroup(g), nil
	}
	return nil, apperrors.NotFound("group %s not found", id.Hex())
}

func (s *memGroupStore) ReplaceGroup(ctx context.Context, group *models.Group) error {
	if _, ok := s.groups[group.ID]; !ok {
		return apperrors.NotFound("group %s not found", group.ID.Hex())
	}
	group.Recount()
	s.groups[group.ID] = copyGroup(group)
	return nil
}

func (s *memGroupStore) DeleteGroup(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := s.groups[id]; !ok {
		return apperrors.NotFound("group %s not found", id.Hex())
	}
	delete(s.groups, id)
	return nil
}

func (s *memGroupStore) ListGroupsByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	var out []models.Group
	for _, g := range s.groups {
		if g.IsMember(userID) {
			out = append(out, *copyGroup(g))
		}
	}
	return out, nil
}

type memInvitationStore struct {
	invitations map[primitive.ObjectID]*models.Invitation
}

func newMemInvitationStore() *memInvitationStore {
	return &memInvitationStore{invitations: make(map[primitive.ObjectID]*models.Invitation)}
}

func (s *memInvitationStore) CreateInvitation(ctx context.Context, inv *models.Invitation) (*models.Invitation, error) {
	inv.ID = primitive.NewObjectID()
	inv.Status = models.RequestStatusPending
	inv.CreatedAt = time.Now()
	s.invitations[inv.ID] = inv
	return inv, nil
}

func (s *memInvitationStore) GetInvitationByID(ctx context.Context, id primitive.ObjectID) (*models.Invitation, error) {
	if inv, ok := s.invitations[id]; ok {
		return inv, nil
	}
	return nil, apperrors.NotFound("invitation %s not found", id.Hex())
}

func (s *memInvitationStore) GetPendingJoin(ctx context.Context, senderID, groupID primitive.ObjectID) (*models.Invitation, error) {
	for _, inv := range s.invitations {
		if inv.SenderID == senderID && inv.GroupID == groupID && inv.Status == models.RequestStatusPending {
			return inv, nil
		}
	}
	return nil, apperrors.NotFound("no pending join request")
}

func (s *memInvitationStore) UpdateInvitationStatus(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) error {
	inv, ok := s.invitations[id]
	if !ok {
		return apperrors.NotFound("invitation %s not found", id.Hex())
	}
	inv.Status = status
	return nil
}

func (s *memInvitationStore) ListPendingByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.Invitation, error) {
	var out []models.Invitation
	for _, inv := range s.invitations {
		if inv.ReceiverID == receiverID && inv.Status == models.RequestStatusPending {
			out = append(out, *inv)
		}
	}
	return out, nil
}

type memChatStore struct {
	chats map[primitive.ObjectID]*models.Chat
}

func newMemChatStore() *memChatStore {
	return &memChatStore{chats: make(map[primitive.ObjectID]*models.Chat)}
}

func copyChat(c *models.Chat) *models.Chat {
	out := *c
	out.MemberIDs = append([]primitive.ObjectID(nil), c.MemberIDs...)
	out.PinnedMessageIDs = append([]primitive.ObjectID(nil), c.PinnedMessageIDs...)
	return &out
}

func (s *memChatStore) CreateChat(ctx context.Context, chat *models.Chat) (*models.Chat, error) {
	chat.ID = primitive.NewObjectID()
	chat.CreatedAt = time.Now()
	if chat.PinnedMessageIDs == nil {
		chat.PinnedMessageIDs = []primitive.ObjectID{}
	}
	s.chats[chat.ID] = copyChat(chat)
	return chat, nil
}

func (s *memChatStore) GetChatByID(ctx context.Context, id primitive.ObjectID) (*models.Chat, error) {
	if c, ok := s.chats[id]; ok {
		return copyChat(c), nil
	}
	return nil, apperrors.NotFound("chat %s not found", id.Hex())
}

func (s *memChatStore) GetPeerChat(ctx context.Context, a, b primitive.ObjectID) (*models.Chat, error) {
	for _, c := range s.chats {
		if c.Type == models.ChatTypePeer && c.IsParticipant(a) && c.IsParticipant(b) {
			return copyChat(c), nil
		}
	}
	return nil, apperrors.NotFound("no peer chat")
}

func (s *memChatStore) GetChatByGroup(ctx context.Context, groupID primitive.ObjectID) (*models.Chat, error) {
	for _, c := range s.chats {
		if c.Type == models.ChatTypeGroup && c.GroupID == groupID {
			return copyChat(c), nil
		}
	}
	return nil, apperrors.NotFound("no chat for group %s", groupID.Hex())
}

func (s *memChatStore) SetPinned(ctx context.Context, chatID primitive.ObjectID, pinned []primitive.ObjectID) error {
	c, ok := s.chats[chatID]
	if !ok {
		return apperrors.NotFound("chat %s not found", chatID.Hex())
	}
	c.PinnedMessageIDs = append([]primitive.ObjectID(nil), pinned...)
	return nil
}

func (s *memChatStore) DeleteChat(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := s.chats[id]; !ok {
		return apperrors.NotFound("chat %s not found", id.Hex())
	}
	delete(s.chats, id)
	return nil
}

type memBlockStore struct {
	blocks map[primitive.ObjectID]*models.Block
}

func newMemBlockStore() *memBlockStore {
	return &memBlockStore{blocks: make(map[primitive.ObjectID]*models.Block)}
}

func (s *memBlockStore) CreateBlock(ctx context.Context, block *models.Block) (*models.Block, error) {
	block.ID = primitive.NewObjectID()
	block.CreatedAt = time.Now()
	s.blocks[block.ID] = block
	return block, nil
}

func (s *memBlockStore) Exists(ctx context.Context, blockerID, blockedID primitive.ObjectID) (bool, error) {
	for _, b := range s.blocks {
		if b.BlockerID == blockerID && b.BlockedID == blockedID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memBlockStore) ExistsEither(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	if ok, _ := s.Exists(ctx, a, b); ok {
		return true, nil
	}
	return s.Exists(ctx, b, a)
}

func (s *memBlockStore) DeleteBlock(ctx context.Context, blockerID, blockedID primitive.ObjectID) error {
	for id, b := range s.blocks {
		if b.BlockerID == blockerID && b.BlockedID == blockedID {
			delete(s.blocks, id)
			return nil
		}
	}
	return apperrors.NotFound("user %s has not blocked %s", blockerID.Hex(), blockedID.Hex())
}

func newID() primitive.ObjectID {
	return primitive.NewObjectID()
}

// fakeTx runs the function directly; the in-memory stores have no partial
// failure modes to roll back from.
type fakeTx struct{}

func (fakeTx) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fixture bundles the in-memory stores with services wired over them.
type fixture struct {
	users       *memUserStore
	requests    *memRequestStore
	edges       *memEdgeStore
	groups      *memGroupStore
	invitations *memInvitationStore
	chats       *memChatStore
	blocks      *memBlockStore

	friends     *FriendService
	groupsSvc   *GroupService
	suggestions *SuggestionService
	pins        *PinService
	blocksSvc   *BlockService
	chatsSvc    *ChatService
}

func newFixture() *fixture {
	f := &fixture{
		users:       newMemUserStore(),
		requests:    newMemRequestStore(),
		edges:       newMemEdgeStore(),
		groups:      newMemGroupStore(),
		invitations: newMemInvitationStore(),
		chats:       newMemChatStore(),
		blocks:      newMemBlockStore(),
	}
	tx := fakeTx{}
	f.friends = NewFriendService(f.requests, f.edges, f.users, f.blocks, tx)
	f.groupsSvc = NewGroupService(f.groups, f.invitations, f.users, f.chats, tx)
	f.suggestions = NewSuggestionService(f.edges, f.requests, f.users)
	f.pins = NewPinService(f.chats)
	f.blocksSvc = NewBlockService(f.blocks, f.edges, f.requests, tx)
	f.chatsSvc = NewChatService(f.chats, f.edges, f.groups)
	return f
}
