package services

import (
	"context"
	"fmt"

	"github.com/Amirhan2201/ChatLink/internal/apperrors"
	"github.com/Amirhan2201/ChatLink/internal/models"
	"github.com/Amirhan2201/ChatLink/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupService owns group membership, the role hierarchy and admin succession.
// Every mutation re-reads the group document and writes it back whole, so a
// single store write carries the membership, the roles and the recomputed
// member count together.
type GroupService struct {
	groups      GroupStore
	invitations InvitationStore
	users       UserStore
	chats       ChatStore
	tx          TxRunner
}

func NewGroupService(groups GroupStore, invitations InvitationStore, users UserStore, chats ChatStore, tx TxRunner) *GroupService {
	return &GroupService{
		groups:      groups,
		invitations: invitations,
		users:       users,
		chats:       chats,
		tx:          tx,
	}
}

// CreateGroup creates a group with the founder as admin, plus its group chat.
// Every initial member must exist before anything is written.
func (s *GroupService) CreateGroup(ctx context.Context, founderID primitive.ObjectID, name, avatar string, memberIDs []primitive.ObjectID, autoApproval bool) (*models.Group, error) {
	if name == "" {
		return nil, apperrors.InvalidArgument("group name is required")
	}

	members := []primitive.ObjectID{founderID}
	for _, id := range memberIDs {
		if !containsObjectID(members, id) {
			members = append(members, id)
		}
	}

	if err := s.ensureUsersExist(ctx, members); err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:        name,
		Avatar:      avatar,
		AdminID:     founderID,
		SubAdminIDs: []primitive.ObjectID{},
		MemberIDs:   members,
		Config:      models.GroupConfig{AutoMemberApproval: autoApproval},
	}

	err := s.tx.Atomic(ctx, func(ctx context.Context) error {
		created, err := s.groups.CreateGroup(ctx, group)
		if err != nil {
			return err
		}
		group = created

		_, err = s.chats.CreateChat(ctx, &models.Chat{
			Type:    models.ChatTypeGroup,
			GroupID: group.ID,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"group_id": group.ID.Hex(),
		"admin":    founderID.Hex(),
	}).Info("Group created")
	return group, nil
}

// GetGroup fetches a single group.
func (s *GroupService) GetGroup(ctx context.Context, groupID primitive.ObjectID) (*models.Group, error) {
	return s.groups.GetGroupByID(ctx, groupID)
}

// ListGroups returns the groups a user belongs to.
func (s *GroupService) ListGroups(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	return s.groups.ListGroupsByMember(ctx, userID)
}

// RequestJoin either adds the user immediately (auto-approval groups) or files
// a pending invitation addressed to the admin. A nil invitation in the result
// means the user was admitted on the spot.
func (s *GroupService) RequestJoin(ctx context.Context, userID, groupID primitive.ObjectID) (*models.Invitation, error) {
	group, err := s.groups.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.IsMember(userID) {
		return nil, apperrors.Conflict("user is already a member of this group")
	}
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	if group.Config.AutoMemberApproval {
		group.AddMember(userID)
		if err := s.groups.ReplaceGroup(ctx, group); err != nil {
			return nil, err
		}
		logger.Log.WithFields(logrus.Fields{
			"group_id": groupID.Hex(),
			"user":     userID.Hex(),
		}).Info("User auto-approved into group")
		return nil, nil
	}

	if _, err := s.invitations.GetPendingJoin(ctx, userID, groupID); err == nil {
		return nil, apperrors.Conflict("a join request for this group is already pending")
	} else if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	invitation := &models.Invitation{
		Type:       models.InvitationTypeGroup,
		SenderID:   userID,
		ReceiverID: group.AdminID,
		GroupID:    groupID,
		Content:    fmt.Sprintf("wants to join %s", group.Name),
	}
	return s.invitations.CreateInvitation(ctx, invitation)
}

// RespondToJoinRequest lets the current admin accept or reject a pending join
// request. Accepting admits the sender and resolves the invitation atomically.
func (s *GroupService) RespondToJoinRequest(ctx context.Context, actingUser, invitationID primitive.ObjectID, accept bool) error {
	invitation, err := s.invitations.GetInvitationByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if invitation.Status != models.RequestStatusPending {
		return apperrors.AlreadyProcessed("join request was already %s", invitation.Status)
	}

	group, err := s.groups.GetGroupByID(ctx, invitation.GroupID)
	if err != nil {
		return err
	}
	if group.AdminID != actingUser {
		return apperrors.Forbidden("only the group admin can respond to join requests")
	}

	if !accept {
		return s.invitations.UpdateInvitationStatus(ctx, invitationID, models.RequestStatusRejected)
	}

	return s.tx.Atomic(ctx, func(ctx context.Context) error {
		group.AddMember(invitation.SenderID)
		if err := s.groups.ReplaceGroup(ctx, group); err != nil {
			return err
		}
		return s.invitations.UpdateInvitationStatus(ctx, invitationID, models.RequestStatusAccepted)
	})
}

// ListJoinRequests returns the pending join requests addressed to the acting user.
func (s *GroupService) ListJoinRequests(ctx context.Context, actingUser primitive.ObjectID) ([]models.Invitation, error) {
	return s.invitations.ListPendingByReceiver(ctx, actingUser)
}

// AddMembers lets an admin or sub-admin add users in bulk. Ids that are
// already members are filtered out first; if nothing remains the call fails.
func (s *GroupService) AddMembers(ctx context.Context, actingUser, groupID primitive.ObjectID, userIDs []primitive.ObjectID) (*models.Group, error) {
	group, err := s.groups.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.CanModerate(actingUser) {
		return nil, apperrors.Forbidden("only the admin or a sub-admin can add members")
	}

	var newIDs []primitive.ObjectID
	for _, id := range userIDs {
		if !group.IsMember(id) && !containsObjectID(newIDs, id) {
			newIDs = append(newIDs, id)
		}
	}
	if len(newIDs) == 0 {
		return nil, apperrors.Conflict("all given users are already members")
	}

	if err := s.ensureUsersExist(ctx, newIDs); err != nil {
		return nil, err
	}

	for _, id := range newIDs {
		group.AddMember(id)
	}
	if err := s.groups.ReplaceGroup(ctx, group); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"group_id": groupID.Hex(),
		"added":    len(newIDs),
	}).Info("Members added to group")
	return group, nil
}

// RemoveMember removes a member. Self-removal is always allowed; removing
// someone else requires admin or sub-admin; the admin can only be removed by
// themself, which triggers succession: the first sub-admin by insertion order
// takes over, else the first remaining member, else the group dissolves.
func (s *GroupService) RemoveMember(ctx context.Context, actingUser, groupID, targetUser primitive.ObjectID) error {
	group, err := s.groups.GetGroupByID(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.IsMember(targetUser) {
		return apperrors.NotFound("user %s is not a member of this group", targetUser.Hex())
	}
	if targetUser != actingUser && !group.CanModerate(actingUser) {
		return apperrors.Forbidden("only the admin or a sub-admin can remove members")
	}
	if targetUser == group.AdminID && actingUser != group.AdminID {
		return apperrors.Forbidden("the group admin can only be removed by themself")
	}

	if targetUser == group.AdminID {
		return s.removeDepartingAdmin(ctx, group)
	}

	group.StripMember(targetUser)
	if err := s.groups.ReplaceGroup(ctx, group); err != nil {
		return err
	}

	logger.Log.WithFields(logrus.Fields{
		"group_id": groupID.Hex(),
		"user":     targetUser.Hex(),
	}).Info("Member removed from group")
	return nil
}

// removeDepartingAdmin runs the succession transitions in order.
func (s *GroupService) removeDepartingAdmin(ctx context.Context, group *models.Group) error {
	departing := group.AdminID

	if group.PromoteFirstSubAdmin() || group.PromoteFirstMember() {
		if err := s.groups.ReplaceGroup(ctx, group); err != nil {
			return err
		}
		logger.Log.WithFields(logrus.Fields{
			"group_id":  group.ID.Hex(),
			"old_admin": departing.Hex(),
			"new_admin": group.AdminID.Hex(),
		}).Info("Group admin succession completed")
		return nil
	}

	// Sole member departed: dissolve the group and its chat together.
	err := s.tx.Atomic(ctx, func(ctx context.Context) error {
		if err := s.groups.DeleteGroup(ctx, group.ID); err != nil {
			return err
		}
		chat, err := s.chats.GetChatByGroup(ctx, group.ID)
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return s.chats.DeleteChat(ctx, chat.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to dissolve group: %w", err)
	}

	logger.Log.WithField("group_id", group.ID.Hex()).Info("Group dissolved after last member left")
	return nil
}

// ChangeRole lets the admin promote or demote a member. Transferring adminship
// demotes the previous admin into the sub-admin list.
func (s *GroupService) ChangeRole(ctx context.Context, actingUser, groupID, targetUser primitive.ObjectID, newRole models.Role) (*models.Group, error) {
	if !models.ValidRole(newRole) {
		return nil, apperrors.InvalidArgument("unknown role %q", newRole)
	}

	group, err := s.groups.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.AdminID != actingUser {
		return nil, apperrors.Forbidden("only the group admin can change roles")
	}
	if targetUser == actingUser {
		return nil, apperrors.InvalidArgument("cannot change your own role")
	}
	if !group.IsMember(targetUser) {
		return nil, apperrors.NotFound("user %s is not a member of this group", targetUser.Hex())
	}

	switch newRole {
	case models.RoleAdmin:
		group.TransferAdmin(targetUser)
	case models.RoleSubAdmin:
		if !group.PromoteSubAdmin(targetUser) {
			return nil, apperrors.Conflict("user is already a sub-admin")
		}
	case models.RoleMember:
		if !group.DemoteSubAdmin(targetUser) {
			return nil, apperrors.Conflict("user is already an ordinary member")
		}
	}

	if err := s.groups.ReplaceGroup(ctx, group); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"group_id": groupID.Hex(),
		"user":     targetUser.Hex(),
		"role":     string(newRole),
	}).Info("Group role changed")
	return group, nil
}

func (s *GroupService) ensureUsersExist(ctx context.Context, ids []primitive.ObjectID) error {
	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(users) != len(ids) {
		found := make(map[primitive.ObjectID]bool, len(users))
		for i := range users {
			found[users[i].ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return apperrors.NotFound("user %s not found", id.Hex())
			}
		}
	}
	return nil
}

func containsObjectID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
