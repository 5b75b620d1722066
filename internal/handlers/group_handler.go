package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Amirhan2201/ChatLink/internal/models"
	"github.com/Amirhan2201/ChatLink/internal/services"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupHandler handles HTTP requests for groups and their governance.
type GroupHandler struct {
	Service *services.GroupService
}

// NewGroupHandler creates a new instance of GroupHandler.
func NewGroupHandler(service *services.GroupService) *GroupHandler {
	return &GroupHandler{Service: service}
}

// CreateGroupHandler creates a group with the caller as admin.
func (h *GroupHandler) CreateGroupHandler(w http.ResponseWriter, r *http.Request) {
	founderID, ok := actingUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name         string   `json:"name"`
		Avatar       string   `json:"avatar"`
		MemberIDs    []string `json:"member_ids"`
		AutoApproval bool     `json:"auto_member_approval"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during group creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	memberIDs, err := parseIDList(req.MemberIDs)
	if err != nil {
		http.Error(w, "Invalid member ID", http.StatusBadRequest)
		return
	}

	group, err := h.Service.CreateGroup(r.Context(), founderID, req.Name, req.Avatar, memberIDs, req.AutoApproval)
	if err != nil {
		respondError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"groupID": group.ID.Hex(),
		"adminID": founderID.Hex(),
	}).Info("Group created")
	writeJSON(w, http.StatusCreated, group)
}

// GetGroupHandler fetches a single group by its ID.
func (h *GroupHandler) GetGroupHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := actingUserID(w, r); !ok {
		return
	}
	groupID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	group, err := h.Service.GetGroup(r.Context(), groupID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, group)
}

// ListGroupsHandler returns the groups the caller belongs to.
func (h *GroupHandler) ListGroupsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}

	groups, err := h.Service.ListGroups(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, groups)
}

// RequestJoinHandler asks to join a group. Groups with auto approval
// admit immediately and respond 204; otherwise a join request is
// queued for the admin and returned with 202.
func (h *GroupHandler) RequestJoinHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	invitation, err := h.Service.RequestJoin(r.Context(), userID, groupID)
	if err != nil {
		respondError(w, err)
		return
	}

	if invitation == nil {
		logrus.WithFields(logrus.Fields{
			"userID":  userID.Hex(),
			"groupID": groupID.Hex(),
		}).Info("User joined group via auto approval")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	logrus.WithFields(logrus.Fields{
		"userID":  userID.Hex(),
		"groupID": groupID.Hex(),
	}).Info("Join request queued")
	writeJSON(w, http.StatusAccepted, invitation)
}

// ListJoinRequestsHandler returns pending join requests awaiting the caller.
func (h *GroupHandler) ListJoinRequestsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}

	requests, err := h.Service.ListJoinRequests(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

// RespondJoinRequestHandler lets the group admin accept or reject a join request.
func (h *GroupHandler) RespondJoinRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}
	invitationID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var req struct {
		Accept bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.Service.RespondToJoinRequest(r.Context(), userID, invitationID, req.Accept); err != nil {
		respondError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"invitationID": invitationID.Hex(),
		"accepted":     req.Accept,
	}).Info("Join request resolved")
	w.WriteHeader(http.StatusNoContent)
}

// AddMembersHandler lets an admin or sub-admin add users directly.
func (h *GroupHandler) AddMembersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var req struct {
		UserIDs []string `json:"user_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userIDs, err := parseIDList(req.UserIDs)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	group, err := h.Service.AddMembers(r.Context(), userID, groupID, userIDs)
	if err != nil {
		respondError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"groupID": groupID.Hex(),
		"added":   len(userIDs),
	}).Info("Members added to group")
	writeJSON(w, http.StatusOK, group)
}

// RemoveMemberHandler removes a member, or lets a member leave. An
// admin leaving triggers succession; a group losing its last member
// is dissolved.
func (h *GroupHandler) RemoveMemberHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	groupID, ok := pathID(w, vars["id"])
	if !ok {
		return
	}
	targetID, ok := pathID(w, vars["userId"])
	if !ok {
		return
	}

	if err := h.Service.RemoveMember(r.Context(), userID, groupID, targetID); err != nil {
		respondError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"groupID":  groupID.Hex(),
		"targetID": targetID.Hex(),
	}).Info("Member removed from group")
	w.WriteHeader(http.StatusNoContent)
}

// ChangeRoleHandler promotes or demotes a member. Assigning the admin
// role transfers group ownership.
func (h *GroupHandler) ChangeRoleHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	groupID, ok := pathID(w, vars["id"])
	if !ok {
		return
	}
	targetID, ok := pathID(w, vars["userId"])
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	group, err := h.Service.ChangeRole(r.Context(), userID, groupID, targetID, models.Role(req.Role))
	if err != nil {
		respondError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"groupID":  groupID.Hex(),
		"targetID": targetID.Hex(),
		"role":     req.Role,
	}).Info("Member role changed")
	writeJSON(w, http.StatusOK, group)
}

func parseIDList(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
