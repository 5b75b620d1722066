package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Amirhan2201/ChatLink/internal/services"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendHandler handles HTTP requests for the friendship lifecycle.
type FriendHandler struct {
	Service      *services.FriendService
	BlockService *services.BlockService
}

// NewFriendHandler creates a new instance of FriendHandler.
func NewFriendHandler(friendService *services.FriendService, blockService *services.BlockService) *FriendHandler {
	return &FriendHandler{
		Service:      friendService,
		BlockService: blockService,
	}
}

// SendRequestHandler sends a friend request to another user.
func (h *FriendHandler) SendRequestHandler(w http.ResponseWriter, r *http.Request) {
	senderID, ok := actingUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		ReceiverID string `json:"receiver_id"`
		Message    string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logrus.WithError(err).Warn("Invalid request payload for friend request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	receiverID, err := primitive.ObjectIDFromHex(req.ReceiverID)
	if err != nil {
		http.Error(w, "Invalid receiver ID", http.StatusBadRequest)
		return
	}

	request, err := h.Service.SendRequest(r.Context(), senderID, receiverID, req.Message)
	if err != nil {
		respondError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"senderID":   senderID.Hex(),
		"receiverID": receiverID.Hex(),
	}).Info("Friend request sent")
	writeJSON(w, http.StatusCreated, request)
}

// AcceptRequestHandler accepts a pending friend request addressed to the caller.
func (h *FriendHandler) AcceptRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}
	requestID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	edge, err := h.Service.AcceptRequest(r.Context(), requestID, userID)
	if err != nil {
		respondError(w, err)
		return
	}

	logrus.WithField("requestID", requestID.Hex()).Info("Friend request accepted")
	writeJSON(w, http.StatusOK, edge)
}

// RejectRequestHandler rejects a pending friend request addressed to the caller.
func (h *FriendHandler) RejectRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}
	requestID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	if err := h.Service.RejectRequest(r.Context(), requestID, userID); err != nil {
		respondError(w, err)
		return
	}

	logrus.WithField("requestID", requestID.Hex()).Info("Friend request rejected")
	w.WriteHeader(http.StatusNoContent)
}

// CancelRequestHandler lets a sender withdraw their own pending request.
func (h *FriendHandler) CancelRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}
	requestID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	if err := h.Service.CancelRequest(r.Context(), requestID, userID); err != nil {
		respondError(w, err)
		return
	}

	logrus.WithField("requestID", requestID.Hex()).Info("Friend request cancelled")
	w.WriteHeader(http.StatusNoContent)
}

// RemoveFriendHandler severs an existing friendship.
func (h *FriendHandler) RemoveFriendHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}
	friendID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	if err := h.Service.RemoveFriend(r.Context(), userID, friendID); err != nil {
		respondError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"userID":   userID.Hex(),
		"friendID": friendID.Hex(),
	}).Info("Friendship removed")
	w.WriteHeader(http.StatusNoContent)
}

// ListFriendsHandler returns the caller's friends as public profiles.
func (h *FriendHandler) ListFriendsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}

	friends, err := h.Service.ListFriends(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, friends)
}

// ListPendingHandler returns pending requests addressed to the caller.
func (h *FriendHandler) ListPendingHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}

	requests, err := h.Service.ListPendingRequests(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

// ListSentHandler returns pending requests the caller has sent.
func (h *FriendHandler) ListSentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}

	requests, err := h.Service.ListSentRequests(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

// BlockUserHandler blocks another user, severing any friendship and
// pending requests between the pair.
func (h *FriendHandler) BlockUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}
	targetID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	if err := h.BlockService.Block(r.Context(), userID, targetID); err != nil {
		respondError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"blockerID": userID.Hex(),
		"blockedID": targetID.Hex(),
	}).Info("User blocked")
	w.WriteHeader(http.StatusNoContent)
}

// UnblockUserHandler lifts a block the caller placed earlier.
func (h *FriendHandler) UnblockUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}
	targetID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	if err := h.BlockService.Unblock(r.Context(), userID, targetID); err != nil {
		respondError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"blockerID": userID.Hex(),
		"blockedID": targetID.Hex(),
	}).Info("User unblocked")
	w.WriteHeader(http.StatusNoContent)
}
