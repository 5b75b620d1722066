package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Amirhan2201/ChatLink/internal/services"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatHandler handles HTTP requests for chats and pinned messages.
type ChatHandler struct {
	Service    *services.ChatService
	PinService *services.PinService
}

// NewChatHandler creates a new instance of ChatHandler.
func NewChatHandler(chatService *services.ChatService, pinService *services.PinService) *ChatHandler {
	return &ChatHandler{
		Service:    chatService,
		PinService: pinService,
	}
}

// CreatePeerChatHandler opens a one-on-one chat with a friend. If the
// chat already exists it is returned as-is.
func (h *ChatHandler) CreatePeerChatHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		FriendID string `json:"friend_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	friendID, err := primitive.ObjectIDFromHex(req.FriendID)
	if err != nil {
		http.Error(w, "Invalid friend ID", http.StatusBadRequest)
		return
	}

	chat, err := h.Service.CreatePeerChat(r.Context(), userID, friendID)
	if err != nil {
		respondError(w, err)
		return
	}

	logrus.WithField("chatID", chat.ID.Hex()).Info("Peer chat opened")
	writeJSON(w, http.StatusOK, chat)
}

// GetChatHandler fetches a chat the caller participates in.
func (h *ChatHandler) GetChatHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}
	chatID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	chat, err := h.Service.GetChat(r.Context(), userID, chatID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chat)
}

// PinMessageHandler pins a message in a chat. When the pin ledger is
// full the oldest pin is evicted.
func (h *ChatHandler) PinMessageHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	chatID, ok := pathID(w, vars["id"])
	if !ok {
		return
	}
	messageID, ok := pathID(w, vars["messageId"])
	if !ok {
		return
	}

	chat, err := h.Service.GetChat(r.Context(), userID, chatID)
	if err != nil {
		respondError(w, err)
		return
	}
	allowed, err := h.Service.CanPin(r.Context(), userID, chat)
	if err != nil {
		respondError(w, err)
		return
	}
	if !allowed {
		http.Error(w, "Only admins and sub-admins may pin in group chats", http.StatusForbidden)
		return
	}

	pinned, err := h.PinService.Pin(r.Context(), chatID, messageID)
	if err != nil {
		respondError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"chatID":    chatID.Hex(),
		"messageID": messageID.Hex(),
	}).Info("Message pinned")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pinned_message_ids": pinned,
	})
}

// UnpinMessageHandler removes a pinned message from a chat.
func (h *ChatHandler) UnpinMessageHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	chatID, ok := pathID(w, vars["id"])
	if !ok {
		return
	}
	messageID, ok := pathID(w, vars["messageId"])
	if !ok {
		return
	}

	chat, err := h.Service.GetChat(r.Context(), userID, chatID)
	if err != nil {
		respondError(w, err)
		return
	}
	allowed, err := h.Service.CanPin(r.Context(), userID, chat)
	if err != nil {
		respondError(w, err)
		return
	}
	if !allowed {
		http.Error(w, "Only admins and sub-admins may unpin in group chats", http.StatusForbidden)
		return
	}

	if err := h.PinService.Unpin(r.Context(), chatID, messageID); err != nil {
		respondError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"chatID":    chatID.Hex(),
		"messageID": messageID.Hex(),
	}).Info("Message unpinned")
	w.WriteHeader(http.StatusNoContent)
}

// GetPinnedHandler lists a chat's pinned messages, oldest first.
func (h *ChatHandler) GetPinnedHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}
	chatID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	// Visibility follows chat membership, not moderation rights.
	if _, err := h.Service.GetChat(r.Context(), userID, chatID); err != nil {
		respondError(w, err)
		return
	}

	pinned, err := h.PinService.GetPinned(r.Context(), chatID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pinned_message_ids": pinned,
	})
}
