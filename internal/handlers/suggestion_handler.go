package handlers

import (
	"net/http"
	"strconv"

	"github.com/Amirhan2201/ChatLink/internal/services"
	"github.com/sirupsen/logrus"
)

// SuggestionHandler serves friend suggestions.
type SuggestionHandler struct {
	Service *services.SuggestionService
}

// NewSuggestionHandler creates a new instance of SuggestionHandler.
func NewSuggestionHandler(service *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{Service: service}
}

// SuggestHandler returns ranked friend suggestions for the caller.
// An optional limit query param caps the result.
func (h *SuggestionHandler) SuggestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUserID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit query param", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	suggestions, err := h.Service.Suggest(r.Context(), userID, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"userID": userID.Hex(),
		"count":  len(suggestions),
	}).Info("Friend suggestions served")
	writeJSON(w, http.StatusOK, suggestions)
}
