package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Amirhan2201/ChatLink/internal/apperrors"
	"github.com/Amirhan2201/ChatLink/pkg/middleware"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// actingUserID extracts the authenticated user's ID from the request context.
// It writes the error response itself when the request is not usable.
func actingUserID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to convert user ID from claims")
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return primitive.NilObjectID, false
	}
	return id, true
}

// pathID parses the named mux path variable as an ObjectID.
func pathID(w http.ResponseWriter, raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		http.Error(w, "Invalid ID in path", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return id, true
}

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// respondError maps a service error onto an HTTP status code.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindForbidden:
		status = http.StatusForbidden
	case apperrors.KindConflict, apperrors.KindAlreadyProcessed:
		status = http.StatusConflict
	case apperrors.KindInvalidArgument:
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logrus.WithError(err).Error("Unhandled service error")
		http.Error(w, "Internal server error", status)
		return
	}
	http.Error(w, err.Error(), status)
}
