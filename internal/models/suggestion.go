package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Suggestion is a ranked friend candidate.
type Suggestion struct {
	UserID        primitive.ObjectID `json:"user_id"`
	MutualFriends int                `json:"mutual_friends"`
	Reason        string             `json:"reason"`
}
