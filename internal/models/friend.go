package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxRequestMessageLen bounds the optional greeting attached to a friend request.
const MaxRequestMessageLen = 300

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

type FriendRequest struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID   primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	ReceiverID primitive.ObjectID `bson:"receiver_id" json:"receiver_id"`
	Message    string             `bson:"message,omitempty" json:"message,omitempty"`
	Status     RequestStatus      `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Friendship is the canonical undirected edge between two users. UserA is
// always the lexicographically smaller ObjectID so that each unordered pair
// maps to exactly one document.
type Friendship struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserA     primitive.ObjectID `bson:"user_a" json:"user_a"`
	UserB     primitive.ObjectID `bson:"user_b" json:"user_b"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// NewFriendship builds the canonical edge for a pair, sorting the endpoints.
func NewFriendship(a, b primitive.ObjectID) *Friendship {
	a, b = SortPair(a, b)
	return &Friendship{UserA: a, UserB: b, CreatedAt: time.Now()}
}

// SortPair orders two user ids by their hex representation.
func SortPair(a, b primitive.ObjectID) (primitive.ObjectID, primitive.ObjectID) {
	if b.Hex() < a.Hex() {
		return b, a
	}
	return a, b
}

// Other returns the endpoint that is not the given user.
func (f *Friendship) Other(user primitive.ObjectID) primitive.ObjectID {
	if f.UserA == user {
		return f.UserB
	}
	return f.UserA
}

// Involves reports whether the edge touches the given user.
func (f *Friendship) Involves(user primitive.ObjectID) bool {
	return f.UserA == user || f.UserB == user
}
