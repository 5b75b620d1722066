package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Block is a directed block edge: blocker no longer sees or receives requests
// from blocked, and any friendship between the pair is severed on creation.
type Block struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BlockerID primitive.ObjectID `bson:"blocker_id" json:"blocker_id"`
	BlockedID primitive.ObjectID `bson:"blocked_id" json:"blocked_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
