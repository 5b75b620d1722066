package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const InvitationTypeGroup = "group"

// Invitation is a pending join request for a group whose config requires
// admin approval. The receiver is always the group admin at creation time.
type Invitation struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type       string             `bson:"type" json:"type"`
	SenderID   primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	ReceiverID primitive.ObjectID `bson:"receiver_id" json:"receiver_id"`
	GroupID    primitive.ObjectID `bson:"group_id" json:"group_id"`
	Status     RequestStatus      `bson:"status" json:"status"`
	Content    string             `bson:"content,omitempty" json:"content,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
