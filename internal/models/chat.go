package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatType string

const (
	ChatTypePeer  ChatType = "peer"
	ChatTypeGroup ChatType = "group"
)

// MaxPinnedMessages bounds the pinned-content ledger per chat. Inserting into
// a full ledger evicts the oldest pin (FIFO).
const MaxPinnedMessages = 3

// Chat is a conversation container. Peer chats carry their two participants in
// MemberIDs; group chats reference the owning group, whose membership and role
// hierarchy govern access. PinnedMessageIDs is ordered oldest-first.
type Chat struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Type             ChatType             `bson:"type" json:"type"`
	MemberIDs        []primitive.ObjectID `bson:"member_ids,omitempty" json:"member_ids,omitempty"`
	GroupID          primitive.ObjectID   `bson:"group_id,omitempty" json:"group_id,omitempty"`
	PinnedMessageIDs []primitive.ObjectID `bson:"pinned_message_ids" json:"pinned_message_ids"`
	CreatedAt        time.Time            `bson:"created_at" json:"created_at"`
}

// IsParticipant reports whether the user belongs to a peer chat.
func (c *Chat) IsParticipant(id primitive.ObjectID) bool {
	return containsID(c.MemberIDs, id)
}

// IsPinned reports whether the message is currently pinned.
func (c *Chat) IsPinned(messageID primitive.ObjectID) bool {
	return containsID(c.PinnedMessageIDs, messageID)
}
