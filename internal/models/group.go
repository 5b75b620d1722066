package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSubAdmin Role = "subAdmin"
	RoleMember   Role = "member"
)

// ValidRole reports whether the given role name is part of the hierarchy.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleSubAdmin || r == RoleMember
}

type GroupConfig struct {
	AutoMemberApproval bool `bson:"auto_member_approval" json:"auto_member_approval"`
}

// Group is a chat group with a single admin, an ordered list of sub-admins and
// an ordered member list. SubAdminIDs and MemberIDs are slices, not sets:
// admin succession promotes the first entry by insertion order, so ordering is
// part of the contract. MemberCount is a denormalized cache of len(MemberIDs)
// refreshed on every write.
type Group struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Avatar      string               `bson:"avatar,omitempty" json:"avatar,omitempty"`
	AdminID     primitive.ObjectID   `bson:"admin_id" json:"admin_id"`
	SubAdminIDs []primitive.ObjectID `bson:"sub_admin_ids" json:"sub_admin_ids"`
	MemberIDs   []primitive.ObjectID `bson:"member_ids" json:"member_ids"`
	MemberCount int                  `bson:"member_count" json:"member_count"`
	Config      GroupConfig          `bson:"config" json:"config"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
}

func (g *Group) IsMember(id primitive.ObjectID) bool {
	return containsID(g.MemberIDs, id)
}

func (g *Group) IsSubAdmin(id primitive.ObjectID) bool {
	return containsID(g.SubAdminIDs, id)
}

// CanModerate reports whether the user may manage membership (admin or sub-admin).
func (g *Group) CanModerate(id primitive.ObjectID) bool {
	return g.AdminID == id || g.IsSubAdmin(id)
}

// Role returns the user's role in the group, or "" for non-members.
func (g *Group) RoleOf(id primitive.ObjectID) Role {
	switch {
	case !g.IsMember(id):
		return ""
	case g.AdminID == id:
		return RoleAdmin
	case g.IsSubAdmin(id):
		return RoleSubAdmin
	default:
		return RoleMember
	}
}

// AddMember appends the user to the member list if absent and reports whether
// the list changed.
func (g *Group) AddMember(id primitive.ObjectID) bool {
	if g.IsMember(id) {
		return false
	}
	g.MemberIDs = append(g.MemberIDs, id)
	g.Recount()
	return true
}

// StripMember removes the user from the member list and, if present, from the
// sub-admin list. The admin must be handled through succession first.
func (g *Group) StripMember(id primitive.ObjectID) {
	g.MemberIDs = removeID(g.MemberIDs, id)
	g.SubAdminIDs = removeID(g.SubAdminIDs, id)
	g.Recount()
}

// Recount refreshes the denormalized member counter.
func (g *Group) Recount() {
	g.MemberCount = len(g.MemberIDs)
}

// PromoteFirstSubAdmin is the first succession transition for a departing
// admin: the oldest sub-admin (insertion order) becomes admin and the departing
// admin leaves the group. Returns false when there is no sub-admin to promote.
func (g *Group) PromoteFirstSubAdmin() bool {
	if len(g.SubAdminIDs) == 0 {
		return false
	}
	departing := g.AdminID
	g.AdminID = g.SubAdminIDs[0]
	g.SubAdminIDs = g.SubAdminIDs[1:]
	g.MemberIDs = removeID(g.MemberIDs, departing)
	g.Recount()
	return true
}

// PromoteFirstMember is the second succession transition: with no sub-admins
// left, the first remaining ordinary member becomes admin. Returns false when
// the departing admin is the sole member, in which case the group dissolves.
func (g *Group) PromoteFirstMember() bool {
	departing := g.AdminID
	for _, id := range g.MemberIDs {
		if id != departing {
			g.AdminID = id
			g.MemberIDs = removeID(g.MemberIDs, departing)
			g.Recount()
			return true
		}
	}
	return false
}

// PromoteSubAdmin adds the user to the sub-admin list, reporting false when
// they already hold the role.
func (g *Group) PromoteSubAdmin(id primitive.ObjectID) bool {
	if g.IsSubAdmin(id) {
		return false
	}
	g.SubAdminIDs = append(g.SubAdminIDs, id)
	return true
}

// DemoteSubAdmin removes the user from the sub-admin list without touching
// their membership, reporting false when they were not a sub-admin.
func (g *Group) DemoteSubAdmin(id primitive.ObjectID) bool {
	if !g.IsSubAdmin(id) {
		return false
	}
	g.SubAdminIDs = removeID(g.SubAdminIDs, id)
	return true
}

// TransferAdmin hands adminship to target. The previous admin steps down into
// the sub-admin list; the target is removed from it if already listed.
func (g *Group) TransferAdmin(target primitive.ObjectID) {
	previous := g.AdminID
	g.SubAdminIDs = removeID(g.SubAdminIDs, target)
	g.SubAdminIDs = append(g.SubAdminIDs, previous)
	g.AdminID = target
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
