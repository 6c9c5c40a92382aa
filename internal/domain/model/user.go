package model

import (
	"time"
)

type Role string

const (
	RoleMember    Role = "member"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
	RoleOwner     Role = "owner"
)

// roleRank orders the tiers so a permission check is a single comparison.
var roleRank = map[Role]int{
	RoleMember:    0,
	RoleModerator: 1,
	RoleAdmin:     2,
	RoleOwner:     3,
}

func (r Role) Known() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants the capabilities of min. An empty or
// unrecognized role never satisfies any tier.
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	minRank, ok := roleRank[min]
	if !ok {
		return false
	}
	return rank >= minRank
}

func ModOrAbove(r Role) bool {
	return r.AtLeast(RoleModerator)
}

func AdminOrAbove(r Role) bool {
	return r.AtLeast(RoleAdmin)
}

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	EmailVerified  *bool     `json:"email_verified,omitempty"` // nil when the auth provider has no such field
	Image          *string   `json:"image,omitempty"`
	HashedPassword string    `json:"-"` // Not exposed
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
