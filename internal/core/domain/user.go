package domain

import (
	"errors"
	"time"
)

// Role is the authorization tier derived from backend-held account data.
type Role string

const (
	RoleUser      Role = "user"
	RoleLibrarian Role = "librarian"
	RoleAdmin     Role = "admin"
	// RolePending marks an identity whose role lookup has not completed.
	// Guards must withhold rendering for it; it is never an authorization tier.
	RolePending Role = "pending"
)

// ValidRole reports whether r is a storable account role.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleLibrarian || r == RoleAdmin
}

// Capability names an action a role may or may not perform.
type Capability string

const (
	CapBrowseCatalog Capability = "catalog.browse"
	CapPlaceOrder    Capability = "orders.place"
	CapManageOrders  Capability = "orders.manage"
	CapManageBooks   Capability = "books.manage"
	CapManageUsers   Capability = "users.manage"
	CapViewStats     Capability = "stats.view"
	CapUseWishlist   Capability = "wishlist.use"
	CapPostReview    Capability = "reviews.post"
	CapViewDashboard Capability = "dashboard.view"
)

// RolePending is deliberately absent everywhere: a pending role can do nothing.
var capabilities = map[Capability][]Role{
	CapBrowseCatalog: {RoleUser, RoleLibrarian, RoleAdmin},
	CapPlaceOrder:    {RoleUser, RoleLibrarian, RoleAdmin},
	CapManageOrders:  {RoleLibrarian, RoleAdmin},
	CapManageBooks:   {RoleLibrarian, RoleAdmin},
	CapManageUsers:   {RoleAdmin},
	CapViewStats:     {RoleAdmin},
	CapUseWishlist:   {RoleUser, RoleLibrarian, RoleAdmin},
	CapPostReview:    {RoleUser, RoleLibrarian, RoleAdmin},
	CapViewDashboard: {RoleUser, RoleLibrarian, RoleAdmin},
}

// Can reports whether the role grants the named capability. It is the single
// authority consulted by route guards and by views that conditionally render
// actions.
func (r Role) Can(action Capability) bool {
	for _, allowed := range capabilities[action] {
		if allowed == r {
			return true
		}
	}
	return false
}

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models an account held by the backend.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	DisplayName  string    `json:"display_name" bson:"display_name"`
	PhotoURL     string    `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         Role      `json:"role" bson:"role"`
	Provider     string    `json:"provider,omitempty" bson:"provider,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
