package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role tiers. Stored as an integer on the user document.
const (
	RoleUser  = 0
	RoleAdmin = 1
)

// User is a registered storefront account.
// Password and Answer hold bcrypt hashes and are never serialised to
// JSON.
type User struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"_id"`
	Name      string                 `bson:"name"          json:"name"`
	Email     string                 `bson:"email"         json:"email"` // unique index
	Password  string                 `bson:"password"      json:"-"`
	Phone     string                 `bson:"phone"         json:"phone"`
	Address   map[string]interface{} `bson:"address"       json:"address"`
	Answer    string                 `bson:"answer"        json:"-"`
	Role      int                    `bson:"role"          json:"role"`
	CreatedAt time.Time              `bson:"createdAt"     json:"createdAt"`
	UpdatedAt time.Time              `bson:"updatedAt"     json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role tier.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Public returns the safe subset of the user sent back on login.
func (u *User) Public() map[string]interface{} {
	return map[string]interface{}{
		"_id":     u.ID,
		"name":    u.Name,
		"email":   u.Email,
		"phone":   u.Phone,
		"address": u.Address,
		"role":    u.Role,
	}
}
