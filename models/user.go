package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleGroupAdmin Role = "GroupAdmin"
	RoleUser       Role = "User"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleGroupAdmin, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID       primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Username string               `json:"username" bson:"username"`
	Email    string               `json:"email" bson:"email"`
	Password string               `json:"password,omitempty" bson:"password"`
	Groups   []primitive.ObjectID `json:"groups" bson:"groups"`
	Role     Role                 `json:"role" bson:"role"`
	Config   map[string]any       `json:"config" bson:"config"`
}

// DefaultConfig returns the configuration assigned to a freshly
// registered user.
func DefaultConfig() map[string]any {
	return map[string]any{
		"theme": "breathDark",
	}
}
