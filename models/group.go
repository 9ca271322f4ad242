package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Group struct {
	ID      primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name    string               `json:"name" bson:"name"`
	Members []primitive.ObjectID `json:"members" bson:"members"`
}

// HasMember reports whether userID is in the group's member list.
func (g *Group) HasMember(userID primitive.ObjectID) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
