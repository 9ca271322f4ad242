package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type ShareRole string

const (
	ShareRoleRead      ShareRole = "Read"
	ShareRoleReadWrite ShareRole = "ReadWrite"
)

func (r ShareRole) Valid() bool {
	return r == ShareRoleRead || r == ShareRoleReadWrite
}

// SharedUser is one entry of a project's sharedWith list: a member of the
// backing group plus the role granted to them on this project.
type SharedUser struct {
	User primitive.ObjectID `json:"user" bson:"user"`
	Role ShareRole          `json:"role" bson:"role"`
}

// Project is the aggregate root: objectives and tasks live embedded in the
// project document and are persisted only through a full project save.
// Version is the revision counter for the compare-and-swap save; it is not
// part of the public JSON contract.
type Project struct {
	ID          primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string              `json:"title" bson:"title"`
	Description string              `json:"description" bson:"description"`
	Text        string              `json:"text" bson:"text"`
	Objectives  []Objective         `json:"objectives" bson:"objectives"`
	Tasks       []Task              `json:"tasks" bson:"tasks"`
	Owner       primitive.ObjectID  `json:"owner" bson:"owner"`
	SharedGroup *primitive.ObjectID `json:"sharedGroup,omitempty" bson:"sharedGroup,omitempty"`
	SharedWith  []SharedUser        `json:"sharedWith" bson:"sharedWith"`
	Version     int64               `json:"-" bson:"version"`
}

// IsShared reports whether the project currently has shared users. A project
// with shared users always has a backing group.
func (p *Project) IsShared() bool {
	return len(p.SharedWith) > 0
}

// IsSharedWith reports whether userID already has a share entry.
func (p *Project) IsSharedWith(userID primitive.ObjectID) bool {
	for _, s := range p.SharedWith {
		if s.User == userID {
			return true
		}
	}
	return false
}
