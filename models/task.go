package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type ChecklistItem struct {
	Completed        bool   `json:"completed" bson:"completed"`
	ShortDescription string `json:"shortDescription" bson:"shortDescription"`
	LongDescription  string `json:"longDescription,omitempty" bson:"longDescription,omitempty"`
}

type TaskText struct {
	ShortDescription string `json:"shortDescription" bson:"shortDescription"`
	LongDescription  string `json:"longDescription,omitempty" bson:"longDescription,omitempty"`
}

// Task is embedded in a Project document. Parent links tasks of the same
// project into a tree; HierarchyLevel is the caller-declared depth and is
// never derived from Parent.
type Task struct {
	ID             primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Title          string              `json:"title" bson:"title"`
	Description    string              `json:"description" bson:"description"`
	Text           TaskText            `json:"text" bson:"text"`
	Checklist      []ChecklistItem     `json:"checklist" bson:"checklist"`
	Status         Status              `json:"status" bson:"status"`
	Priority       Priority            `json:"priority" bson:"priority"`
	Parent         *primitive.ObjectID `json:"parent,omitempty" bson:"parent,omitempty"`
	HierarchyLevel int                 `json:"hierarchyLevel" bson:"hierarchyLevel"`
}
