package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Patch types list only the mutable fields of an entity. A nil field means
// "leave untouched"; handlers decode them with DisallowUnknownFields so a
// stray field is rejected instead of silently dropped.

// ProjectPatch covers the fields an owner may change through update. Owner
// and the sharing state are deliberately absent: owner is immutable and
// sharing is mutated only through the share operations.
type ProjectPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Text        *string `json:"text,omitempty"`
}

func (p *ProjectPatch) Apply(project *Project) {
	if p.Title != nil {
		project.Title = *p.Title
	}
	if p.Description != nil {
		project.Description = *p.Description
	}
	if p.Text != nil {
		project.Text = *p.Text
	}
}

type ObjectivePatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Text        *string   `json:"text,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
}

func (p *ObjectivePatch) Apply(o *Objective) {
	if p.Title != nil {
		o.Title = *p.Title
	}
	if p.Description != nil {
		o.Description = *p.Description
	}
	if p.Text != nil {
		o.Text = *p.Text
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.Priority != nil {
		o.Priority = *p.Priority
	}
}

// Validate reports whether every enum field carries a known literal.
func (p *ObjectivePatch) Validate() bool {
	if p.Status != nil && !p.Status.Valid() {
		return false
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return false
	}
	return true
}

type TaskPatch struct {
	Title          *string             `json:"title,omitempty"`
	Description    *string             `json:"description,omitempty"`
	Text           *TaskText           `json:"text,omitempty"`
	Checklist      *[]ChecklistItem    `json:"checklist,omitempty"`
	Status         *Status             `json:"status,omitempty"`
	Priority       *Priority           `json:"priority,omitempty"`
	Parent         *primitive.ObjectID `json:"parent,omitempty"`
	HierarchyLevel *int                `json:"hierarchyLevel,omitempty"`
}

func (p *TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Checklist != nil {
		t.Checklist = *p.Checklist
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Parent != nil {
		t.Parent = p.Parent
	}
	if p.HierarchyLevel != nil {
		t.HierarchyLevel = *p.HierarchyLevel
	}
}

func (p *TaskPatch) Validate() bool {
	if p.Status != nil && !p.Status.Valid() {
		return false
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return false
	}
	if p.HierarchyLevel != nil && *p.HierarchyLevel < 0 {
		return false
	}
	return true
}
