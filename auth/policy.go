package auth

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lugerh/TaskTree-API/models"
)

// Caller is the identity resolved from a request credential.
type Caller struct {
	ID       primitive.ObjectID
	Username string
	Role     models.Role
}

// Action enumerates everything the policy can be asked about.
type Action int

const (
	// MutateProject covers update, delete, share management and every
	// objective/task mutation on a project.
	MutateProject Action = iota
	ListProjects
	ListGroups
	ListUsers
	CreateGroup
	AddGroupMember
)

// Authorize is the pure access decision: no side effects, no store access.
// project may be nil for actions that are not project-scoped. Rules in
// priority order: Admin may do everything; project mutations are allowed for
// the owner; group creation and the list endpoints are Admin-only; a
// GroupAdmin may additionally add members to a group.
func Authorize(caller Caller, action Action, project *models.Project) bool {
	if caller.Role == models.RoleAdmin {
		return true
	}

	switch action {
	case MutateProject:
		return project != nil && caller.ID == project.Owner
	case AddGroupMember:
		return caller.Role == models.RoleGroupAdmin
	}

	return false
}
