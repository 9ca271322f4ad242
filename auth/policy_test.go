package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lugerh/TaskTree-API/models"
)

func TestAuthorize(t *testing.T) {
	owner := Caller{ID: primitive.NewObjectID(), Role: models.RoleUser}
	stranger := Caller{ID: primitive.NewObjectID(), Role: models.RoleUser}
	groupAdmin := Caller{ID: primitive.NewObjectID(), Role: models.RoleGroupAdmin}
	admin := Caller{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	project := &models.Project{ID: primitive.NewObjectID(), Owner: owner.ID}

	tests := []struct {
		name    string
		caller  Caller
		action  Action
		project *models.Project
		want    bool
	}{
		{"admin may do anything", admin, MutateProject, project, true},
		{"admin lists users", admin, ListUsers, nil, true},
		{"owner mutates own project", owner, MutateProject, project, true},
		{"stranger cannot mutate", stranger, MutateProject, project, false},
		{"owner role does not list projects", owner, ListProjects, nil, false},
		{"groupadmin adds members", groupAdmin, AddGroupMember, nil, true},
		{"plain user does not add members", stranger, AddGroupMember, nil, false},
		{"groupadmin cannot create groups", groupAdmin, CreateGroup, nil, false},
		{"groupadmin cannot list groups", groupAdmin, ListGroups, nil, false},
		{"nil project denies mutation", owner, MutateProject, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.caller, tt.action, tt.project))
		})
	}
}
