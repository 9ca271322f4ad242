package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lugerh/TaskTree-API/auth"
	"github.com/lugerh/TaskTree-API/db"
	"github.com/lugerh/TaskTree-API/models"
)

type testEnv struct {
	store    *db.MemStore
	groups   *GroupService
	projects *ProjectService
	users    *UserService
}

func newTestEnv() *testEnv {
	store := db.NewMemStore()
	groups := NewGroupService(store)
	return &testEnv{
		store:    store,
		groups:   groups,
		projects: NewProjectService(store, groups),
		users:    NewUserService(store),
	}
}

func (e *testEnv) seedUser(t *testing.T, username string, role models.Role) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
		Groups:   []primitive.ObjectID{},
		Role:     role,
		Config:   models.DefaultConfig(),
	}
	id, err := e.store.Insert(context.Background(), db.CollUsers, user)
	require.NoError(t, err)
	user.ID = id
	return user
}

func (e *testEnv) seedGroup(t *testing.T, name string, members ...primitive.ObjectID) models.Group {
	t.Helper()
	if members == nil {
		members = []primitive.ObjectID{}
	}
	group := models.Group{Name: name, Members: members}
	id, err := e.store.Insert(context.Background(), db.CollGroups, group)
	require.NoError(t, err)
	group.ID = id
	return group
}

func (e *testEnv) seedProject(t *testing.T, owner primitive.ObjectID) models.Project {
	t.Helper()
	project := models.Project{
		Title:       "Garden overhaul",
		Description: "Replanting the back garden",
		Text:        "Full narrative",
		Objectives:  []models.Objective{},
		Tasks:       []models.Task{},
		Owner:       owner,
		SharedWith:  []models.SharedUser{},
		Version:     1,
	}
	id, err := e.store.Insert(context.Background(), db.CollProjects, project)
	require.NoError(t, err)
	project.ID = id
	return project
}

func (e *testEnv) reloadProject(t *testing.T, id primitive.ObjectID) *models.Project {
	t.Helper()
	project, err := e.projects.GetProjectByID(context.Background(), id)
	require.NoError(t, err)
	return project
}

func asCaller(user models.User) auth.Caller {
	return auth.Caller{ID: user.ID, Username: user.Username, Role: user.Role}
}

// failingFindOneStore simulates a store outage on lookups.
type failingFindOneStore struct {
	db.Store
	err error
}

func (s failingFindOneStore) FindOne(ctx context.Context, collection string, filter bson.M, out any) error {
	return s.err
}
