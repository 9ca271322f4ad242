package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lugerh/TaskTree-API/errs"
	"github.com/lugerh/TaskTree-API/models"
)

func TestAddObjectiveAppliesDefaults(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	alice := env.seedUser(t, "alice", models.RoleUser)
	project := env.seedProject(t, alice.ID)

	updated, err := env.projects.AddObjective(ctx, asCaller(alice), project.ID, models.Objective{
		Title:       "Clear the beds",
		Description: "Remove last season's planting",
		Text:        "Notes",
	})
	require.NoError(t, err)
	require.Len(t, updated.Objectives, 1)

	objective := updated.Objectives[0]
	assert.False(t, objective.ID.IsZero())
	assert.Equal(t, models.StatusPending, objective.Status)
	assert.Equal(t, models.PriorityMedium, objective.Priority)
}

func TestAddObjectiveValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	alice := env.seedUser(t, "alice", models.RoleUser)
	project := env.seedProject(t, alice.ID)

	_, err := env.projects.AddObjective(ctx, asCaller(alice), project.ID, models.Objective{Description: "no title"})
	assert.ErrorIs(t, err, errs.ErrInvalid)

	_, err = env.projects.AddObjective(ctx, asCaller(alice), project.ID, models.Objective{
		Title:       "t",
		Description: "d",
		Status:      "Done", // not a known literal
	})
	assert.ErrorIs(t, err, errs.ErrInvalid)
}

// Create-then-patch round trip: the patched field changes, everything else
// keeps its post-create value.
func TestUpdateObjectivePatchMerge(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	alice := env.seedUser(t, "alice", models.RoleUser)
	project := env.seedProject(t, alice.ID)

	updated, err := env.projects.AddObjective(ctx, asCaller(alice), project.ID, models.Objective{
		Title:       "Clear the beds",
		Description: "Remove last season's planting",
		Text:        "Notes",
		Priority:    models.PriorityHigh,
	})
	require.NoError(t, err)
	created := updated.Objectives[0]

	completed := models.StatusCompleted
	updated, err = env.projects.UpdateObjective(ctx, asCaller(alice), project.ID, created.ID, models.ObjectivePatch{
		Status: &completed,
	})
	require.NoError(t, err)

	patched := updated.Objectives[0]
	assert.Equal(t, models.StatusCompleted, patched.Status)
	assert.Equal(t, created.Title, patched.Title)
	assert.Equal(t, created.Description, patched.Description)
	assert.Equal(t, created.Text, patched.Text)
	assert.Equal(t, created.Priority, patched.Priority)
	assert.Equal(t, created.ID, patched.ID)
}

func TestUpdateObjectiveNotFound(t *testing.T) {
	env := newTestEnv()
	alice := env.seedUser(t, "alice", models.RoleUser)
	project := env.seedProject(t, alice.ID)

	title := "x"
	_, err := env.projects.UpdateObjective(context.Background(), asCaller(alice), project.ID, primitive.NewObjectID(), models.ObjectivePatch{Title: &title})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDeleteObjectivePreservesOrder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	alice := env.seedUser(t, "alice", models.RoleUser)
	project := env.seedProject(t, alice.ID)

	titles := []string{"first", "second", "third"}
	var ids []primitive.ObjectID
	for _, title := range titles {
		updated, err := env.projects.AddObjective(ctx, asCaller(alice), project.ID, models.Objective{
			Title:       title,
			Description: "d",
			Text:        "t",
		})
		require.NoError(t, err)
		ids = append(ids, updated.Objectives[len(updated.Objectives)-1].ID)
	}

	require.NoError(t, env.projects.DeleteObjective(ctx, asCaller(alice), project.ID, ids[1]))

	stored := env.reloadProject(t, project.ID)
	require.Len(t, stored.Objectives, 2)
	assert.Equal(t, "first", stored.Objectives[0].Title)
	assert.Equal(t, "third", stored.Objectives[1].Title)
}

func TestDeleteObjectiveMissingIsError(t *testing.T) {
	env := newTestEnv()
	alice := env.seedUser(t, "alice", models.RoleUser)
	project := env.seedProject(t, alice.ID)

	err := env.projects.DeleteObjective(context.Background(), asCaller(alice), project.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestObjectiveMutationsRequireOwnership(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	alice := env.seedUser(t, "alice", models.RoleUser)
	mallory := env.seedUser(t, "mallory", models.RoleUser)
	project := env.seedProject(t, alice.ID)

	_, err := env.projects.AddObjective(ctx, asCaller(mallory), project.ID, models.Objective{
		Title:       "t",
		Description: "d",
		Text:        "x",
	})
	assert.ErrorIs(t, err, errs.ErrForbidden)

	// Nothing was persisted.
	assert.Empty(t, env.reloadProject(t, project.ID).Objectives)
}
