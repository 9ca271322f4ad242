package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lugerh/TaskTree-API/auth"
	"github.com/lugerh/TaskTree-API/errs"
	"github.com/lugerh/TaskTree-API/logging"
	"github.com/lugerh/TaskTree-API/models"
)

// Objectives live embedded in the project document; every operation here is
// a load-mutate-save of the whole project.

// AddObjective appends a new objective to the project. Status and priority
// default to Pending/Medium when the caller leaves them empty.
func (s *ProjectService) AddObjective(ctx context.Context, caller auth.Caller, projectID primitive.ObjectID, objective models.Objective) (*models.Project, error) {
	if strings.TrimSpace(objective.Title) == "" {
		return nil, errs.Invalid("objective title is required")
	}
	if strings.TrimSpace(objective.Description) == "" {
		return nil, errs.Invalid("objective description is required")
	}
	if objective.Status == "" {
		objective.Status = models.StatusPending
	}
	if objective.Priority == "" {
		objective.Priority = models.PriorityMedium
	}
	if !objective.Status.Valid() {
		return nil, errs.Invalid("unknown objective status")
	}
	if !objective.Priority.Valid() {
		return nil, errs.Invalid("unknown objective priority")
	}

	project, err := s.loadOwnedProject(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}

	objective.ID = primitive.NewObjectID()
	project.Objectives = append(project.Objectives, objective)

	if err := s.saveProject(ctx, project); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: OBJECTIVE_ADDED, Description: Objective '%s' added to project %s", objective.Title, projectID.Hex())
	return project, nil
}

// UpdateObjective merges the patch onto the matching objective. Fields
// absent from the patch are untouched.
func (s *ProjectService) UpdateObjective(ctx context.Context, caller auth.Caller, projectID, objectiveID primitive.ObjectID, patch models.ObjectivePatch) (*models.Project, error) {
	if !patch.Validate() {
		return nil, errs.Invalid("objective patch carries an unknown enum value")
	}

	project, err := s.loadOwnedProject(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}

	index := findObjective(project, objectiveID)
	if index == -1 {
		return nil, errs.NotFound("objective")
	}

	patch.Apply(&project.Objectives[index])

	if err := s.saveProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteObjective removes the matching objective, preserving the order of
// the rest. A missing objective is an error.
func (s *ProjectService) DeleteObjective(ctx context.Context, caller auth.Caller, projectID, objectiveID primitive.ObjectID) error {
	project, err := s.loadOwnedProject(ctx, caller, projectID)
	if err != nil {
		return err
	}

	index := findObjective(project, objectiveID)
	if index == -1 {
		return errs.NotFound("objective")
	}

	project.Objectives = append(project.Objectives[:index], project.Objectives[index+1:]...)

	return s.saveProject(ctx, project)
}

func findObjective(project *models.Project, objectiveID primitive.ObjectID) int {
	for i := range project.Objectives {
		if project.Objectives[i].ID == objectiveID {
			return i
		}
	}
	return -1
}
