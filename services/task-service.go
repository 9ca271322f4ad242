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

// Tasks are the second embedded collection of the project aggregate. They
// form a tree through Parent links; HierarchyLevel is whatever depth the
// caller declared and is not checked against Parent here.

// AddTask appends a new task. Text and checklist default to empty, status
// and priority to Pending/Medium.
func (s *ProjectService) AddTask(ctx context.Context, caller auth.Caller, projectID primitive.ObjectID, task models.Task) (*models.Project, error) {
	if strings.TrimSpace(task.Title) == "" {
		return nil, errs.Invalid("task title is required")
	}
	if strings.TrimSpace(task.Description) == "" {
		return nil, errs.Invalid("task description is required")
	}
	if task.HierarchyLevel < 0 {
		return nil, errs.Invalid("hierarchyLevel must be non-negative")
	}
	if task.Checklist == nil {
		task.Checklist = []models.ChecklistItem{}
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if !task.Status.Valid() {
		return nil, errs.Invalid("unknown task status")
	}
	if !task.Priority.Valid() {
		return nil, errs.Invalid("unknown task priority")
	}

	project, err := s.loadOwnedProject(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}

	task.ID = primitive.NewObjectID()
	project.Tasks = append(project.Tasks, task)

	if err := s.saveProject(ctx, project); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_ADDED, Description: Task '%s' added to project %s", task.Title, projectID.Hex())
	return project, nil
}

// UpdateTask merges the patch onto the matching task.
func (s *ProjectService) UpdateTask(ctx context.Context, caller auth.Caller, projectID, taskID primitive.ObjectID, patch models.TaskPatch) (*models.Project, error) {
	if !patch.Validate() {
		return nil, errs.Invalid("task patch carries an invalid field value")
	}

	project, err := s.loadOwnedProject(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}

	index := findTask(project, taskID)
	if index == -1 {
		return nil, errs.NotFound("task")
	}

	patch.Apply(&project.Tasks[index])

	if err := s.saveProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteTask removes the matching task, preserving the order of the rest.
// Unlike objectives, a missing task is reported through the found flag and
// not as an error; the handler answers not-found without treating it as a
// failure.
func (s *ProjectService) DeleteTask(ctx context.Context, caller auth.Caller, projectID, taskID primitive.ObjectID) (bool, error) {
	project, err := s.loadOwnedProject(ctx, caller, projectID)
	if err != nil {
		return false, err
	}

	index := findTask(project, taskID)
	if index == -1 {
		return false, nil
	}

	project.Tasks = append(project.Tasks[:index], project.Tasks[index+1:]...)

	if err := s.saveProject(ctx, project); err != nil {
		return false, err
	}
	return true, nil
}

func findTask(project *models.Project, taskID primitive.ObjectID) int {
	for i := range project.Tasks {
		if project.Tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}
