package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lugerh/TaskTree-API/auth"
	"github.com/lugerh/TaskTree-API/db"
	"github.com/lugerh/TaskTree-API/errs"
	"github.com/lugerh/TaskTree-API/logging"
	"github.com/lugerh/TaskTree-API/models"
)

// ProjectService owns the project aggregate: CRUD, the sharing engine and
// the embedded objective/task collections. Every mutation loads the full
// document, changes it in memory and writes it back with a version check.
type ProjectService struct {
	Store  db.Store
	Groups *GroupService
}

func NewProjectService(store db.Store, groups *GroupService) *ProjectService {
	return &ProjectService{Store: store, Groups: groups}
}

// CreateProject creates a project owned by the caller. The owner is set once
// here and no mutation path changes it afterwards.
func (s *ProjectService) CreateProject(ctx context.Context, caller auth.Caller, project models.Project) (*models.Project, error) {
	if strings.TrimSpace(project.Title) == "" {
		return nil, errs.Invalid("project title is required")
	}
	if strings.TrimSpace(project.Description) == "" {
		return nil, errs.Invalid("project description is required")
	}
	if strings.TrimSpace(project.Text) == "" {
		return nil, errs.Invalid("project text is required")
	}

	project.ID = primitive.NilObjectID
	project.Owner = caller.ID
	project.SharedGroup = nil
	project.SharedWith = []models.SharedUser{}
	if project.Objectives == nil {
		project.Objectives = []models.Objective{}
	}
	if project.Tasks == nil {
		project.Tasks = []models.Task{}
	}
	project.Version = 1

	id, err := s.Store.Insert(ctx, db.CollProjects, project)
	if err != nil {
		return nil, err
	}
	project.ID = id

	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project '%s' created by %s", project.Title, caller.Username)
	return &project, nil
}

// GetAllProjects lists every project. Admin only.
func (s *ProjectService) GetAllProjects(ctx context.Context, caller auth.Caller) ([]models.Project, error) {
	if !auth.Authorize(caller, auth.ListProjects, nil) {
		return nil, errs.Forbidden("not authorized to list projects")
	}

	var projects []models.Project
	if err := s.Store.Find(ctx, db.CollProjects, bson.M{}, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProjectByID fetches one project document.
func (s *ProjectService) GetProjectByID(ctx context.Context, projectID primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	if err := s.Store.FindByID(ctx, db.CollProjects, projectID, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject applies a patch to the project's own fields.
func (s *ProjectService) UpdateProject(ctx context.Context, caller auth.Caller, projectID primitive.ObjectID, patch models.ProjectPatch) (*models.Project, error) {
	project, err := s.loadOwnedProject(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}

	patch.Apply(project)
	if err := s.saveProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes the project document, embedded objectives and tasks
// included.
func (s *ProjectService) DeleteProject(ctx context.Context, caller auth.Caller, projectID primitive.ObjectID) (*models.Project, error) {
	project, err := s.loadOwnedProject(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.Store.DeleteByID(ctx, db.CollProjects, projectID); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project '%s' deleted by %s", project.Title, caller.Username)
	return project, nil
}

// loadOwnedProject loads a project and checks the caller may mutate it. All
// preconditions run before any in-memory state is touched, so a failure
// leaves nothing half-applied.
func (s *ProjectService) loadOwnedProject(ctx context.Context, caller auth.Caller, projectID primitive.ObjectID) (*models.Project, error) {
	project, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !auth.Authorize(caller, auth.MutateProject, project) {
		return nil, errs.Forbidden("not authorized to modify this project")
	}
	return project, nil
}

// saveProject writes the whole project document back, guarded by the version
// the document was loaded with. A concurrent writer bumps the version first
// and the replace matches nothing, which surfaces as a conflict instead of a
// lost update.
func (s *ProjectService) saveProject(ctx context.Context, project *models.Project) error {
	loadedVersion := project.Version
	project.Version++

	matched, err := s.Store.Replace(ctx, db.CollProjects, bson.M{"_id": project.ID, "version": loadedVersion}, project)
	if err != nil {
		project.Version = loadedVersion
		return err
	}
	if matched == 0 {
		project.Version = loadedVersion
		return fmt.Errorf("project was modified concurrently: %w", errs.ErrConflict)
	}
	return nil
}
