package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lugerh/TaskTree-API/models"
	"github.com/lugerh/TaskTree-API/services"
)

type ProjectHandler struct {
	Service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{Service: service}
}

// ListProjects handles POST /api/project/get.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	projects, err := h.Service.GetAllProjects(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// CreateProject handles POST /api/project/new.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var project models.Project
	if err := decodeBody(r, &project); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.Service.CreateProject(r.Context(), caller, project)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateProject handles POST /api/project/update.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		ProjectID  string          `json:"projectId"`
		UpdateData json.RawMessage `json:"updateData"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	projectID, err := parseObjectID(req.ProjectID, "project ID")
	if err != nil {
		writeError(w, err)
		return
	}

	var patch models.ProjectPatch
	if err := decodePatch(req.UpdateData, &patch); err != nil {
		writeError(w, err)
		return
	}

	project, err := h.Service.UpdateProject(r.Context(), caller, projectID, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Project updated successfully",
		"project": project,
	})
}

// DeleteProject handles POST /api/project/delete.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		ProjectID string `json:"projectId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	projectID, err := parseObjectID(req.ProjectID, "project ID")
	if err != nil {
		writeError(w, err)
		return
	}

	project, err := h.Service.DeleteProject(r.Context(), caller, projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Project deleted successfully",
		"project": project,
	})
}
