package handlers

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lugerh/TaskTree-API/models"
	"github.com/lugerh/TaskTree-API/services"
)

// TaskHandler exposes the embedded task operations.
type TaskHandler struct {
	Service *services.ProjectService
}

func NewTaskHandler(service *services.ProjectService) *TaskHandler {
	return &TaskHandler{Service: service}
}

// CreateTask handles POST /api/project/task/new.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		ProjectID      string                 `json:"projectId"`
		Title          string                 `json:"title"`
		Description    string                 `json:"description"`
		Text           models.TaskText        `json:"text"`
		Checklist      []models.ChecklistItem `json:"checklist"`
		Status         models.Status          `json:"status"`
		Priority       models.Priority        `json:"priority"`
		Parent         *primitive.ObjectID    `json:"parent,omitempty"`
		HierarchyLevel int                    `json:"hierarchyLevel"`
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

	task := models.Task{
		Title:          req.Title,
		Description:    req.Description,
		Text:           req.Text,
		Checklist:      req.Checklist,
		Status:         req.Status,
		Priority:       req.Priority,
		Parent:         req.Parent,
		HierarchyLevel: req.HierarchyLevel,
	}

	project, err := h.Service.AddTask(r.Context(), caller, projectID, task)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Task added successfully",
		"project": project,
	})
}

// UpdateTask handles POST /api/project/task/update.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		ProjectID  string          `json:"projectId"`
		TaskID     string          `json:"taskId"`
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
	taskID, err := parseObjectID(req.TaskID, "task ID")
	if err != nil {
		writeError(w, err)
		return
	}

	var patch models.TaskPatch
	if err := decodePatch(req.UpdateData, &patch); err != nil {
		writeError(w, err)
		return
	}

	project, err := h.Service.UpdateTask(r.Context(), caller, projectID, taskID, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Task updated successfully",
		"project": project,
	})
}

// DeleteTask handles POST /api/project/task/delete. A task that is already
// gone answers not-found but is not treated as a failure.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		ProjectID string `json:"projectId"`
		TaskID    string `json:"taskId"`
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
	taskID, err := parseObjectID(req.TaskID, "task ID")
	if err != nil {
		writeError(w, err)
		return
	}

	found, err := h.Service.DeleteTask(r.Context(), caller, projectID, taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeMessage(w, http.StatusNotFound, "Task not found")
		return
	}
	writeMessage(w, http.StatusOK, "Task deleted successfully")
}
