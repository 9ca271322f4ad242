package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lugerh/TaskTree-API/models"
	"github.com/lugerh/TaskTree-API/services"
)

// ObjectiveHandler exposes the embedded objective operations.
type ObjectiveHandler struct {
	Service *services.ProjectService
}

func NewObjectiveHandler(service *services.ProjectService) *ObjectiveHandler {
	return &ObjectiveHandler{Service: service}
}

// CreateObjective handles POST /api/project/objective/new.
func (h *ObjectiveHandler) CreateObjective(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		ProjectID   string          `json:"projectId"`
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Text        string          `json:"text"`
		Status      models.Status   `json:"status"`
		Priority    models.Priority `json:"priority"`
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

	objective := models.Objective{
		Title:       req.Title,
		Description: req.Description,
		Text:        req.Text,
		Status:      req.Status,
		Priority:    req.Priority,
	}

	project, err := h.Service.AddObjective(r.Context(), caller, projectID, objective)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Objective added successfully",
		"project": project,
	})
}

// UpdateObjective handles POST /api/project/objective/update.
func (h *ObjectiveHandler) UpdateObjective(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		ProjectID   string          `json:"projectId"`
		ObjectiveID string          `json:"objectiveId"`
		UpdateData  json.RawMessage `json:"updateData"`
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
	objectiveID, err := parseObjectID(req.ObjectiveID, "objective ID")
	if err != nil {
		writeError(w, err)
		return
	}

	var patch models.ObjectivePatch
	if err := decodePatch(req.UpdateData, &patch); err != nil {
		writeError(w, err)
		return
	}

	project, err := h.Service.UpdateObjective(r.Context(), caller, projectID, objectiveID, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Objective updated successfully",
		"project": project,
	})
}

// DeleteObjective handles POST /api/project/objective/delete.
func (h *ObjectiveHandler) DeleteObjective(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		ProjectID   string `json:"projectId"`
		ObjectiveID string `json:"objectiveId"`
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
	objectiveID, err := parseObjectID(req.ObjectiveID, "objective ID")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Service.DeleteObjective(r.Context(), caller, projectID, objectiveID); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Objective deleted successfully")
}
