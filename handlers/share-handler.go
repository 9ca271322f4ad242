package handlers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lugerh/TaskTree-API/models"
	"github.com/lugerh/TaskTree-API/services"
)

// ShareHandler exposes the project sharing operations.
type ShareHandler struct {
	Service *services.ProjectService
}

func NewShareHandler(service *services.ProjectService) *ShareHandler {
	return &ShareHandler{Service: service}
}

// GetValidShareUsers handles POST /api/project/share/getValid.
func (h *ShareHandler) GetValidShareUsers(w http.ResponseWriter, r *http.Request) {
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

	candidates, err := h.Service.ValidShareCandidates(r.Context(), caller, projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}

// GetSharedUsers handles POST /api/project/share/getJoin.
func (h *ShareHandler) GetSharedUsers(w http.ResponseWriter, r *http.Request) {
	if _, err := callerFrom(r); err != nil {
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

	shared, err := h.Service.ListShares(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sharedUsers": shared})
}

// AddShare handles POST /api/project/share/add.
func (h *ShareHandler) AddShare(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		ProjectID string           `json:"projectId"`
		GroupID   string           `json:"groupId"`
		UserID    string           `json:"userId"`
		Role      models.ShareRole `json:"role"`
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
	userID, err := parseObjectID(req.UserID, "user ID")
	if err != nil {
		writeError(w, err)
		return
	}
	groupID, err := parseOptionalObjectID(req.GroupID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Service.AddShare(r.Context(), caller, projectID, groupID, userID, req.Role); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Project shared successfully")
}

// ChangeGroup handles POST /api/project/share/changeGroup. An empty groupId
// unshares the project.
func (h *ShareHandler) ChangeGroup(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		ProjectID string `json:"projectId"`
		GroupID   string `json:"groupId"`
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
	groupID, err := parseOptionalObjectID(req.GroupID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Service.ChangeGroup(r.Context(), caller, projectID, groupID); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Project group updated successfully")
}

// RemoveShare handles POST /api/project/share/delete.
func (h *ShareHandler) RemoveShare(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		ProjectID string `json:"projectId"`
		UserID    string `json:"userId"`
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
	userID, err := parseObjectID(req.UserID, "user ID")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Service.RemoveShare(r.Context(), caller, projectID, userID); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "User removed from project")
}

func parseOptionalObjectID(hex string) (*primitive.ObjectID, error) {
	if hex == "" {
		return nil, nil
	}
	id, err := parseObjectID(hex, "group ID")
	if err != nil {
		return nil, err
	}
	return &id, nil
}
