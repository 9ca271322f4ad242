package handlers

import (
	"net/http"

	"github.com/lugerh/TaskTree-API/services"
)

type GroupHandler struct {
	Service *services.GroupService
}

func NewGroupHandler(service *services.GroupService) *GroupHandler {
	return &GroupHandler{Service: service}
}

// ListGroups handles POST /api/group/get.
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	groups, err := h.Service.GetAllGroups(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// CreateGroup handles POST /api/group/new.
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := h.Service.CreateGroup(r.Context(), caller, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

// AddMember handles POST /api/group/addMember.
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		GroupID string `json:"groupId"`
		UserID  string `json:"userId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	groupID, err := parseObjectID(req.GroupID, "group ID")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := parseObjectID(req.UserID, "user ID")
	if err != nil {
		writeError(w, err)
		return
	}

	group, err := h.Service.AddMember(r.Context(), caller, groupID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}
