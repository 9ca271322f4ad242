package handlers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lugerh/TaskTree-API/auth"
	"github.com/lugerh/TaskTree-API/errs"
	"github.com/lugerh/TaskTree-API/services"
)

type UserHandler struct {
	Service *services.UserService
	Groups  *services.GroupService
}

func NewUserHandler(service *services.UserService, groups *services.GroupService) *UserHandler {
	return &UserHandler{Service: service, Groups: groups}
}

// Register handles POST /api/user/register. No authentication required.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.Service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/user/login. On success the token is returned in
// the body and set as an httpOnly cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	_, token, err := h.Service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Login successful!",
		"token":   token,
	})
}

// ListUsers handles POST /api/user/get.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	users, err := h.Service.GetAllUsers(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUserGroups handles POST /api/user/getGroups: the groups the caller
// belongs to, as id/name pairs.
func (h *UserHandler) GetUserGroups(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if !auth.Authorize(caller, auth.ListGroups, nil) {
		writeError(w, errs.Forbidden("not authorized to list groups"))
		return
	}

	groups, err := h.Groups.GroupsContaining(r.Context(), caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	type groupRef struct {
		ID   primitive.ObjectID `json:"id"`
		Name string             `json:"name"`
	}
	refs := []groupRef{}
	for _, g := range groups {
		refs = append(refs, groupRef{ID: g.ID, Name: g.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": refs})
}

// GetConfig handles POST /api/user/config/get.
func (h *UserHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	config, err := h.Service.GetConfig(r.Context(), caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, config)
}

// SetConfig handles POST /api/user/config/set: the body keys are merged
// onto the caller's configuration.
func (h *UserHandler) SetConfig(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var patch map[string]any
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	config, err := h.Service.SetConfig(r.Context(), caller.ID, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Configuration updated",
		"config":  config,
	})
}

// ResetConfig handles POST /api/user/config/reset.
func (h *UserHandler) ResetConfig(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	config, err := h.Service.ResetConfig(r.Context(), caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Configuration reset",
		"config":  config,
	})
}
