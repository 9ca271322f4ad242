package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lugerh/TaskTree-API/auth"
	"github.com/lugerh/TaskTree-API/db"
	"github.com/lugerh/TaskTree-API/errs"
	"github.com/lugerh/TaskTree-API/logging"
	"github.com/lugerh/TaskTree-API/models"
)

// CandidateUser is one user a project could be shared with.
type CandidateUser struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
}

// ShareCandidates is the answer to "who can this project be shared with":
// the backing group plus its member list.
type ShareCandidates struct {
	GroupID *primitive.ObjectID `json:"groupId"`
	Users   []CandidateUser     `json:"users"`
}

// SharedUserView is one sharedWith entry joined against the user record for
// display.
type SharedUserView struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Role     models.ShareRole   `json:"role"`
}

// ValidShareCandidates computes the users a project may be shared with. A
// shared project is bound to its backing group, so the candidates are that
// group's members. An unshared one draws from every group the caller belongs
// to: members are unioned and deduped, the caller themselves is excluded,
// and the first group encountered is reported as the candidate groupId.
func (s *ProjectService) ValidShareCandidates(ctx context.Context, caller auth.Caller, projectID primitive.ObjectID) (*ShareCandidates, error) {
	project, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	candidates := &ShareCandidates{Users: []CandidateUser{}}

	if project.IsShared() {
		group, err := s.Groups.GetGroup(ctx, *project.SharedGroup)
		if err != nil {
			return nil, err
		}
		candidates.GroupID = &group.ID
		candidates.Users, err = s.resolveUsers(ctx, group.Members)
		if err != nil {
			return nil, err
		}
		return candidates, nil
	}

	groups, err := s.Groups.GroupsContaining(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	var memberIDs []primitive.ObjectID
	seen := map[primitive.ObjectID]bool{caller.ID: true}
	for i := range groups {
		if candidates.GroupID == nil {
			candidates.GroupID = &groups[i].ID
		}
		for _, m := range groups[i].Members {
			if !seen[m] {
				seen[m] = true
				memberIDs = append(memberIDs, m)
			}
		}
	}

	candidates.Users, err = s.resolveUsers(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// ListShares joins the sharedWith entries against the user collection.
// Entries whose user no longer resolves are dropped from the listing; the
// share itself is untouched.
func (s *ProjectService) ListShares(ctx context.Context, projectID primitive.ObjectID) ([]SharedUserView, error) {
	project, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	views := []SharedUserView{}
	for _, shared := range project.SharedWith {
		var user models.User
		if err := s.Store.FindByID(ctx, db.CollUsers, shared.User, &user); err != nil {
			continue
		}
		views = append(views, SharedUserView{
			ID:       user.ID,
			Username: user.Username,
			Role:     shared.Role,
		})
	}
	return views, nil
}

// AddShare grants userID access to the project with the given role. The
// effective group is the project's backing group when one is set; otherwise
// groupID from the request backs the share and the project transitions to
// shared. The user must belong to the effective group and must not already
// hold a share.
func (s *ProjectService) AddShare(ctx context.Context, caller auth.Caller, projectID primitive.ObjectID, groupID *primitive.ObjectID, userID primitive.ObjectID, role models.ShareRole) error {
	if !role.Valid() {
		return errs.Invalid("share role must be Read or ReadWrite")
	}

	project, err := s.loadOwnedProject(ctx, caller, projectID)
	if err != nil {
		return err
	}

	effectiveGroup := project.SharedGroup
	if effectiveGroup == nil {
		effectiveGroup = groupID
	}
	if effectiveGroup == nil {
		return errs.NotFound("group")
	}

	group, err := s.Groups.GetGroup(ctx, *effectiveGroup)
	if err != nil {
		return err
	}

	if !group.HasMember(userID) {
		return errs.ErrUserNotInGroup
	}
	if project.IsSharedWith(userID) {
		return errs.ErrAlreadyShared
	}

	if len(project.SharedWith) == 0 {
		project.SharedGroup = &group.ID
	}
	project.SharedWith = append(project.SharedWith, models.SharedUser{User: userID, Role: role})

	if err := s.saveProject(ctx, project); err != nil {
		return err
	}

	logging.Logger.Infof("Event ID: PROJECT_SHARED, Description: Project %s shared with user %s as %s", projectID.Hex(), userID.Hex(), role)
	return nil
}

// ChangeGroup swaps the backing group of the project's sharing state. A nil
// groupID unshares the project entirely. Any existing shares are dropped in
// both cases: they were validated against the old group and mean nothing
// under the new one.
func (s *ProjectService) ChangeGroup(ctx context.Context, caller auth.Caller, projectID primitive.ObjectID, groupID *primitive.ObjectID) error {
	project, err := s.loadOwnedProject(ctx, caller, projectID)
	if err != nil {
		return err
	}

	if groupID == nil {
		project.SharedGroup = nil
		project.SharedWith = []models.SharedUser{}
	} else {
		project.SharedGroup = groupID
		if len(project.SharedWith) > 0 {
			project.SharedWith = []models.SharedUser{}
		}
	}

	return s.saveProject(ctx, project)
}

// RemoveShare revokes userID's share. Removing a user who holds no share is
// a no-op. When the last share goes away the backing group is cleared and
// the project is unshared again.
func (s *ProjectService) RemoveShare(ctx context.Context, caller auth.Caller, projectID, userID primitive.ObjectID) error {
	project, err := s.loadOwnedProject(ctx, caller, projectID)
	if err != nil {
		return err
	}

	remaining := project.SharedWith[:0]
	for _, shared := range project.SharedWith {
		if shared.User != userID {
			remaining = append(remaining, shared)
		}
	}
	project.SharedWith = remaining

	if len(project.SharedWith) == 0 {
		project.SharedGroup = nil
		project.SharedWith = []models.SharedUser{}
	}

	return s.saveProject(ctx, project)
}

func (s *ProjectService) resolveUsers(ctx context.Context, ids []primitive.ObjectID) ([]CandidateUser, error) {
	if len(ids) == 0 {
		return []CandidateUser{}, nil
	}

	var users []models.User
	if err := s.Store.Find(ctx, db.CollUsers, bson.M{"_id": bson.M{"$in": ids}}, &users); err != nil {
		return nil, err
	}

	// Preserve the incoming member order rather than the store's.
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	candidates := []CandidateUser{}
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			candidates = append(candidates, CandidateUser{ID: u.ID, Username: u.Username})
		}
	}
	return candidates, nil
}
