package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lugerh/TaskTree-API/auth"
	"github.com/lugerh/TaskTree-API/db"
	"github.com/lugerh/TaskTree-API/errs"
	"github.com/lugerh/TaskTree-API/logging"
	"github.com/lugerh/TaskTree-API/models"
)

// GroupService manages groups and their membership. Groups are the universe
// a project's shareable users are drawn from.
type GroupService struct {
	Store db.Store
}

func NewGroupService(store db.Store) *GroupService {
	return &GroupService{Store: store}
}

// CreateGroup creates an empty group. Group names are unique.
func (s *GroupService) CreateGroup(ctx context.Context, caller auth.Caller, name string) (*models.Group, error) {
	if !auth.Authorize(caller, auth.CreateGroup, nil) {
		return nil, errs.Forbidden("not authorized to create groups")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errs.Invalid("group name is required")
	}

	var existing models.Group
	err := s.Store.FindOne(ctx, db.CollGroups, bson.M{"name": name}, &existing)
	if err == nil {
		return nil, errs.ErrDuplicateName
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	group := models.Group{
		Name:    name,
		Members: []primitive.ObjectID{},
	}
	id, err := s.Store.Insert(ctx, db.CollGroups, group)
	if err != nil {
		return nil, err
	}
	group.ID = id

	logging.Logger.Infof("Event ID: GROUP_CREATED, Description: Group '%s' created by %s", name, caller.Username)
	return &group, nil
}

// AddMember appends userID to the group's member list. Adding a user who is
// already a member is a no-op and still returns the group unchanged.
func (s *GroupService) AddMember(ctx context.Context, caller auth.Caller, groupID, userID primitive.ObjectID) (*models.Group, error) {
	if !auth.Authorize(caller, auth.AddGroupMember, nil) {
		return nil, errs.Forbidden("not authorized to add group members")
	}

	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if group.HasMember(userID) {
		return group, nil
	}

	group.Members = append(group.Members, userID)
	if _, err := s.Store.Replace(ctx, db.CollGroups, bson.M{"_id": group.ID}, group); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: GROUP_MEMBER_ADDED, Description: User %s added to group %s", userID.Hex(), group.Name)
	return group, nil
}

// GetAllGroups lists every group. Admin only.
func (s *GroupService) GetAllGroups(ctx context.Context, caller auth.Caller) ([]models.Group, error) {
	if !auth.Authorize(caller, auth.ListGroups, nil) {
		return nil, errs.Forbidden("not authorized to list groups")
	}

	var groups []models.Group
	if err := s.Store.Find(ctx, db.CollGroups, bson.M{}, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetGroup fetches one group by id.
func (s *GroupService) GetGroup(ctx context.Context, groupID primitive.ObjectID) (*models.Group, error) {
	var group models.Group
	if err := s.Store.FindByID(ctx, db.CollGroups, groupID, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// GroupsContaining returns every group whose member list includes userID.
func (s *GroupService) GroupsContaining(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	var groups []models.Group
	filter := bson.M{"members": bson.M{"$in": []primitive.ObjectID{userID}}}
	if err := s.Store.Find(ctx, db.CollGroups, filter, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}
