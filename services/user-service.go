package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/yaml.v3"

	"github.com/lugerh/TaskTree-API/auth"
	"github.com/lugerh/TaskTree-API/db"
	"github.com/lugerh/TaskTree-API/errs"
	"github.com/lugerh/TaskTree-API/logging"
	"github.com/lugerh/TaskTree-API/models"
	"github.com/lugerh/TaskTree-API/utils"
)

// UserService manages user records and their opaque configuration blob.
type UserService struct {
	Store db.Store
	// DefaultConfigFile is the YAML file user configs reset to.
	DefaultConfigFile string
}

func NewUserService(store db.Store) *UserService {
	return &UserService{
		Store:             store,
		DefaultConfigFile: "defaultConfig.yaml",
	}
}

// Register creates a new user with role User. Username and email must be
// unused.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, errs.Invalid("username, email and password are required")
	}

	// Only a definite "no such document" clears the name; a store failure
	// propagates instead of being mistaken for availability.
	var existing models.User
	err := s.Store.FindOne(ctx, db.CollUsers, bson.M{"username": username}, &existing)
	if err == nil {
		return nil, errs.ErrDuplicateName
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	err = s.Store.FindOne(ctx, db.CollUsers, bson.M{"email": email}, &existing)
	if err == nil {
		return nil, errs.ErrDuplicateName
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username: html.EscapeString(username),
		Email:    html.EscapeString(email),
		Password: hashed,
		Groups:   []primitive.ObjectID{},
		Role:     models.RoleUser,
		Config:   models.DefaultConfig(),
	}

	id, err := s.Store.Insert(ctx, db.CollUsers, user)
	if err != nil {
		return nil, err
	}
	user.ID = id
	user.Password = ""

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User '%s' registered", user.Username)
	return &user, nil
}

// Login checks the credentials and issues an auth token.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	var user models.User
	if err := s.Store.FindOne(ctx, db.CollUsers, bson.M{"username": username}, &user); err != nil {
		return nil, "", errs.Unauthenticated("incorrect credentials")
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, "", errs.Unauthenticated("incorrect credentials")
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Username, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	user.Password = ""
	return &user, token, nil
}

// GetAllUsers lists every user, passwords stripped. Admin only.
func (s *UserService) GetAllUsers(ctx context.Context, caller auth.Caller) ([]models.User, error) {
	if !auth.Authorize(caller, auth.ListUsers, nil) {
		return nil, errs.Forbidden("not authorized to list users")
	}

	var users []models.User
	if err := s.Store.Find(ctx, db.CollUsers, bson.M{}, &users); err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// GetConfig returns the caller's configuration blob.
func (s *UserService) GetConfig(ctx context.Context, userID primitive.ObjectID) (map[string]any, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Config, nil
}

// SetConfig shallow-merges the given keys onto the caller's configuration.
func (s *UserService) SetConfig(ctx context.Context, userID primitive.ObjectID, patch map[string]any) (map[string]any, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Config == nil {
		user.Config = map[string]any{}
	}
	for key, value := range patch {
		user.Config[key] = value
	}

	if _, err := s.Store.Replace(ctx, db.CollUsers, bson.M{"_id": user.ID}, user); err != nil {
		return nil, err
	}
	return user.Config, nil
}

// ResetConfig restores the caller's configuration from the default config
// file.
func (s *UserService) ResetConfig(ctx context.Context, userID primitive.ObjectID) (map[string]any, error) {
	defaults, err := s.loadDefaultConfig()
	if err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Config = defaults
	if _, err := s.Store.Replace(ctx, db.CollUsers, bson.M{"_id": user.ID}, user); err != nil {
		return nil, err
	}
	return user.Config, nil
}

// EnsureAdminUser seeds the bootstrap admin account from the environment if
// it does not exist yet.
func (s *UserService) EnsureAdminUser(ctx context.Context) error {
	adminUsername := os.Getenv("BACKEND_ADMIN_USER")
	if adminUsername == "" {
		logging.Logger.Warn("Event ID: ADMIN_SEED_SKIPPED, Description: BACKEND_ADMIN_USER not set, skipping admin bootstrap")
		return nil
	}

	var existing models.User
	if err := s.Store.FindOne(ctx, db.CollUsers, bson.M{"username": adminUsername}, &existing); err == nil {
		return nil
	}

	hashed, err := utils.HashPassword(os.Getenv("BACKEND_ADMIN_PASSWORD"))
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		Username: adminUsername,
		Email:    os.Getenv("BACKEND_ADMIN_EMAIL"),
		Password: hashed,
		Groups:   []primitive.ObjectID{},
		Role:     models.RoleAdmin,
		Config:   models.DefaultConfig(),
	}
	if _, err := s.Store.Insert(ctx, db.CollUsers, admin); err != nil {
		return err
	}

	logging.Logger.Infof("Event ID: ADMIN_SEEDED, Description: Admin user '%s' created", adminUsername)
	return nil
}

func (s *UserService) getUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.Store.FindByID(ctx, db.CollUsers, userID, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) loadDefaultConfig() (map[string]any, error) {
	data, err := os.ReadFile(s.DefaultConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read default config: %w", err)
	}
	var defaults map[string]any
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return nil, fmt.Errorf("failed to parse default config: %w", err)
	}
	return defaults, nil
}
