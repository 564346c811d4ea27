package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/procureflow/registry/internal/application/port"
	"github.com/procureflow/registry/internal/domain/entity"
	"github.com/procureflow/registry/internal/domain/event"
)

// RegisterInput is a sign-up request
type RegisterInput struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ChangePasswordInput replaces a user's password after checking the current one
type ChangePasswordInput struct {
	Username        string `json:"username"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// AuthService manages local accounts. Login is a lookup against stored
// credentials; it issues no session or token.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*entity.User, error)
	Login(ctx context.Context, username, password string) (*entity.User, error)
	ChangePassword(ctx context.Context, input ChangePasswordInput) error
	Users(ctx context.Context) []entity.User
}

type authServiceImpl struct {
	users  port.UserRepository
	logger Logger
	opts   options
}

// NewAuthService creates a new AuthService
func NewAuthService(users port.UserRepository, logger Logger, opts ...Option) AuthService {
	return &authServiceImpl{
		users:  users,
		logger: logger,
		opts:   buildOptions(opts),
	}
}

// Register adds a user. Usernames are unique ignoring case.
func (s *authServiceImpl) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, newUserError(ErrValidation, MsgCredentialsRequired)
	}
	if input.Password != input.ConfirmPassword {
		return nil, newUserError(ErrValidation, MsgPasswordMismatch)
	}

	user := entity.User{
		ID:          s.opts.newID(),
		Username:    username,
		Password:    input.Password,
		AvatarColor: entity.AvatarColors[s.opts.pick(len(entity.AvatarColors))],
	}

	err := s.users.Update(ctx, func(users []entity.User) ([]entity.User, error) {
		if findUser(users, username) >= 0 {
			return nil, newUserError(ErrConflict, MsgDuplicateUser)
		}
		return append(users, user), nil
	})
	if err != nil {
		if isUserError(err) {
			return nil, err
		}
		s.logger.Error("Failed to register user", "username", username, "error", err)
		return nil, fmt.Errorf("save users: %w", err)
	}

	s.logger.Info("User registered", "username", username)
	s.opts.publish(ctx, s.logger, event.NewEvent(event.TypeUserRegistered, "", nil).WithActor(username))

	public := user.Public()
	return &public, nil
}

// Login returns the matching user without its password
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*entity.User, error) {
	users := s.users.Load(ctx)
	i := findUser(users, strings.TrimSpace(username))
	if i < 0 || users[i].Password != password {
		s.logger.Info("Login rejected", "username", username)
		return nil, newUserError(ErrUnauthorized, MsgInvalidCredentials)
	}

	public := users[i].Public()
	return &public, nil
}

// ChangePassword replaces the password of a user that proves the current one
func (s *authServiceImpl) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	if input.NewPassword == "" {
		return newUserError(ErrValidation, MsgCredentialsRequired)
	}
	if input.NewPassword != input.ConfirmPassword {
		return newUserError(ErrValidation, MsgPasswordMismatch)
	}

	username := strings.TrimSpace(input.Username)
	err := s.users.Update(ctx, func(users []entity.User) ([]entity.User, error) {
		i := findUser(users, username)
		if i < 0 || users[i].Password != input.CurrentPassword {
			return nil, newUserError(ErrUnauthorized, MsgInvalidCredentials)
		}
		users[i].Password = input.NewPassword
		return users, nil
	})
	if err != nil {
		if isUserError(err) {
			return err
		}
		s.logger.Error("Failed to change password", "username", username, "error", err)
		return fmt.Errorf("save users: %w", err)
	}

	s.logger.Info("Password changed", "username", username)
	s.opts.publish(ctx, s.logger, event.NewEvent(event.TypePasswordChanged, "", nil).WithActor(username))
	return nil
}

// Users lists accounts without passwords
func (s *authServiceImpl) Users(ctx context.Context) []entity.User {
	users := s.users.Load(ctx)
	out := make([]entity.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out
}

func findUser(users []entity.User, username string) int {
	for i, u := range users {
		if strings.EqualFold(u.Username, username) {
			return i
		}
	}
	return -1
}
