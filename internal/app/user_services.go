package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/litovianka/bike-service/internal/domain/users"
	"github.com/litovianka/bike-service/internal/pkg/logger"
	"github.com/litovianka/bike-service/internal/pkg/token"
)

// userService implements the UserService interface for authentication and
// account management
type userService struct {
	userRepo users.UserRepository
	tokens   *token.Manager
	logger   logger.Logger
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo users.UserRepository, tokenManager *token.Manager, logger logger.Logger) (users.UserService, error) {
	if tokenManager == nil {
		return nil, fmt.Errorf("token manager must not be nil")
	}
	return &userService{
		userRepo: userRepo,
		tokens:   tokenManager,
		logger:   logger,
	}, nil
}

// Authenticate verifies the credentials and returns the matching active user.
// The identifier may be a username or an e-mail address.
func (s *userService) Authenticate(ctx context.Context, identifier, password string) (*users.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, users.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.userRepo.GetByEmail(ctx, identifier)
		if err != nil {
			return nil, err
		}
	}

	if user == nil || !user.IsActive || !user.CheckPassword(password) {
		return nil, users.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (s *userService) GetByID(ctx context.Context, id int64) (*users.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return user, nil
}

// ChangePassword replaces the password of an authenticated user after
// checking the current one
func (s *userService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword, confirmPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !user.CheckPassword(currentPassword) {
		return users.ErrCurrentPasswordWrong
	}
	if newPassword != confirmPassword {
		return users.ErrPasswordMismatch
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}

	if err := s.userRepo.UpdateByID(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User ", userID, " changed their password")
	return nil
}

// CheckSetPasswordToken verifies a set-password link without consuming it
func (s *userService) CheckSetPasswordToken(ctx context.Context, uid, tokenString string) error {
	_, err := s.verifySetPasswordLink(ctx, uid, tokenString)
	return err
}

// SetPasswordWithToken sets the password of the user addressed by a
// set-password link and activates the account. The token embeds a fragment of
// the current password hash, so setting the password consumes the link.
func (s *userService) SetPasswordWithToken(ctx context.Context, uid, tokenString, newPassword, confirmPassword string) (*users.User, error) {
	user, err := s.verifySetPasswordLink(ctx, uid, tokenString)
	if err != nil {
		return nil, err
	}

	if newPassword != confirmPassword {
		return nil, users.ErrPasswordMismatch
	}

	if err := user.SetPassword(newPassword); err != nil {
		return nil, err
	}
	user.IsActive = true

	if err := s.userRepo.UpdateByID(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User ", user.ID, " set their password through an emailed link")
	return user, nil
}

// EnsureAdmin creates the staff account if it does not exist yet and
// refreshes its password and flags when it does. It reports whether the
// account was created.
func (s *userService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, fmt.Errorf("admin username and password must not be empty")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}

	if user == nil {
		user = &users.User{
			Username:    username,
			Email:       email,
			IsStaff:     true,
			IsSuperuser: true,
			IsActive:    true,
		}
		if err := user.SetPassword(password); err != nil {
			return false, err
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return false, err
		}
		s.logger.Info("Created admin account ", username)
		return true, nil
	}

	user.Email = email
	user.IsStaff = true
	user.IsSuperuser = true
	user.IsActive = true
	if err := user.SetPassword(password); err != nil {
		return false, err
	}
	if err := s.userRepo.UpdateByID(ctx, user); err != nil {
		return false, err
	}

	s.logger.Info("Updated admin account ", username)
	return false, nil
}

// verifySetPasswordLink resolves and checks the uid and token pair of a
// set-password link. A malformed uid is reported differently from a stale or
// forged token, matching what the pages tell the visitor.
func (s *userService) verifySetPasswordLink(ctx context.Context, uid, tokenString string) (*users.User, error) {
	userID, err := s.tokens.DecodeUID(uid)
	if err != nil {
		return nil, users.ErrInvalidLink
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, users.ErrInvalidLink
	}

	if err := s.tokens.VerifySetPassword(tokenString, user.ID, user.PasswordHash); err != nil {
		return nil, users.ErrLinkExpired
	}

	return user, nil
}
