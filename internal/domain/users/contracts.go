package users

import "context"

// UserRepository defines methods for managing user accounts in a repository
type UserRepository interface {
	// Create creates a new user account
	Create(ctx context.Context, user *User) error
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)
	// GetByUsername retrieves a user by username, matched case-insensitively.
	// Returns nil when none matches.
	GetByUsername(ctx context.Context, username string) (*User, error)
	// GetByEmail retrieves the most recently created user with the given
	// email, matched case-insensitively. Returns nil when none matches.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// UpdateByID updates an existing user account
	UpdateByID(ctx context.Context, user *User) error
}

// UserService defines methods for authentication and account management
type UserService interface {
	// Authenticate verifies the credentials and returns the matching active
	// user. The identifier may be a username or an e-mail address.
	Authenticate(ctx context.Context, identifier, password string) (*User, error)
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)
	// ChangePassword replaces the password of an authenticated user after
	// checking the current one
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword, confirmPassword string) error
	// CheckSetPasswordToken verifies a set-password link without consuming it
	CheckSetPasswordToken(ctx context.Context, uid, token string) error
	// SetPasswordWithToken sets the password of the user addressed by a
	// set-password link and activates the account
	SetPasswordWithToken(ctx context.Context, uid, token, newPassword, confirmPassword string) (*User, error)
	// EnsureAdmin creates the staff account if it does not exist yet and
	// refreshes its password and flags when it does. It reports whether the
	// account was created.
	EnsureAdmin(ctx context.Context, username, email, password string) (bool, error)
}
