// Package token issues and verifies the signed tokens the service hands out:
// bearer session tokens for authenticated API access and one-time set-password
// tokens embedded in emailed links.
package token

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/juju/clock"
)

const (
	purposeSession     = "session"
	purposeSetPassword = "set_password"

	// hashFragmentLength is how much of the stored password hash gets baked
	// into set-password tokens. A password change rotates the hash, which
	// invalidates every previously issued link for that account.
	hashFragmentLength = 12
)

type sessionClaims struct {
	Purpose string `json:"purpose"`
	Staff   bool   `json:"staff"`
	jwt.RegisteredClaims
}

type setPasswordClaims struct {
	Purpose      string `json:"purpose"`
	HashFragment string `json:"hf"`
	jwt.RegisteredClaims
}

// SessionClaims is the verified content of a session token.
type SessionClaims struct {
	UserID  int64
	IsStaff bool
}

// Manager signs and verifies tokens with a single HMAC secret.
type Manager struct {
	secret         []byte
	sessionTTL     time.Duration
	setPasswordTTL time.Duration
	clock          clock.Clock
}

// NewManager creates a token manager. A nil clk falls back to the wall clock.
func NewManager(secretKey string, sessionTTL, setPasswordTTL time.Duration, clk clock.Clock) (*Manager, error) {
	if len(secretKey) < 32 {
		return nil, fmt.Errorf("secret key must be at least 32 characters")
	}
	if sessionTTL <= 0 || setPasswordTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive")
	}
	if clk == nil {
		clk = clock.WallClock
	}

	return &Manager{
		secret:         []byte(secretKey),
		sessionTTL:     sessionTTL,
		setPasswordTTL: setPasswordTTL,
		clock:          clk,
	}, nil
}

// IssueSession creates a bearer token for an authenticated user.
func (m *Manager) IssueSession(userID int64, isStaff bool) (string, error) {
	now := m.clock.Now()
	claims := sessionClaims{
		Purpose: purposeSession,
		Staff:   isStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.sessionTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// VerifySession checks a bearer token and returns its claims.
func (m *Manager) VerifySession(tokenString string) (*SessionClaims, error) {
	var claims sessionClaims
	if err := m.parse(tokenString, &claims); err != nil {
		return nil, err
	}
	if claims.Purpose != purposeSession {
		return nil, fmt.Errorf("token is not a session token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid token subject: %w", err)
	}

	return &SessionClaims{UserID: userID, IsStaff: claims.Staff}, nil
}

// IssueSetPassword creates the uid and token pair for a set-password link.
// The token carries a fragment of the current password hash so it stops
// working once the password changes.
func (m *Manager) IssueSetPassword(userID int64, passwordHash string) (string, string, error) {
	now := m.clock.Now()
	claims := setPasswordClaims{
		Purpose:      purposeSetPassword,
		HashFragment: hashFragment(passwordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.setPasswordTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign set-password token: %w", err)
	}

	uid := base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(userID, 10)))
	return uid, signed, nil
}

// DecodeUID converts the uid component of a set-password link back to a user ID.
func (m *Manager) DecodeUID(uid string) (int64, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return 0, fmt.Errorf("invalid uid encoding: %w", err)
	}

	userID, err := strconv.ParseInt(string(decoded), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid uid value: %w", err)
	}
	return userID, nil
}

// VerifySetPassword checks a set-password token against the user it claims to
// belong to and that user's current password hash.
func (m *Manager) VerifySetPassword(tokenString string, userID int64, passwordHash string) error {
	var claims setPasswordClaims
	if err := m.parse(tokenString, &claims); err != nil {
		return err
	}
	if claims.Purpose != purposeSetPassword {
		return fmt.Errorf("token is not a set-password token")
	}
	if claims.Subject != strconv.FormatInt(userID, 10) {
		return fmt.Errorf("token does not belong to user %d", userID)
	}
	if claims.HashFragment != hashFragment(passwordHash) {
		return fmt.Errorf("token was issued for a previous password")
	}
	return nil
}

func (m *Manager) parse(tokenString string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return m.clock.Now() }),
	)
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	if !parsed.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}

func hashFragment(passwordHash string) string {
	if len(passwordHash) <= hashFragmentLength {
		return passwordHash
	}
	return passwordHash[len(passwordHash)-hashFragmentLength:]
}
