//go:build unit
// +build unit

package token

import (
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T) (*Manager, *testclock.Clock) {
	t.Helper()

	clk := testclock.NewClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	manager, err := NewManager(testSecret, 12*time.Hour, 72*time.Hour, clk)
	require.NoError(t, err)
	return manager, clk
}

func TestNewManager_RejectsShortSecret(t *testing.T) {
	_, err := NewManager("short", time.Hour, time.Hour, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
}

func TestSessionToken_RoundTrip(t *testing.T) {
	manager, _ := newTestManager(t)

	tokenString, err := manager.IssueSession(42, true)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := manager.VerifySession(tokenString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.True(t, claims.IsStaff)
}

func TestSessionToken_Expires(t *testing.T) {
	manager, clk := newTestManager(t)

	tokenString, err := manager.IssueSession(42, false)
	require.NoError(t, err)

	clk.Advance(13 * time.Hour)

	_, err = manager.VerifySession(tokenString)
	assert.Error(t, err)
}

func TestSessionToken_TamperedSignature(t *testing.T) {
	manager, _ := newTestManager(t)

	tokenString, err := manager.IssueSession(42, false)
	require.NoError(t, err)

	_, err = manager.VerifySession(tokenString + "x")
	assert.Error(t, err)
}

func TestSetPasswordToken_RoundTrip(t *testing.T) {
	manager, _ := newTestManager(t)

	uid, tokenString, err := manager.IssueSetPassword(7, "$2a$10$currenthashvalue")
	require.NoError(t, err)

	userID, err := manager.DecodeUID(uid)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)

	assert.NoError(t, manager.VerifySetPassword(tokenString, 7, "$2a$10$currenthashvalue"))
}

func TestSetPasswordToken_DiesAfterPasswordChange(t *testing.T) {
	manager, _ := newTestManager(t)

	_, tokenString, err := manager.IssueSetPassword(7, "$2a$10$currenthashvalue")
	require.NoError(t, err)

	err = manager.VerifySetPassword(tokenString, 7, "$2a$10$rotatedhashvalue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "previous password")
}

func TestSetPasswordToken_WorksForUnusablePassword(t *testing.T) {
	manager, _ := newTestManager(t)

	// Customer accounts start without a password; the invite link must work.
	_, tokenString, err := manager.IssueSetPassword(7, "")
	require.NoError(t, err)

	assert.NoError(t, manager.VerifySetPassword(tokenString, 7, ""))
}

func TestSetPasswordToken_Expires(t *testing.T) {
	manager, clk := newTestManager(t)

	_, tokenString, err := manager.IssueSetPassword(7, "")
	require.NoError(t, err)

	clk.Advance(73 * time.Hour)

	assert.Error(t, manager.VerifySetPassword(tokenString, 7, ""))
}

func TestSetPasswordToken_WrongUser(t *testing.T) {
	manager, _ := newTestManager(t)

	_, tokenString, err := manager.IssueSetPassword(7, "")
	require.NoError(t, err)

	assert.Error(t, manager.VerifySetPassword(tokenString, 8, ""))
}

func TestDecodeUID_Garbage(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.DecodeUID("!!not-base64!!")
	assert.Error(t, err)

	_, err = manager.DecodeUID("bm90LWEtbnVtYmVy")
	assert.Error(t, err)
}

func TestTokenPurposesAreNotInterchangeable(t *testing.T) {
	manager, _ := newTestManager(t)

	sessionToken, err := manager.IssueSession(7, false)
	require.NoError(t, err)
	assert.Error(t, manager.VerifySetPassword(sessionToken, 7, ""))

	_, setPasswordToken, err := manager.IssueSetPassword(7, "")
	require.NoError(t, err)
	_, err = manager.VerifySession(setPasswordToken)
	assert.Error(t, err)
}
