package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/litovianka/bike-service/internal/domain/users"
	"github.com/litovianka/bike-service/internal/pkg/ratelimit"
	"github.com/litovianka/bike-service/internal/pkg/token"
)

// Rate limits of the abuse-prone auth endpoints, per client IP.
const (
	loginRateLimit        = 8
	setPasswordRateLimit  = 6
	authRateLimitWindow   = 300 * time.Second
	rateLimitedMessage    = "Príliš veľa pokusov. Skús znova o pár minút."
	scopeLogin            = "login"
	scopeSetPassword      = "set_password"
	passwordSetMessage    = "Heslo bolo nastavené. Teraz sa môžeš prihlásiť."
	passwordChangeMessage = "Heslo bolo zmenené."
)

// AuthHandler defines the interface for handling authentication operations
type AuthHandler interface {
	Login(ctx *gin.Context)
	Logout(ctx *gin.Context)
	ChangePassword(ctx *gin.Context)
	CheckSetPassword(ctx *gin.Context)
	SetPassword(ctx *gin.Context)
}

type authHandler struct {
	userService users.UserService
	tokens      *token.Manager
	limiter     *ratelimit.Limiter
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService users.UserService, tokens *token.Manager, limiter *ratelimit.Limiter) AuthHandler {
	return &authHandler{
		userService: userService,
		tokens:      tokens,
		limiter:     limiter,
	}
}

// Login authenticates by username or email and hands out a session token
func (handler *authHandler) Login(ctx *gin.Context) {
	var request LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	ip := ratelimit.ClientIP(ctx.Request)
	if handler.limiter.IsLimited(scopeLogin, ip, loginRateLimit, authRateLimitWindow) {
		ctx.JSON(http.StatusTooManyRequests, ErrorResponse{Message: rateLimitedMessage})
		return
	}

	user, err := handler.userService.Authenticate(ctx, request.Identifier, request.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, ErrorResponse{Message: users.ErrInvalidCredentials.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Message: "login failed"})
		return
	}

	handler.limiter.Reset(scopeLogin, ip)

	sessionToken, err := handler.tokens.IssueSession(user.ID, user.IsStaff)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Message: "login failed"})
		return
	}

	ctx.JSON(http.StatusOK, LoginResponse{Token: sessionToken, User: toUserResponse(user)})
}

// Logout acknowledges the logout; the client drops the token
func (handler *authHandler) Logout(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, InfoResponse{Message: "Bol si odhlásený."})
}

// ChangePassword replaces the password of the logged-in account
func (handler *authHandler) ChangePassword(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil {
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var request ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	err := handler.userService.ChangePassword(ctx, user.ID, request.CurrentPassword, request.NewPassword, request.ConfirmPassword)
	if err != nil {
		if errors.Is(err, users.ErrCurrentPasswordWrong) || errors.Is(err, users.ErrPasswordMismatch) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Message: "password change failed"})
		return
	}

	ctx.JSON(http.StatusOK, InfoResponse{Message: passwordChangeMessage})
}

// CheckSetPassword verifies a set-password link without consuming it
func (handler *authHandler) CheckSetPassword(ctx *gin.Context) {
	uid := ctx.Param("uid")
	linkToken := ctx.Param("token")

	if err := handler.userService.CheckSetPasswordToken(ctx, uid, linkToken); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: setPasswordLinkError(err)})
		return
	}

	ctx.JSON(http.StatusOK, InfoResponse{Message: "Link je platný."})
}

// SetPassword sets a password through an emailed link and activates the
// account
func (handler *authHandler) SetPassword(ctx *gin.Context) {
	uid := ctx.Param("uid")
	linkToken := ctx.Param("token")

	var request SetPasswordRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	ip := ratelimit.ClientIP(ctx.Request)
	if handler.limiter.IsLimited(scopeSetPassword, ip, setPasswordRateLimit, authRateLimitWindow) {
		ctx.JSON(http.StatusTooManyRequests, ErrorResponse{Message: rateLimitedMessage})
		return
	}

	_, err := handler.userService.SetPasswordWithToken(ctx, uid, linkToken, request.NewPassword, request.ConfirmPassword)
	if err != nil {
		if errors.Is(err, users.ErrPasswordMismatch) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
			return
		}
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: setPasswordLinkError(err)})
		return
	}

	handler.limiter.Reset(scopeSetPassword, ip)
	ctx.JSON(http.StatusOK, InfoResponse{Message: passwordSetMessage})
}

// setPasswordLinkError keeps the malformed-uid and stale-token cases apart,
// matching what the pages tell the visitor.
func setPasswordLinkError(err error) string {
	if errors.Is(err, users.ErrInvalidLink) {
		return users.ErrInvalidLink.Error()
	}
	return users.ErrLinkExpired.Error()
}
