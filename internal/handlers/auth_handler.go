package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hisaab/internal/config"
	apperrors "hisaab/internal/errors"
	"hisaab/internal/middleware"
	"hisaab/internal/models"
	"hisaab/internal/services"
)

// TokenRevoker blocks an access token until it expires.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// AuthHandler handles authentication and profile requests
type AuthHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
	revoker      TokenRevoker
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, auditService services.AuditServicer, revoker TokenRevoker) *AuthHandler {
	return &AuthHandler{userService: userService, auditService: auditService, revoker: revoker}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// BiometricRequest toggles biometric unlock
type BiometricRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID               uint       `json:"id"`
	Username         string     `json:"username"`
	DriveEmail       string     `json:"drive_email,omitempty"`
	BiometricEnabled bool       `json:"biometric_enabled"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ClearDataResponse reports how many records were removed
type ClearDataResponse struct {
	Removed int `json:"removed"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		Username:         user.Username,
		DriveEmail:       user.DriveEmail,
		BiometricEnabled: user.BiometricEnabled,
		LastLoginAt:      user.LastLoginAt,
	}
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user with username and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} AuthResponse "User registered and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Username taken"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.CreateUser(req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "REGISTER", "user", user.ID, c.ClientIP(), nil)
	h.issueSession(c, http.StatusCreated, user)
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a user and start a session
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     423 {object} ErrorResponse "Account locked"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.AttemptLogin(req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "LOGIN", "user", user.ID, c.ClientIP(), nil)
	h.issueSession(c, http.StatusOK, user)
}

// Logout revokes the current access token
// @Summary     Logout user
// @Description Revoke the current session token and clear the session cookie
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Logged out"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tokenID := c.GetString(middleware.ContextTokenID)
	expiresAt := c.GetTime(middleware.ContextTokenExpiry)
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(config.Get().JWTExpirationDur)
	}
	if tokenID != "" {
		if err := h.revoker.Revoke(c.Request.Context(), tokenID, expiresAt); err != nil {
			respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
			return
		}
	}

	h.auditService.Log(userID, "LOGOUT", "user", userID, c.ClientIP(), nil)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", config.Get().CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetProfile returns the user's profile
// @Summary     Get user profile
// @Description Get the authenticated user's profile information
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// SetBiometric toggles biometric unlock for the user
// @Summary     Toggle biometric unlock
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BiometricRequest true "Biometric setting"
// @Success     200 {object} UserResponse "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profile/biometric [put]
func (h *AuthHandler) SetBiometric(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BiometricRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.SetBiometric(userID, *req.Enabled)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BIOMETRIC", "user", userID, c.ClientIP(),
		map[string]interface{}{"enabled": *req.Enabled})
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// ClearData removes every record the user owns
// @Summary     Clear all user data
// @Description Delete every record owned by the user. The account itself is kept.
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} ClearDataResponse "Records removed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profile/data [delete]
func (h *AuthHandler) ClearData(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	removed := h.userService.ClearData(userID)
	h.auditService.Log(userID, "CLEAR_DATA", "user", userID, c.ClientIP(),
		map[string]interface{}{"removed": removed})
	c.JSON(http.StatusOK, ClearDataResponse{Removed: removed})
}

// issueSession signs a token and returns it in the body and the session cookie.
func (h *AuthHandler) issueSession(c *gin.Context, status int, user *models.User) {
	token, expiresAt, err := middleware.GenerateAccessToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", config.Get().CookieSecure, true)

	c.JSON(status, AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserResponse(user),
	})
}
