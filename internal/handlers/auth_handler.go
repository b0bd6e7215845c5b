package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/repository"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/jwtauth"
)

const currentUserKey = "currentUser"

type AuthHandler struct {
	userService    services.UserService
	tokenAuth      *jwtauth.JWTAuth
	sessionTimeout time.Duration
}

func NewAuthHandler(userService services.UserService, jwtSecret string, sessionTimeout time.Duration) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		tokenAuth:      jwtauth.New("HS256", []byte(jwtSecret), nil),
		sessionTimeout: sessionTimeout,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		log.Printf("Failed to generate token for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) issueToken(user *models.User) (string, error) {
	_, tokenString, err := h.tokenAuth.Encode(map[string]interface{}{
		"sub":     strconv.FormatInt(user.ID, 10),
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     jwtauth.ExpireIn(h.sessionTimeout),
	})
	return tokenString, err
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	err := h.userService.RequestPasswordReset(c.Request.Context(), req.Email)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, services.ErrValidation):
		log.Printf("Password reset not sent: %v", err)
	default:
		respondError(c, err)
		return
	}
	// Unknown addresses and accounts without a phone get the same answer
	// as a successful request.
	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset code has been sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// RequireAuth verifies the bearer token and loads the signed-in user, so
// role changes and deactivation take effect before the token expires.
func (h *AuthHandler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := jwtauth.TokenFromHeader(c.Request)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			return
		}
		token, err := jwtauth.VerifyToken(h.tokenAuth, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		id, err := strconv.ParseInt(token.Subject(), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := h.userService.GetUserByID(c.Request.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		if user.Status != models.UserActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": services.ErrInactiveUser.Error()})
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireRole lets admins and the listed roles through.
func (h *AuthHandler) RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.userService.ValidateUserRole(currentUser(c), roles...); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
