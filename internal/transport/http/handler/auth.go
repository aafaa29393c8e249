package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/randyf333/SylliAI/internal/app"
	"github.com/randyf333/SylliAI/internal/transport/http/middleware"
	"github.com/randyf333/SylliAI/internal/transport/http/response"
)

type AuthHandler struct {
	authService  *app.AuthService
	cookieMaxAge int
	cookieSecure bool
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email,max=128"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type LogInRequest struct {
	Email    string `json:"email" binding:"required,email,max=128"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

func NewAuthHandler(authService *app.AuthService, cookieMaxAge int, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieMaxAge: cookieMaxAge,
		cookieSecure: cookieSecure,
	}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	user, err := h.authService.SignUp(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrEmailExists):
			response.Error(c, http.StatusBadRequest, response.CodeEmailExists, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "signup failed")
		}
		return
	}

	response.OK(c, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

func (h *AuthHandler) LogIn(c *gin.Context) {
	var req LogInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.LogIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrInvalidCredential):
			response.Error(c, http.StatusUnauthorized, response.CodeInvalidCredentials, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "login failed")
		}
		return
	}

	c.SetCookie(middleware.SessionCookieName, result.SessionID, h.cookieMaxAge, "/", "", h.cookieSecure, true)
	response.OK(c, gin.H{
		"user": gin.H{
			"id":    result.User.ID,
			"email": result.User.Email,
		},
	})
}

func (h *AuthHandler) LogOut(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextSessionIDKey)
	if err := h.authService.LogOut(c.Request.Context(), sessionID); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "logout failed")
		return
	}
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.cookieSecure, true)
	response.OK(c, gin.H{"logged_out": true})
}

// Refresh rotates the session's token pair. It sits outside the session
// guard: an expired access token is exactly when a client calls it.
func (h *AuthHandler) Refresh(c *gin.Context) {
	sessionID, err := c.Cookie(middleware.SessionCookieName)
	if err != nil || sessionID == "" {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "please log in")
		return
	}

	if err := h.authService.Refresh(c.Request.Context(), sessionID); err != nil {
		switch {
		case errors.Is(err, app.ErrSessionExpired):
			response.Error(c, http.StatusUnauthorized, response.CodeSessionExpired, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "refresh failed")
		}
		return
	}
	response.OK(c, gin.H{"refreshed": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch current user failed")
		return
	}
	if user == nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found")
		return
	}

	response.OK(c, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	})
}

// UpdateProfile acknowledges the settings form. There is no real update
// logic behind it.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	response.OK(c, gin.H{"updated": true})
}
