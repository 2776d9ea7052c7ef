package handler

import (
	"errors"
	"net/http"

	"github.com/AndrewHnidets/demo-repositories/internal/auth"
	"github.com/AndrewHnidets/demo-repositories/internal/logic"
	"github.com/AndrewHnidets/demo-repositories/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	users  *logic.UserLogic
	tokens *auth.Manager
}

func NewAuthHandler(users *logic.UserLogic, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// Register creates an account and returns a token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid registration payload")
		return
	}

	user, err := h.users.Register(req.Email, req.Password, model.Locale(req.Locale))
	if err != nil {
		ErrorResponse(c, http.StatusConflict, "failed to register")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "failed to issue token")
		return
	}

	SuccessResponse(c, http.StatusCreated, "registered", TokenResponse{Token: token, User: user})
}

// Login verifies credentials and returns a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid login payload")
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "failed to log in")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "failed to issue token")
		return
	}

	SuccessResponse(c, http.StatusOK, "logged in", TokenResponse{Token: token, User: user})
}
