// Authentication endpoints.
//
//   - POST /auth/register
//   - POST /auth/login
//   - GET  /auth/me
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/http/middleware"
)

// RegisterRequest is the JSON payload for account creation.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest is the JSON payload for logging in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the session token together with the account.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register creates an account. The very first account on a fresh deployment
// becomes the administrator.
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email, password, and name are required")
		return
	}

	u, err := h.Auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, u)
}

// Login verifies credentials and returns a signed session token.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password are required")
		return
	}

	token, u, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, LoginResponse{Token: token, User: u})
}

// Me returns the authenticated account.
func (h *Handlers) Me(c *gin.Context) {
	u, err := h.Users.Get(c.Request.Context(), middleware.UserIDFrom(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}
