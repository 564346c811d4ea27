package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/procureflow/registry/internal/application/service"
)

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "register", err)
		return
	}
	ok(c, http.StatusCreated, user)
}

// Login handles POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, "login", err)
		return
	}
	ok(c, http.StatusOK, user)
}

// ChangePassword handles PUT /api/auth/password
func (h *Handlers) ChangePassword(c *gin.Context) {
	var req service.ChangePasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" {
		req.Username = actor(c)
	}

	if err := h.auth.ChangePassword(c.Request.Context(), req); err != nil {
		h.respondError(c, "change password", err)
		return
	}
	ok(c, http.StatusOK, gin.H{"username": req.Username})
}

// ListUsers handles GET /api/users
func (h *Handlers) ListUsers(c *gin.Context) {
	ok(c, http.StatusOK, h.auth.Users(c.Request.Context()))
}
