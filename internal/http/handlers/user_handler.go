// User administration endpoints (admin only).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozires/site24h-backend/internal/domain"
)

// UpdateRoleRequest changes an account's role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// RenameUserRequest changes an account's display name.
type RenameUserRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListUsersResponse wraps a page of accounts.
type ListUsersResponse struct {
	Users      []domain.User `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

// ListUsers returns all accounts, newest first.
func (h *Handlers) ListUsers(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.Users.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListUsersResponse{
		Users:      items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetUser returns one account.
func (h *Handlers) GetUser(c *gin.Context) {
	u, err := h.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// UpdateUserRole promotes or demotes an account. Demoting the last admin is
// rejected.
func (h *Handlers) UpdateUserRole(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "role is required")
		return
	}
	if err := h.Users.UpdateRole(c.Request.Context(), c.Param("id"), domain.Role(req.Role)); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// RenameUser changes an account's display name.
func (h *Handlers) RenameUser(c *gin.Context) {
	var req RenameUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name is required")
		return
	}
	if err := h.Users.Rename(c.Request.Context(), c.Param("id"), req.Name); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// DeleteUser soft-deletes an account. The last admin cannot be removed.
func (h *Handlers) DeleteUser(c *gin.Context) {
	if err := h.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}
