package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/services"
)

type updateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6,max=128"`
	Role     *string `json:"role" binding:"omitempty,oneof=user admin"`
}

func (r *updateUserRequest) empty() bool {
	return r.Name == nil && r.Email == nil && r.Password == nil && r.Role == nil
}

// pathID reads the :id segment. The gates have already validated it for
// authorization, so a failure here is unreachable in practice.
func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.users.ListUsers(c.Request.Context())
	if err != nil {
		s.log.Error(c.Request.Context(), "listing users failed", "error", err.Error())
		writeError(c, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "users retrieved",
		"users":   users,
		"count":   len(users),
	})
}

func (s *Server) handleGetUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, http.StatusForbidden, "forbidden", "access denied")
		return
	}

	user, err := s.users.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(c, http.StatusNotFound, "not_found", "user not found")
			return
		}
		s.log.Error(c.Request.Context(), "fetching user failed", "error", err.Error())
		writeError(c, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *Server) handleUpdateUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, http.StatusForbidden, "forbidden", "access denied")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "validation_failed", "invalid update payload")
		return
	}
	if req.empty() {
		writeError(c, http.StatusBadRequest, "validation_failed", "at least one field is required")
		return
	}

	claims, ok := identityFrom(c)
	if !ok {
		writeError(c, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	// Only admins may touch the role field, even on their own record.
	if req.Role != nil && !claims.IsAdmin() {
		writeError(c, http.StatusForbidden, "forbidden", "only admins may change roles")
		return
	}

	params := services.UpdateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		params.Role = &role
	}

	user, err := s.users.UpdateUser(c.Request.Context(), id, params)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			writeError(c, http.StatusNotFound, "not_found", "user not found")
		case errors.Is(err, common.ErrorAlreadyExists):
			writeError(c, http.StatusConflict, "duplicate_email", "email is already registered")
		default:
			s.log.Error(c.Request.Context(), "updating user failed", "error", err.Error())
			writeError(c, http.StatusInternalServerError, "internal", "internal error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "user updated",
		"user":    user,
	})
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, http.StatusForbidden, "forbidden", "access denied")
		return
	}

	user, err := s.users.DeleteUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(c, http.StatusNotFound, "not_found", "user not found")
			return
		}
		s.log.Error(c.Request.Context(), "deleting user failed", "error", err.Error())
		writeError(c, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "user deleted",
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
