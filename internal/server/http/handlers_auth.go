package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

type signupRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "validation_failed", "invalid signup payload")
		return
	}

	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleUser
	}

	user, token, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(c, http.StatusConflict, "duplicate_email", "email is already registered")
			return
		}
		s.log.Error(c.Request.Context(), "signup failed", "error", err.Error())
		writeError(c, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	s.session.Attach(c.Writer, token)
	c.JSON(http.StatusCreated, gin.H{
		"message": "user created",
		"user":    user,
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "validation_failed", "invalid login payload")
		return
	}

	user, token, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			// Unknown email and wrong password share one answer.
			writeError(c, http.StatusUnauthorized, "unauthorized", "invalid email or password")
			return
		}
		s.log.Error(c.Request.Context(), "login failed", "error", err.Error())
		writeError(c, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	s.session.Attach(c.Writer, token)
	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"user":    user,
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	s.session.Clear(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
