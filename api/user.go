package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pedalworks/maintenance-backend/internal/middleware"
	"github.com/pedalworks/maintenance-backend/user"
)

type userResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	IsAdmin    bool      `json:"isAdmin"`
	IsApproved bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toUserResponse(u user.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		IsAdmin:    u.IsAdmin,
		IsApproved: u.IsApproved,
		CreatedAt:  u.CreatedAt,
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (a *API) registerHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	u, err := a.ur.Create(c, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"code": "DUPLICATE_EMAIL", "message": "Email already registered"})
			return
		}
		logger.ErrorContext(c, "failed to register user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(u))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (a *API) loginHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	// A pending account fails identically to a wrong password; login does
	// not reveal which.
	u, err := a.ur.Authenticate(c, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"code": "INVALID_CREDENTIALS", "message": "Invalid credentials"})
			return
		}
		logger.ErrorContext(c, "failed to authenticate user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(u))
}

func (a *API) ridersHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	users, err := a.ur.ListRiders(c)
	if err != nil {
		logger.ErrorContext(c, "failed to list riders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]userResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toUserResponse(u))
	}
	c.JSON(http.StatusOK, responses)
}

func (a *API) pendingUsersHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	users, err := a.ur.ListPending(c)
	if err != nil {
		logger.ErrorContext(c, "failed to list pending users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]userResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toUserResponse(u))
	}
	c.JSON(http.StatusOK, responses)
}

func (a *API) approveUserHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	u, err := a.ur.Approve(c, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "USER_NOT_FOUND", "message": "User not found"})
			return
		}
		logger.ErrorContext(c, "failed to approve user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(u))
}

func (a *API) rejectUserHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	err := a.ur.Reject(c, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "USER_NOT_FOUND", "message": "User not found"})
			return
		}
		logger.ErrorContext(c, "failed to reject user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}
