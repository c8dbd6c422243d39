package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pedalworks/maintenance-backend/bike"
	"github.com/pedalworks/maintenance-backend/internal/middleware"
)

type bikeResponse struct {
	ID            int64     `json:"id"`
	OwnerUserID   int64     `json:"ownerUserId"`
	Name          string    `json:"name"`
	TotalDistance float64   `json:"totalDistance"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toBikeResponse(b bike.Bike) bikeResponse {
	return bikeResponse{
		ID:            b.ID,
		OwnerUserID:   b.OwnerID,
		Name:          b.Name,
		TotalDistance: b.TotalDistance,
		CreatedAt:     b.CreatedAt,
	}
}

func (a *API) bikesHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	ownerID, err := strconv.ParseInt(c.Query("ownerId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "ownerId query parameter is required"})
		return
	}

	bikes, err := a.br.GetByOwner(c, ownerID)
	if err != nil {
		logger.ErrorContext(c, "failed to get bikes", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]bikeResponse, 0, len(bikes))
	for _, b := range bikes {
		responses = append(responses, toBikeResponse(b))
	}
	c.JSON(http.StatusOK, responses)
}

type createBikeRequest struct {
	OwnerUserID int64  `json:"ownerUserId" binding:"required"`
	Name        string `json:"name" binding:"required"`
}

func (a *API) createBikeHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var req createBikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	b, err := a.br.Create(c, req.OwnerUserID, req.Name)
	if err != nil {
		if errors.Is(err, bike.ErrOwnerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "OWNER_NOT_FOUND", "message": "Owner not found"})
			return
		}
		logger.ErrorContext(c, "failed to create bike", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, toBikeResponse(b))
}
