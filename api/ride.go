package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pedalworks/maintenance-backend/internal/middleware"
	"github.com/pedalworks/maintenance-backend/ride"
)

type rideResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	BikeID    int64     `json:"bikeId"`
	Distance  float64   `json:"distance"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

func toRideResponse(r ride.Ride) rideResponse {
	return rideResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		BikeID:    r.BikeID,
		Distance:  r.Distance,
		Date:      r.Date,
		CreatedAt: r.CreatedAt,
	}
}

type logRideRequest struct {
	UserID   int64   `json:"userId" binding:"required"`
	BikeID   int64   `json:"bikeId" binding:"required"`
	Distance float64 `json:"distance" binding:"required,gt=0"`
	Date     string  `json:"date" binding:"required"`
}

// parseRideDate accepts RFC 3339 or a bare date, which is what the date
// input on the ride form submits.
func parseRideDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (a *API) logRideHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var req logRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	date, err := parseRideDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_DATE", "message": "date must be RFC 3339 or YYYY-MM-DD"})
		return
	}

	r, err := a.rr.Log(c, req.UserID, req.BikeID, req.Distance, date)
	if err != nil {
		if errors.Is(err, ride.ErrBikeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "BIKE_NOT_FOUND", "message": "Bike not found"})
			return
		}
		if errors.Is(err, ride.ErrNotOwner) {
			c.JSON(http.StatusForbidden, gin.H{"code": "NOT_BIKE_OWNER", "message": "Rider does not own this bike"})
			return
		}
		if errors.Is(err, ride.ErrInvalidDistance) {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_DISTANCE", "message": "Distance must be positive"})
			return
		}
		logger.ErrorContext(c, "failed to log ride", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	a.ridesLogged.Inc()
	a.rideDistance.Observe(r.Distance)

	c.JSON(http.StatusCreated, toRideResponse(r))
}

func (a *API) ridesHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	bikeStr := c.Query("bikeId")
	userStr := c.Query("userId")

	var rides []ride.Ride
	var err error

	switch {
	case bikeStr != "":
		var bikeID int64
		bikeID, err = strconv.ParseInt(bikeStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "bikeId must be an integer"})
			return
		}
		rides, err = a.rr.ByBike(c, bikeID)
	case userStr != "":
		var userID int64
		userID, err = strconv.ParseInt(userStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "userId must be an integer"})
			return
		}
		rides, err = a.rr.ByUser(c, userID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "bikeId or userId query parameter is required"})
		return
	}
	if err != nil {
		logger.ErrorContext(c, "failed to list rides", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]rideResponse, 0, len(rides))
	for _, r := range rides {
		responses = append(responses, toRideResponse(r))
	}
	c.JSON(http.StatusOK, responses)
}
