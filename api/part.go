package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pedalworks/maintenance-backend/internal/middleware"
	"github.com/pedalworks/maintenance-backend/part"
)

type partTemplateResponse struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	MaintenanceThreshold float64   `json:"maintenanceThreshold"`
	CreatedAt            time.Time `json:"createdAt"`
}

func toPartTemplateResponse(t part.Template) partTemplateResponse {
	return partTemplateResponse{
		ID:                   t.ID,
		Name:                 t.Name,
		MaintenanceThreshold: t.MaintenanceThreshold,
		CreatedAt:            t.CreatedAt,
	}
}

type partInstanceResponse struct {
	ID                   int64     `json:"id"`
	OwnerUserID          int64     `json:"ownerUserId"`
	OwnerName            string    `json:"ownerName"`
	BikeID               int64     `json:"bikeId"`
	BikeName             string    `json:"bikeName"`
	TemplateID           int64     `json:"templateId"`
	Name                 string    `json:"name"`
	MaintenanceThreshold float64   `json:"maintenanceThreshold"`
	AccruedDistance      float64   `json:"accruedDistance"`
	// Ratio and PercentUsed are unclamped; Progress is clamped to 100 for
	// progress bars.
	Ratio       float64     `json:"ratio"`
	PercentUsed float64     `json:"percentUsed"`
	Progress    float64     `json:"progress"`
	Status      part.Status `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
}

func toPartInstanceResponse(i part.Instance) partInstanceResponse {
	u := i.Urgency()
	return partInstanceResponse{
		ID:                   i.ID,
		OwnerUserID:          i.OwnerID,
		OwnerName:            i.OwnerName,
		BikeID:               i.BikeID,
		BikeName:             i.BikeName,
		TemplateID:           i.TemplateID,
		Name:                 i.Name,
		MaintenanceThreshold: i.MaintenanceThreshold,
		AccruedDistance:      i.AccruedDistance,
		Ratio:                u.Ratio,
		PercentUsed:          u.Percent,
		Progress:             u.Progress(),
		Status:               u.Status,
		CreatedAt:            i.CreatedAt,
	}
}

func (a *API) partTemplatesHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	templates, err := a.pr.Templates(c)
	if err != nil {
		logger.ErrorContext(c, "failed to list part templates", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]partTemplateResponse, 0, len(templates))
	for _, t := range templates {
		responses = append(responses, toPartTemplateResponse(t))
	}
	c.JSON(http.StatusOK, responses)
}

type createPartTemplateRequest struct {
	Name                 string  `json:"name" binding:"required"`
	MaintenanceThreshold float64 `json:"maintenanceThreshold" binding:"required,gt=0"`
}

func (a *API) createPartTemplateHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var req createPartTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	t, err := a.pr.CreateTemplate(c, req.Name, req.MaintenanceThreshold)
	if err != nil {
		logger.ErrorContext(c, "failed to create part template", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, toPartTemplateResponse(t))
}

// partsHandler lists part instances: a rider's own with ?ownerId=, the
// whole fleet without (the admin maintenance table).
func (a *API) partsHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var instances []part.Instance
	var err error

	if ownerStr := c.Query("ownerId"); ownerStr != "" {
		ownerID, perr := strconv.ParseInt(ownerStr, 10, 64)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "ownerId must be an integer"})
			return
		}
		instances, err = a.pr.InstancesByOwner(c, ownerID)
	} else {
		instances, err = a.pr.Instances(c)
	}
	if err != nil {
		logger.ErrorContext(c, "failed to list part instances", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]partInstanceResponse, 0, len(instances))
	for _, i := range instances {
		responses = append(responses, toPartInstanceResponse(i))
	}
	c.JSON(http.StatusOK, responses)
}

func (a *API) resetPartHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	i, err := a.pr.ResetAccrual(c, id)
	if err != nil {
		if errors.Is(err, part.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "PART_NOT_FOUND", "message": "Part instance not found"})
			return
		}
		logger.ErrorContext(c, "failed to reset part accrual", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, toPartInstanceResponse(i))
}
