// Package api exposes the maintenance tracker over HTTP.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pedalworks/maintenance-backend/bike"
	"github.com/pedalworks/maintenance-backend/internal/middleware"
	"github.com/pedalworks/maintenance-backend/internal/o11y"
	"github.com/pedalworks/maintenance-backend/part"
	"github.com/pedalworks/maintenance-backend/ride"
	"github.com/pedalworks/maintenance-backend/user"
)

type API struct {
	r  *gin.Engine
	ur *user.Repository
	br *bike.Repository
	pr *part.Repository
	rr *ride.Repository

	ridesLogged  prometheus.Counter
	rideDistance prometheus.Histogram
}

func New(ur *user.Repository, br *bike.Repository, pr *part.Repository, rr *ride.Repository,
	obs *o11y.Observability, metricsUsername, metricsPassword string) *API {
	a := &API{
		r:  gin.New(),
		ur: ur,
		br: br,
		pr: pr,
		rr: rr,

		ridesLogged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rides_logged_total",
			Help: "Total number of rides logged",
		}),
		rideDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ride_distance_km",
			Help:    "Distance of logged rides in kilometres",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 200},
		}),
	}
	obs.Registry.MustRegister(a.ridesLogged, a.rideDistance)

	a.r.Use(gin.Recovery())
	a.r.Use(middleware.RequestID())
	a.r.Use(middleware.Tracing())
	a.r.Use(middleware.Logging(obs.Logger))
	a.r.Use(middleware.Metrics(obs.Registry))

	a.r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	metricsHandler := gin.WrapH(promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))
	if metricsUsername != "" {
		a.r.GET("/metrics", gin.BasicAuth(gin.Accounts{metricsUsername: metricsPassword}), metricsHandler)
	} else {
		a.r.GET("/metrics", metricsHandler)
	}

	a.r.POST("/register", a.registerHandler)
	a.r.POST("/login", a.loginHandler)
	a.r.GET("/users", a.ridersHandler)
	a.r.GET("/users/pending", a.pendingUsersHandler)
	a.r.POST("/users/:id/approve", a.approveUserHandler)
	a.r.POST("/users/:id/reject", a.rejectUserHandler)

	a.r.GET("/bikes", a.bikesHandler)
	a.r.POST("/bikes", a.createBikeHandler)

	a.r.GET("/part-templates", a.partTemplatesHandler)
	a.r.POST("/part-templates", a.createPartTemplateHandler)
	a.r.GET("/parts", a.partsHandler)
	a.r.POST("/parts/:id/reset", a.resetPartHandler)

	a.r.GET("/rides", a.ridesHandler)
	a.r.POST("/rides", a.logRideHandler)

	return a
}

func (a *API) Router() *gin.Engine {
	return a.r
}

// pathID parses the :id path param. On failure it has already written the
// 400 response.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ID", "message": "id must be an integer"})
		return 0, false
	}
	return id, true
}
