package acceptance

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pedalworks/maintenance-backend/api"
	"github.com/pedalworks/maintenance-backend/bike"
	"github.com/pedalworks/maintenance-backend/internal/o11y"
	"github.com/pedalworks/maintenance-backend/internal/store"
	"github.com/pedalworks/maintenance-backend/part"
	"github.com/pedalworks/maintenance-backend/ride"
	"github.com/pedalworks/maintenance-backend/user"
)

type TestServer struct {
	DB       *sqlx.DB
	Router   *gin.Engine
	UserRepo *user.Repository
	BikeRepo *bike.Repository
	PartRepo *part.Repository
	RideRepo *ride.Repository
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := store.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ur := user.NewRepository(db)
	br := bike.NewRepository(db)
	pr := part.NewRepository(db)
	rr := ride.NewRepository(db)

	obs := &o11y.Observability{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Registry: prometheus.NewRegistry(),
	}

	a := api.New(ur, br, pr, rr, obs, "", "")

	return &TestServer{
		DB:       db,
		Router:   a.Router(),
		UserRepo: ur,
		BikeRepo: br,
		PartRepo: pr,
		RideRepo: rr,
	}
}

func (ts *TestServer) GET(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func (ts *TestServer) POST(path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}

// CreateApprovedUser registers and approves a user through the API.
func (ts *TestServer) CreateApprovedUser(t *testing.T, name, email string) int64 {
	t.Helper()

	w := ts.POST("/register", map[string]string{"name": name, "email": email, "password": "secret"})
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to register %s: %d %s", email, w.Code, w.Body.String())
	}
	u := decode[map[string]any](t, w)
	id := int64(u["id"].(float64))

	w = ts.POST("/users/"+strconv.FormatInt(id, 10)+"/approve", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("failed to approve %s: %d %s", email, w.Code, w.Body.String())
	}
	return id
}

// CreateTemplate adds a part template through the API.
func (ts *TestServer) CreateTemplate(t *testing.T, name string, threshold float64) int64 {
	t.Helper()

	w := ts.POST("/part-templates", map[string]any{"name": name, "maintenanceThreshold": threshold})
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to create template %s: %d %s", name, w.Code, w.Body.String())
	}
	tpl := decode[map[string]any](t, w)
	return int64(tpl["id"].(float64))
}

// CreateBike creates a bike through the API.
func (ts *TestServer) CreateBike(t *testing.T, ownerID int64, name string) int64 {
	t.Helper()

	w := ts.POST("/bikes", map[string]any{"ownerUserId": ownerID, "name": name})
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to create bike %s: %d %s", name, w.Code, w.Body.String())
	}
	b := decode[map[string]any](t, w)
	return int64(b["id"].(float64))
}
