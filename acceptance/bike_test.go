package acceptance

import (
	"net/http"
	"strconv"
	"testing"
)

func TestCreateBikeProvisionsParts(t *testing.T) {
	ts := NewTestServer(t)

	anaID := ts.CreateApprovedUser(t, "Ana", "ana@example.com")
	ts.CreateTemplate(t, "Chain", 1000)
	ts.CreateTemplate(t, "Brakes", 500)

	bikeID := ts.CreateBike(t, anaID, "Road")

	w := ts.GET("/parts?ownerId=" + strconv.FormatInt(anaID, 10))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	parts := decode[[]map[string]any](t, w)
	if len(parts) != 2 {
		t.Fatalf("expected 2 provisioned parts, got %d", len(parts))
	}
	for _, p := range parts {
		if int64(p["bikeId"].(float64)) != bikeID {
			t.Errorf("part bound to bike %v, want %d", p["bikeId"], bikeID)
		}
		if p["accruedDistance"].(float64) != 0 {
			t.Errorf("part %v accrued %v at provisioning", p["name"], p["accruedDistance"])
		}
		if p["bikeName"] != "Road" || p["ownerName"] != "Ana" {
			t.Errorf("part snapshot names wrong: %v/%v", p["bikeName"], p["ownerName"])
		}
		if p["status"] != "ok" {
			t.Errorf("fresh part status %v, want ok", p["status"])
		}
	}
}

func TestCreateBikeWithoutTemplates(t *testing.T) {
	ts := NewTestServer(t)

	anaID := ts.CreateApprovedUser(t, "Ana", "ana@example.com")
	ts.CreateBike(t, anaID, "Road")

	w := ts.GET("/parts?ownerId=" + strconv.FormatInt(anaID, 10))
	if parts := decode[[]map[string]any](t, w); len(parts) != 0 {
		t.Errorf("expected no parts without templates, got %d", len(parts))
	}
}

func TestCreateBikeUnknownOwner(t *testing.T) {
	ts := NewTestServer(t)

	w := ts.POST("/bikes", map[string]any{"ownerUserId": 42, "name": "Road"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d: %s", http.StatusNotFound, w.Code, w.Body.String())
	}
	resp := decode[map[string]string](t, w)
	if resp["code"] != "OWNER_NOT_FOUND" {
		t.Errorf("expected code OWNER_NOT_FOUND, got %s", resp["code"])
	}
}

func TestListBikesByOwner(t *testing.T) {
	ts := NewTestServer(t)

	anaID := ts.CreateApprovedUser(t, "Ana", "ana@example.com")
	benID := ts.CreateApprovedUser(t, "Ben", "ben@example.com")
	ts.CreateBike(t, anaID, "Road")
	ts.CreateBike(t, anaID, "Gravel")
	ts.CreateBike(t, benID, "City")

	w := ts.GET("/bikes?ownerId=" + strconv.FormatInt(anaID, 10))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	bikes := decode[[]map[string]any](t, w)
	if len(bikes) != 2 {
		t.Fatalf("expected 2 bikes for Ana, got %d", len(bikes))
	}

	// ownerId is required
	w = ts.GET("/bikes")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d without ownerId, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestPartTemplateValidation(t *testing.T) {
	ts := NewTestServer(t)

	w := ts.POST("/part-templates", map[string]any{"name": "Chain", "maintenanceThreshold": 0})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d for zero threshold, got %d", http.StatusBadRequest, w.Code)
	}

	w = ts.POST("/part-templates", map[string]any{"name": "Chain", "maintenanceThreshold": -10})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d for negative threshold, got %d", http.StatusBadRequest, w.Code)
	}

	ts.CreateTemplate(t, "Chain", 1000)
	w = ts.GET("/part-templates")
	if templates := decode[[]map[string]any](t, w); len(templates) != 1 {
		t.Errorf("expected 1 template, got %d", len(templates))
	}
}
