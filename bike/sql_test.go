package bike

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/pedalworks/maintenance-backend/internal/store"
	"github.com/pedalworks/maintenance-backend/part"
	"github.com/pedalworks/maintenance-backend/user"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := store.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateProvisionsPartInstances(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	ur := user.NewRepository(db)
	pr := part.NewRepository(db)
	br := NewRepository(db)

	owner, err := ur.Create(ctx, "Ana", "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}

	if _, err := pr.CreateTemplate(ctx, "Chain", 1000); err != nil {
		t.Fatalf("failed to create template: %v", err)
	}
	if _, err := pr.CreateTemplate(ctx, "Brakes", 500); err != nil {
		t.Fatalf("failed to create template: %v", err)
	}

	b, err := br.Create(ctx, owner.ID, "Road")
	if err != nil {
		t.Fatalf("failed to create bike: %v", err)
	}
	if b.TotalDistance != 0 {
		t.Errorf("new bike must start at zero distance, got %v", b.TotalDistance)
	}

	instances, err := pr.InstancesByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("failed to list instances: %v", err)
	}
	if len(instances) != 2 {
		t.Fatalf("expected one instance per template, got %d", len(instances))
	}

	for _, i := range instances {
		if i.BikeID != b.ID {
			t.Errorf("instance %d bound to bike %d, want %d", i.ID, i.BikeID, b.ID)
		}
		if i.AccruedDistance != 0 {
			t.Errorf("instance %d accrued %v at provisioning", i.ID, i.AccruedDistance)
		}
		if i.BikeName != "Road" || i.OwnerName != "Ana" {
			t.Errorf("instance %d snapshot names wrong: %q/%q", i.ID, i.BikeName, i.OwnerName)
		}
	}

	if instances[0].Name != "Chain" || instances[0].MaintenanceThreshold != 1000 {
		t.Errorf("first instance not snapshotted from Chain template: %+v", instances[0])
	}
	if instances[1].Name != "Brakes" || instances[1].MaintenanceThreshold != 500 {
		t.Errorf("second instance not snapshotted from Brakes template: %+v", instances[1])
	}
}

func TestCreateWithoutTemplates(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	ur := user.NewRepository(db)
	pr := part.NewRepository(db)
	br := NewRepository(db)

	owner, err := ur.Create(ctx, "Ana", "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}

	if _, err := br.Create(ctx, owner.ID, "Road"); err != nil {
		t.Fatalf("bike creation with no templates must succeed: %v", err)
	}

	instances, err := pr.InstancesByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("failed to list instances: %v", err)
	}
	if len(instances) != 0 {
		t.Errorf("expected zero instances, got %d", len(instances))
	}
}

func TestCreateUnknownOwner(t *testing.T) {
	ctx := context.Background()
	br := NewRepository(newTestDB(t))

	_, err := br.Create(ctx, 42, "Road")
	if !errors.Is(err, ErrOwnerNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
}

func TestTemplateChangesDoNotTouchExistingInstances(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	ur := user.NewRepository(db)
	pr := part.NewRepository(db)
	br := NewRepository(db)

	owner, err := ur.Create(ctx, "Ana", "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}
	if _, err := pr.CreateTemplate(ctx, "Chain", 1000); err != nil {
		t.Fatalf("failed to create template: %v", err)
	}
	if _, err := br.Create(ctx, owner.ID, "Road"); err != nil {
		t.Fatalf("failed to create bike: %v", err)
	}

	// A template added later only applies to bikes created after it.
	if _, err := pr.CreateTemplate(ctx, "Tires", 2000); err != nil {
		t.Fatalf("failed to create template: %v", err)
	}

	instances, err := pr.InstancesByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("failed to list instances: %v", err)
	}
	if len(instances) != 1 {
		t.Fatalf("late template retroactively provisioned: %d instances", len(instances))
	}

	second, err := br.Create(ctx, owner.ID, "Gravel")
	if err != nil {
		t.Fatalf("failed to create second bike: %v", err)
	}
	instances, err = pr.InstancesByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("failed to list instances: %v", err)
	}
	if len(instances) != 3 {
		t.Fatalf("expected 1 + 2 instances, got %d", len(instances))
	}
	for _, i := range instances[1:] {
		if i.BikeID != second.ID {
			t.Errorf("instance %d bound to bike %d, want %d", i.ID, i.BikeID, second.ID)
		}
	}
}
