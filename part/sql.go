package part

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("part instance not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// CreateTemplate appends a catalog entry. Duplicate names are allowed.
func (r *Repository) CreateTemplate(ctx context.Context, name string, threshold float64) (Template, error) {
	var t Template
	err := r.db.GetContext(ctx, &t, createTemplate, name, threshold, time.Now().UTC())
	return t, err
}

const createTemplate = `
INSERT INTO part_templates (name, maintenance_threshold, created_at)
VALUES ($1, $2, $3)
RETURNING *
`

func (r *Repository) Templates(ctx context.Context) ([]Template, error) {
	var templates []Template
	err := r.db.SelectContext(ctx, &templates, getTemplates)
	return templates, err
}

const getTemplates = `SELECT * FROM part_templates ORDER BY id ASC`

func (r *Repository) GetInstance(ctx context.Context, id int64) (Instance, error) {
	var i Instance
	err := r.db.GetContext(ctx, &i, getInstance, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Instance{}, ErrNotFound
	}
	return i, err
}

const getInstance = `SELECT * FROM part_instances WHERE id = $1`

// InstancesByOwner returns a rider's part instances across all their bikes.
func (r *Repository) InstancesByOwner(ctx context.Context, ownerID int64) ([]Instance, error) {
	var instances []Instance
	err := r.db.SelectContext(ctx, &instances, getInstancesByOwner, ownerID)
	return instances, err
}

const getInstancesByOwner = `SELECT * FROM part_instances WHERE owner_id = $1 ORDER BY id ASC`

// Instances returns every part instance, the admin fleet view.
func (r *Repository) Instances(ctx context.Context) ([]Instance, error) {
	var instances []Instance
	err := r.db.SelectContext(ctx, &instances, getInstances)
	return instances, err
}

const getInstances = `SELECT * FROM part_instances ORDER BY id ASC`

// ResetAccrual records maintenance done: accrued distance goes back to zero
// for exactly this instance. The threshold, the bike total and sibling
// instances are untouched.
func (r *Repository) ResetAccrual(ctx context.Context, id int64) (Instance, error) {
	var i Instance
	err := r.db.GetContext(ctx, &i, resetAccrual, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Instance{}, ErrNotFound
	}
	return i, err
}

const resetAccrual = `UPDATE part_instances SET accrued_distance = 0 WHERE id = $1 RETURNING *`
