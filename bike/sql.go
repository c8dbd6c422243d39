package bike

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound      = errors.New("bike not found")
	ErrOwnerNotFound = errors.New("owner not found")
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a bike and provisions one part instance per existing
// template, all in one transaction. The instance snapshots the template's
// threshold and the bike/owner names at this instant; later template or
// name changes do not touch it. No templates means no instances.
func (r *Repository) Create(ctx context.Context, ownerID int64, name string) (Bike, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return Bike{}, err
	}
	defer tx.Rollback()

	var ownerName string
	err = tx.GetContext(ctx, &ownerName, getOwnerName, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return Bike{}, ErrOwnerNotFound
	}
	if err != nil {
		return Bike{}, err
	}

	now := time.Now().UTC()

	var b Bike
	err = tx.GetContext(ctx, &b, createBike, ownerID, name, now)
	if err != nil {
		return Bike{}, err
	}

	_, err = tx.ExecContext(ctx, provisionParts, ownerID, b.ID, b.Name, ownerName, now)
	if err != nil {
		return Bike{}, err
	}

	return b, tx.Commit()
}

const getOwnerName = `SELECT name FROM users WHERE id = $1`

const createBike = `
INSERT INTO bikes (owner_id, name, total_distance, created_at)
VALUES ($1, $2, 0, $3)
RETURNING *
`

const provisionParts = `
INSERT INTO part_instances
    (owner_id, bike_id, template_id, name, bike_name, owner_name, maintenance_threshold, accrued_distance, created_at)
SELECT $1, $2, t.id, t.name, $3, $4, t.maintenance_threshold, 0, $5
FROM part_templates t
ORDER BY t.id
`

func (r *Repository) GetByID(ctx context.Context, id int64) (Bike, error) {
	var b Bike
	err := r.db.GetContext(ctx, &b, getBike, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Bike{}, ErrNotFound
	}
	return b, err
}

const getBike = `SELECT * FROM bikes WHERE id = $1`

// GetByOwner returns a rider's bikes, oldest first.
func (r *Repository) GetByOwner(ctx context.Context, ownerID int64) ([]Bike, error) {
	var bikes []Bike
	err := r.db.SelectContext(ctx, &bikes, getBikesByOwner, ownerID)
	return bikes, err
}

const getBikesByOwner = `SELECT * FROM bikes WHERE owner_id = $1 ORDER BY id ASC`
