package ride

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrBikeNotFound    = errors.New("bike not found")
	ErrNotOwner        = errors.New("rider does not own this bike")
	ErrInvalidDistance = errors.New("distance must be positive")
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Log appends a ride and applies its distance to the bike total and to the
// accrued distance of every part instance on that bike. The three effects
// commit as one transaction; no reader ever observes a partial update.
// Only the bike's owner may log against it.
func (r *Repository) Log(ctx context.Context, userID, bikeID int64, distance float64, date time.Time) (Ride, error) {
	if distance <= 0 {
		return Ride{}, ErrInvalidDistance
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return Ride{}, err
	}
	defer tx.Rollback()

	var ownerID int64
	err = tx.GetContext(ctx, &ownerID, getBikeOwner, bikeID)
	if errors.Is(err, sql.ErrNoRows) {
		return Ride{}, ErrBikeNotFound
	}
	if err != nil {
		return Ride{}, err
	}
	if ownerID != userID {
		return Ride{}, ErrNotOwner
	}

	var ride Ride
	err = tx.GetContext(ctx, &ride, insertRide, userID, bikeID, distance, date, time.Now().UTC())
	if err != nil {
		return Ride{}, err
	}

	_, err = tx.ExecContext(ctx, addBikeDistance, distance, bikeID)
	if err != nil {
		return Ride{}, err
	}

	_, err = tx.ExecContext(ctx, addPartDistance, distance, bikeID)
	if err != nil {
		return Ride{}, err
	}

	return ride, tx.Commit()
}

const getBikeOwner = `SELECT owner_id FROM bikes WHERE id = $1`

const insertRide = `
INSERT INTO rides (user_id, bike_id, distance, ride_date, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING *
`

const addBikeDistance = `UPDATE bikes SET total_distance = total_distance + $1 WHERE id = $2`

const addPartDistance = `UPDATE part_instances SET accrued_distance = accrued_distance + $1 WHERE bike_id = $2`

// ByBike returns a bike's ride history, newest first.
func (r *Repository) ByBike(ctx context.Context, bikeID int64) ([]Ride, error) {
	var rides []Ride
	err := r.db.SelectContext(ctx, &rides, getRidesByBike, bikeID)
	return rides, err
}

const getRidesByBike = `SELECT * FROM rides WHERE bike_id = $1 ORDER BY ride_date DESC, id DESC`

// ByUser returns a rider's ride history across all bikes, newest first.
func (r *Repository) ByUser(ctx context.Context, userID int64) ([]Ride, error) {
	var rides []Ride
	err := r.db.SelectContext(ctx, &rides, getRidesByUser, userID)
	return rides, err
}

const getRidesByUser = `SELECT * FROM rides WHERE user_id = $1 ORDER BY ride_date DESC, id DESC`
