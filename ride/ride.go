// Package ride is the maintenance accrual engine: logging a ride moves the
// bike's total and every attached part instance in lockstep.
package ride

import (
	"time"
)

// Ride is an append-only log entry. Rides are never edited or deleted.
type Ride struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	BikeID    int64     `db:"bike_id"`
	Distance  float64   `db:"distance"`
	Date      time.Time `db:"ride_date"`
	CreatedAt time.Time `db:"created_at"`
}
