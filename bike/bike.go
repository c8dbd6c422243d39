// Package bike holds rider bikes and their creation-time part provisioning.
package bike

import (
	"time"
)

// Bike belongs to exactly one user. TotalDistance only ever grows; it is
// incremented by ride logging and equals the sum of all logged distances.
type Bike struct {
	ID            int64     `db:"id"`
	OwnerID       int64     `db:"owner_id"`
	Name          string    `db:"name"`
	TotalDistance float64   `db:"total_distance"`
	CreatedAt     time.Time `db:"created_at"`
}
