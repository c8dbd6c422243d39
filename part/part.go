// Package part holds the maintenance part catalog, per-bike part instances
// and the urgency classification over accrued distance.
package part

import (
	"time"

	"github.com/goccy/go-json"
)

// Template is an admin-defined catalog entry: a maintainable component and
// the distance interval at which it is due. Immutable once created.
type Template struct {
	ID                   int64     `db:"id"`
	Name                 string    `db:"name"`
	MaintenanceThreshold float64   `db:"maintenance_threshold"`
	CreatedAt            time.Time `db:"created_at"`
}

// Instance is a template bound to one bike at bike-creation time.
// BikeName and OwnerName are snapshots taken at provisioning; they are not
// updated when the bike or owner is renamed.
type Instance struct {
	ID                   int64     `db:"id"`
	OwnerID              int64     `db:"owner_id"`
	BikeID               int64     `db:"bike_id"`
	TemplateID           int64     `db:"template_id"`
	Name                 string    `db:"name"`
	BikeName             string    `db:"bike_name"`
	OwnerName            string    `db:"owner_name"`
	MaintenanceThreshold float64   `db:"maintenance_threshold"`
	AccruedDistance      float64   `db:"accrued_distance"`
	CreatedAt            time.Time `db:"created_at"`
}

type Status int

const (
	StatusOK Status = iota
	StatusSoon
	StatusRequired
)

func (s Status) String() string {
	return [...]string{"ok", "maintenance_soon", "maintenance_required"}[s]
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Urgency is how far a part is into its maintenance interval. Ratio and
// Percent are unclamped; an overdue part keeps accruing past 1.0.
type Urgency struct {
	Ratio   float64
	Percent float64
	Status  Status
}

// Urgency classifies the instance by accrued distance over threshold.
// Tier lower bounds are inclusive: 90% is already required, 75% is soon.
func (i Instance) Urgency() Urgency {
	ratio := i.AccruedDistance / i.MaintenanceThreshold
	p := ratio * 100

	status := StatusOK
	switch {
	case p >= 90:
		status = StatusRequired
	case p >= 75:
		status = StatusSoon
	}

	return Urgency{Ratio: ratio, Percent: p, Status: status}
}

// Progress is the display proportion for progress bars, clamped to 100.
func (u Urgency) Progress() float64 {
	if u.Percent > 100 {
		return 100
	}
	return u.Percent
}
