// Package user holds rider accounts and the admin approval workflow.
package user

import (
	"time"
)

// User is an account in the system. New registrations start unapproved and
// cannot log in until an admin approves them.
type User struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
	// Password is the raw login secret. It is never serialized; API
	// responses use dedicated structs without it.
	Password   string    `db:"password" json:"-"`
	IsAdmin    bool      `db:"is_admin"`
	IsApproved bool      `db:"is_approved"`
	CreatedAt  time.Time `db:"created_at"`
}
