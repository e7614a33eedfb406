package models

import "time"

// User is a named account holder. The name is the lookup key everywhere.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}
