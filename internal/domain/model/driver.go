package model

import "time"

// Driver is an actor who can accept delivery orders.
type Driver struct {
	ID          string
	Name        string
	ContactInfo string
	Status      string
	CreatedAt   time.Time
}
