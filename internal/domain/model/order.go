package model

import (
	"strings"
	"time"
)

const (
	// FallbackLabel is rendered in place of a missing descriptor.
	FallbackLabel = "N/A"
	// NoNotesLabel is rendered when an order carries no notes.
	NoNotesLabel = "No notes available."
)

// Descriptor is a joined name-only reference (item or restaurant).
type Descriptor struct {
	Name string
}

// Label returns descriptor name or the fallback label when absent.
func (d *Descriptor) Label() string {
	if d == nil || d.Name == "" {
		return FallbackLabel
	}
	return d.Name
}

// Order is an inventory request waiting for or claimed by a driver.
type Order struct {
	ID               int64
	Quantity         float64
	Unit             string
	Status           string
	Notes            *string
	CalledDriver     bool
	DriverAccepted   bool
	AcceptedDriverID *string
	Code             string
	Item             *Descriptor
	Restaurant       *Descriptor
	CreatedAt        time.Time
}

// NotesLabel returns order notes or a placeholder.
func (o Order) NotesLabel() string {
	if o.Notes == nil || strings.TrimSpace(*o.Notes) == "" {
		return NoNotesLabel
	}
	return *o.Notes
}

// AcceptedBy reports whether driverID is the accepting driver.
func (o Order) AcceptedBy(driverID string) bool {
	return o.AcceptedDriverID != nil && *o.AcceptedDriverID == driverID
}

// Unclaimed reports whether no driver has definitively claimed the order.
// driver_accepted=true with a null driver id counts as unclaimed.
func (o Order) Unclaimed() bool {
	return !o.DriverAccepted || o.AcceptedDriverID == nil
}

// ChangeOp names the row operation behind a change notification.
type ChangeOp string

const (
	ChangeInsert ChangeOp = "INSERT"
	ChangeUpdate ChangeOp = "UPDATE"
	ChangeDelete ChangeOp = "DELETE"
)

// OrderChange is a notification that a called-driver order changed.
type OrderChange struct {
	Op      ChangeOp
	OrderID int64
}
