package dto

import "time"

// DriverResponse describes the driver a page belongs to.
type DriverResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContactInfo string `json:"contact_info,omitempty"`
	Status      string `json:"status,omitempty"`
}

// OrderResponse is a rendered order card.
type OrderResponse struct {
	ID               int64     `json:"id"`
	Item             string    `json:"item"`
	Restaurant       string    `json:"restaurant"`
	Quantity         float64   `json:"quantity"`
	Unit             string    `json:"unit"`
	Status           string    `json:"status"`
	Notes            string    `json:"notes"`
	Code             string    `json:"code,omitempty"`
	AcceptedDriverID *string   `json:"accepted_driver_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// SnapshotResponse is the state of a driver page.
type SnapshotResponse struct {
	Driver    *DriverResponse `json:"driver"`
	ActiveTab string          `json:"active_tab"`
	Loading   bool            `json:"loading"`
	Pending   []OrderResponse `json:"pending"`
	Accepted  []OrderResponse `json:"accepted"`
	Error     string          `json:"error,omitempty"`
	Version   uint64          `json:"version"`
}
