package domain

import "time"

// ControllerStatus represents whether a controller is managed.
type ControllerStatus string

const (
	ControllerStatusActive   ControllerStatus = "active"
	ControllerStatusInactive ControllerStatus = "inactive"
)

// Controller models a wireless controller reachable by the hotspot.
// Password is the controller admin credential and is write-only at the API.
type Controller struct {
	ID         string
	Name       string
	IPAddress  string
	Port       int
	Username   string
	Password   string
	SiteID     string
	LocationID *string
	Status     ControllerStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
