package users

import "time"

// User is the local record for a Lightspeed employee who has signed in to
// SuitSync. Authentication happens entirely against Lightspeed, so there is
// no password material here.
type User struct {
	ID                   string    `json:"id"`
	LightspeedEmployeeID string    `json:"lightspeed_employee_id"`
	Email                string    `json:"email,omitempty"`
	Name                 string    `json:"name,omitempty"`
	Role                 string    `json:"role,omitempty"`
	PhotoURL             string    `json:"photo_url,omitempty"`
	CreatedAt            time.Time `json:"created_at,omitempty"`
}
