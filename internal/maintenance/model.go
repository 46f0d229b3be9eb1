package maintenance

import "time"

// Status is the service-wide maintenance flag kept in row 0 of the normal
// table.
type Status struct {
	IsMaintenance bool       `json:"is_maintenance"`
	Message       *string    `json:"message"`
	Until         *time.Time `json:"until"`
}
