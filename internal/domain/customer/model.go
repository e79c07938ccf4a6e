package customer

import (
	"time"
)

// Customer is a wholesale buyer. The tier label here is a display default;
// the tier that actually prices a line comes from the per-rule assignment
// (see the rule package).
type Customer struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Tier      string    `json:"tier" db:"tier"`
	Market    *string   `json:"market,omitempty" db:"market"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
