package supplier

import (
	"github.com/xraph/larder/id"
	"github.com/xraph/larder/types"
)

type Supplier struct {
	types.Entity
	ID           id.SupplierID     `json:"id"`
	Name         string            `json:"name"`
	ContactName  string            `json:"contact_name,omitempty"`
	Email        string            `json:"email,omitempty"`
	Phone        string            `json:"phone,omitempty"`
	LeadTimeDays int               `json:"lead_time_days"`
	MinimumOrder types.Money       `json:"minimum_order"`
	Currency     string            `json:"currency"`
	LocationID   string            `json:"location_id"`
	Active       bool              `json:"active"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}
