// Package warehouse holds transport-side views of the store entities.
package warehouse

import (
	"time"
)

// Order is the warehouse view of a store order.
type Order struct {
	ID          uint       `json:"id"`
	OrderNumber string     `json:"order_number"`
	Status      string     `json:"status"`
	Items       []LineItem `json:"items"`
	PlacedAt    *time.Time `json:"placed_at,omitempty"`
}

// LineItem is a line within a warehouse order.
type LineItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// Shipment is declared as an interface, so it has no constructor.
type Shipment interface {
	Carrier() string
}
