// Package store holds persistence-side entities. It is loaded by the
// analyze tests as a real Go package.
package store

import (
	"time"
)

// Entity is implemented by everything that has a database identity.
type Entity interface {
	EntityID() int64
}

// Customer represents the user placing orders.
type Customer struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	FullName string  `json:"full_name"`
	Address  *string `json:"address"`
}

// EntityID implements Entity.
func (c *Customer) EntityID() int64 { return c.ID }

// Order represents a transaction made by a customer.
type Order struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customer_id"`
	Status     OrderStatus `json:"status"`
	Items      OrderItems  `json:"items"`
	OrderedAt  time.Time   `json:"ordered_at"`
}

// EntityID implements Entity.
func (o Order) EntityID() int64 { return o.ID }

// OrderItem represents a specific product line within an order.
type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderItems is the has-many side of Order.
type OrderItems []OrderItem

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending OrderStatus = "PENDING"
	StatusPaid    OrderStatus = "PAID"
)

// Page is a generic result window.
type Page[T any] struct {
	Items []T
	Next  string
}
