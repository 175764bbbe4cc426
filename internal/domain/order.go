package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusPacked     OrderStatus = "Packed"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
)

// Statuses lists every accepted status. They are an unordered choice, not a lifecycle.
var Statuses = []OrderStatus{StatusProcessing, StatusPacked, StatusShipped, StatusDelivered}

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseOrderStatus accepts exactly one of the four status names.
func ParseOrderStatus(v string) (OrderStatus, error) {
	s := OrderStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown order status %q: %w", v, ErrValidation)
	}
	return s, nil
}

// OrderItem is a frozen copy of a cart line taken at checkout.
type OrderItem struct {
	CartLine
	Title     string `json:"title,omitempty"`
	UnitPrice int64  `json:"unitPrice"`
}

type Order struct {
	ID        string      `json:"id"`
	Customer  Customer    `json:"customer"`
	Items     []OrderItem `json:"items"`
	Total     int64       `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}
