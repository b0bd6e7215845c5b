package models

import (
	"strings"
	"time"
)

type Order struct {
	ID              int64       `json:"id" yaml:"id"`
	Product         string      `json:"product" yaml:"product"` // free-text name, not a product id
	ShippingAddress string      `json:"shippingAddress" yaml:"shippingAddress"`
	SenderName      string      `json:"senderName" yaml:"senderName"`
	Phone           string      `json:"phone" yaml:"phone"`
	Quantity        int         `json:"quantity" yaml:"quantity"`
	Price           string      `json:"price" yaml:"price"`
	Status          OrderStatus `json:"status" yaml:"status"`
	IsCancelled     bool        `json:"isCancelled" yaml:"isCancelled"`
	Shipment        *Shipment   `json:"shipment,omitempty" yaml:"shipment"`
	ImageURL        string      `json:"imageUrl,omitempty" yaml:"imageUrl"`
	CreatedAt       time.Time   `json:"createdAt" yaml:"createdAt"`
}

// Shipment is the carrier metadata required before an order can move to
// delivering.
type Shipment struct {
	Type          string `json:"type" yaml:"type"`
	PaymentTypeID string `json:"paymentTypeId" yaml:"paymentTypeId"`
	ServiceTypeID string `json:"serviceTypeId" yaml:"serviceTypeId"`
	RequiredNote  string `json:"requiredNote" yaml:"requiredNote"`
	Note          string `json:"note,omitempty" yaml:"note"`
}

// Complete reports whether every field required for delivery is set.
func (s *Shipment) Complete() bool {
	if s == nil {
		return false
	}
	return strings.TrimSpace(s.Type) != "" &&
		strings.TrimSpace(s.PaymentTypeID) != "" &&
		strings.TrimSpace(s.ServiceTypeID) != "" &&
		strings.TrimSpace(s.RequiredNote) != ""
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderPaid       OrderStatus = "paid"
	OrderDelivering OrderStatus = "delivering"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderPaid, OrderDelivering, OrderCancelled},
	OrderPaid:       {OrderDelivering, OrderCancelled},
	OrderDelivering: {OrderDelivered},
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case OrderPending, OrderPaid, OrderDelivering, OrderDelivered, OrderCancelled:
		return status, true
	}
	return "", false
}

// CanTransition reports whether the order state machine allows from -> to.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Locked is true once the order has been handed to the carrier.
func (o Order) Locked() bool {
	return o.Status == OrderDelivering
}

// Terminal is true for delivered and cancelled orders.
func (o Order) Terminal() bool {
	return o.Status == OrderDelivered || o.Status == OrderCancelled
}

func (o *Order) Normalize() {
	if status, ok := ParseOrderStatus(string(o.Status)); ok {
		o.Status = status
	} else if o.Status == "" {
		o.Status = OrderPending
	}
	if o.IsCancelled {
		o.Status = OrderCancelled
	}
	o.IsCancelled = o.Status == OrderCancelled
}
