package entities

import (
	"math"
	"time"
)

// TaxRate is applied on top of the catalog subtotal for every order.
const TaxRate = 0.18

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodOnline PaymentMethod = "online"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
	OrderStatusReturned  OrderStatus = "Returned"
)

type ReturnStatus string

const (
	ReturnStatusPending   ReturnStatus = "Pending"
	ReturnStatusApproved  ReturnStatus = "Approved"
	ReturnStatusRejected  ReturnStatus = "Rejected"
	ReturnStatusCompleted ReturnStatus = "Completed"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:   {OrderStatusShipped: true, OrderStatusCancelled: true},
	OrderStatusShipped:   {OrderStatusDelivered: true},
	OrderStatusDelivered: {OrderStatusReturned: true},
	OrderStatusCancelled: {},
	OrderStatusReturned:  {},
}

// CanTransition reports whether an order may move from one status to another.
// Reapplying the current status is allowed so that status updates stay idempotent.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	return validNext[from][to]
}

func ValidOrderStatus(s OrderStatus) bool {
	_, ok := validNext[s]
	return ok
}

func ValidReturnStatus(s ReturnStatus) bool {
	switch s {
	case ReturnStatusPending, ReturnStatusApproved, ReturnStatusRejected, ReturnStatusCompleted:
		return true
	}
	return false
}

type ShippingDetails struct {
	FullName string
	Address  string
	City     string
	State    string
	ZipCode  string
}

type OrderItem struct {
	ProductID string
	Quantity  int
}

type Order struct {
	ID              string
	UserID          string
	Items           []OrderItem
	TotalAmount     float64
	ShippingDetails ShippingDetails
	PaymentMethod   PaymentMethod
	Status          OrderStatus
	ReturnStatus    ReturnStatus // empty while no return flow is in progress
	ReturnReason    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderTotal computes subtotal plus tax from authoritative catalog prices.
func OrderTotal(items []OrderItem, prices map[string]float64) (float64, bool) {
	var subtotal float64
	for _, it := range items {
		price, ok := prices[it.ProductID]
		if !ok {
			return 0, false
		}
		subtotal += price * float64(it.Quantity)
	}
	return round2(subtotal * (1 + TaxRate)), true
}

// AmountsMatch compares a client-submitted total with the recomputed one,
// tolerating float rounding on the last cent.
func AmountsMatch(submitted, computed float64) bool {
	return math.Abs(submitted-computed) < 0.011
}
