package main

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes the fulfillment state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// orderTransitions lists the next states allowed from each status.
// Cancellation is only possible before the order ships.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
	OrderDelivered: {},
	OrderCancelled: {},
}

// IsValid tells if the status is one of the known order states.
func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo tells if moving from the current status to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem represents a single book line of an order. The subtotal is
// a derived value and must be refreshed on any quantity or unit price
// change, so mutations go through SetQuantity and SetUnitPrice.
type OrderItem struct {
	BookID    string          `json:"bookId" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// NewOrderItem builds an order item with its subtotal computed.
func NewOrderItem(bookID string, quantity int, unitPrice decimal.Decimal) OrderItem {
	item := OrderItem{BookID: bookID, Quantity: quantity, UnitPrice: unitPrice}
	item.refreshSubtotal()
	return item
}

// SetQuantity updates the quantity and recomputes the subtotal.
func (oi *OrderItem) SetQuantity(quantity int) {
	oi.Quantity = quantity
	oi.refreshSubtotal()
}

// SetUnitPrice updates the unit price and recomputes the subtotal.
func (oi *OrderItem) SetUnitPrice(unitPrice decimal.Decimal) {
	oi.UnitPrice = unitPrice
	oi.refreshSubtotal()
}

func (oi *OrderItem) refreshSubtotal() {
	oi.Subtotal = oi.UnitPrice.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}

// Order represents a customer order with its items.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId" binding:"required"`
	OrderDate       time.Time       `json:"orderDate"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          OrderStatus     `json:"status"`
	ShippingAddress string          `json:"shippingAddress" binding:"required"`
	PaymentMethod   string          `json:"paymentMethod" binding:"required"`
	Items           []OrderItem     `json:"items"`
}

// Total sums the subtotals of all items.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal)
	}
	return total
}

// OrderStorage defines possible operations on order records.
type OrderStorage interface {
	Add(ctx context.Context, order Order) error
	GetOne(ctx context.Context, id string) (Order, error)
	GetAllByUser(ctx context.Context, userID string) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) error
}
