package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type FulfillmentStatus string

const (
	FulfillmentStatusUnfulfilled FulfillmentStatus = "unfulfilled"
	FulfillmentStatusFulfilled   FulfillmentStatus = "fulfilled"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Order is the durable result of a confirmed checkout session.
// SourceSessionID is unique in the store, which is what enforces
// at-most-one order per session under concurrent confirms.
type Order struct {
	ID                string
	OrderNumber       string
	SourceSessionID   string
	UserID            string
	Status            OrderStatus
	FulfillmentStatus FulfillmentStatus
	PaymentStatus     PaymentStatus
	Amount            int64
	Currency          string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
