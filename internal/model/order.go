package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s accepts no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeout  OrderType = "takeout"
	OrderTypeDelivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeout, OrderTypeDelivery:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded, PaymentStatusFailed:
		return true
	}
	return false
}

type Order struct {
	ID                 int64           `json:"ID"`
	BusinessID         int64           `json:"businessID"`
	CustomerID         *int64          `json:"customerID,omitempty"`
	OrderNumber        string          `json:"orderNumber"`
	OrderType          OrderType       `json:"orderType"`
	Status             OrderStatus     `json:"status"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	TaxAmount          decimal.Decimal `json:"taxAmount"`
	TipAmount          decimal.Decimal `json:"tipAmount"`
	DeliveryFee        decimal.Decimal `json:"deliveryFee"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	PaymentStatus      PaymentStatus   `json:"paymentStatus"`
	Items              []OrderItem     `json:"items"`
	ConfirmedAt        *time.Time      `json:"confirmedAt,omitempty"`
	PreparingAt        *time.Time      `json:"preparingAt,omitempty"`
	ReadyAt            *time.Time      `json:"readyAt,omitempty"`
	CompletedAt        *time.Time      `json:"completedAt,omitempty"`
	CancelledAt        *time.Time      `json:"cancelledAt,omitempty"`
	CancellationReason *string         `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

type OrderItem struct {
	ID             int64               `json:"ID"`
	OrderID        int64               `json:"orderID"`
	MenuItemID     int64               `json:"menuItemID"`
	Name           string              `json:"name"`
	UnitPrice      decimal.Decimal     `json:"unitPrice"`
	Quantity       int                 `json:"quantity"`
	Modifiers      []OrderItemModifier `json:"modifiers"`
	ModifiersTotal decimal.Decimal     `json:"modifiersTotal"`
	LineTotal      decimal.Decimal     `json:"lineTotal"`
}

// OrderItemModifier is a priced customization snapshotted onto the order
// line, so later menu edits never change what was sold.
type OrderItemModifier struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type StatusChange struct {
	ID        int64       `json:"ID"`
	OrderID   int64       `json:"orderID"`
	Status    OrderStatus `json:"status"`
	Reason    *string     `json:"reason,omitempty"`
	ChangedAt time.Time   `json:"changedAt"`
}

type CreateOrderInput struct {
	CustomerID     *int64                 `json:"customerID"`
	OrderType      string                 `json:"orderType"`
	Items          []CreateOrderItemInput `json:"items"`
	TipAmount      decimal.Decimal        `json:"tipAmount"`
	DeliveryFee    decimal.Decimal        `json:"deliveryFee"`
	DiscountAmount decimal.Decimal        `json:"discountAmount"`
}

type CreateOrderItemInput struct {
	MenuItemID int64               `json:"menuItemID"`
	Name       string              `json:"name"`
	UnitPrice  decimal.Decimal     `json:"unitPrice"`
	Quantity   int                 `json:"quantity"`
	Modifiers  []OrderItemModifier `json:"modifiers"`
}

type TransitionInput struct {
	Status string  `json:"status"`
	Reason *string `json:"reason"`
}

type PaymentInput struct {
	PaymentStatus string `json:"paymentStatus"`
}
