package types

import "time"

// OrderStatus is the processing state of an order.
type OrderStatus string

// Supported order statuses.
const (
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusFailed    OrderStatus = "failed"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusPending, OrderStatusFailed:
		return true
	default:
		return false
	}
}

// Order represents a customer purchase shown in the orders table.
type Order struct {
	// ID is the unique identifier of the order. Order ids start at 12345.
	ID int `json:"id" db:"id"`

	// CustomerID identifies the purchasing customer. It is not checked
	// against the user table.
	CustomerID int `json:"customerId" db:"customer_id"`

	// CustomerName is the display name of the customer.
	CustomerName string `json:"customerName" db:"customer_name"`

	// CustomerEmail is the contact address of the customer.
	CustomerEmail string `json:"customerEmail" db:"customer_email"`

	// CustomerAvatar is an optional image URL; null when absent.
	CustomerAvatar *string `json:"customerAvatar" db:"customer_avatar"`

	// Amount is the order total.
	Amount float64 `json:"amount" db:"amount"`

	// Status is the processing state of the order.
	Status OrderStatus `json:"status" db:"status"`

	// CreatedAt is stamped by the store on creation and never changes.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// NewOrder holds the caller-supplied fields for creating an order.
type NewOrder struct {
	CustomerID     int         `json:"customerId" yaml:"customerId"`
	CustomerName   string      `json:"customerName" yaml:"customerName"`
	CustomerEmail  string      `json:"customerEmail" yaml:"customerEmail"`
	CustomerAvatar *string     `json:"customerAvatar,omitempty" yaml:"customerAvatar,omitempty"`
	Amount         float64     `json:"amount" yaml:"amount"`
	Status         OrderStatus `json:"status" yaml:"status"`
}

// Build returns the order record described by n with the given identity.
func (n NewOrder) Build(id int, createdAt time.Time) Order {
	return Order{
		ID:             id,
		CustomerID:     n.CustomerID,
		CustomerName:   n.CustomerName,
		CustomerEmail:  n.CustomerEmail,
		CustomerAvatar: nonEmpty(n.CustomerAvatar),
		Amount:         n.Amount,
		Status:         n.Status,
		CreatedAt:      createdAt,
	}
}

// OrderPatch lists the order fields an update may change. Nil fields are
// left untouched.
type OrderPatch struct {
	CustomerID     *int         `json:"customerId,omitempty"`
	CustomerName   *string      `json:"customerName,omitempty"`
	CustomerEmail  *string      `json:"customerEmail,omitempty"`
	CustomerAvatar *string      `json:"customerAvatar,omitempty"`
	Amount         *float64     `json:"amount,omitempty"`
	Status         *OrderStatus `json:"status,omitempty"`
}

// Apply returns a copy of o with the patch fields overwritten.
func (p OrderPatch) Apply(o Order) Order {
	if p.CustomerID != nil {
		o.CustomerID = *p.CustomerID
	}
	if p.CustomerName != nil {
		o.CustomerName = *p.CustomerName
	}
	if p.CustomerEmail != nil {
		o.CustomerEmail = *p.CustomerEmail
	}
	if p.CustomerAvatar != nil {
		o.CustomerAvatar = cloneString(p.CustomerAvatar)
	}
	if p.Amount != nil {
		o.Amount = *p.Amount
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	return o
}

// Clone returns a deep copy of o.
func (o Order) Clone() Order {
	o.CustomerAvatar = cloneString(o.CustomerAvatar)
	return o
}
