package domain

import "time"

// Order statuses as the backend reports them.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderCancelled = "cancelled"
	OrderDelivered = "delivered"
)

// OrderItem is a purchased line inside an order.
type OrderItem struct {
	ID        int     `json:"id"`
	OrderID   int     `json:"order_id"`
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     string  `json:"price"`
	Product   Product `json:"product"`
}

// Order is a placed order in the customer's history.
type Order struct {
	ID          int         `json:"id"`
	CustomerID  int         `json:"customer_id"`
	PaymentID   *string     `json:"payment_id"`
	Status      string      `json:"status"`
	TotalAmount string      `json:"totalAmount"`
	CreatedAt   time.Time   `json:"createdAt"`
	Items       []OrderItem `json:"order_items,omitempty"`
}
