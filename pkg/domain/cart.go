package domain

// CartItem is a single line in the cart.
type CartItem struct {
	ID        int     `json:"id"`
	CartID    int     `json:"cart_id"`
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product"`
}

// Cart is the backend cart record.
type Cart struct {
	ID         int        `json:"id"`
	CustomerID int        `json:"customer_id"`
	Items      []CartItem `json:"cart_items,omitempty"`
}

// CartSnapshot is the full response of the get-cart endpoint.
// TotalItems is a pointer so "absent" and "zero" stay distinguishable:
// when the server provides a total it takes precedence over summing lines.
type CartSnapshot struct {
	Cart       Cart       `json:"cart"`
	Items      []CartItem `json:"items"`
	TotalItems *int       `json:"totalItems"`
	TotalPrice string     `json:"totalPrice"`
}

// CountItems returns the snapshot's total item quantity, preferring the
// server-provided total over a sum of per-line quantities.
func (s CartSnapshot) CountItems() int {
	if s.TotalItems != nil {
		return *s.TotalItems
	}
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}
