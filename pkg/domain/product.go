package domain

// ProductImage is an opaque image reference plus its last known URL.
// The public ID is resolved to a fetchable URL through /auth/get-file.
type ProductImage struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url,omitempty"`
}

// Product is a sellable item offered by a cafe or restaurant.
type Product struct {
	ID                int            `json:"id"`
	CategoryID        int            `json:"category_id"`
	CafeID            *int           `json:"cafe_id"`
	RestaurantID      *int           `json:"restaurant_id"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	Price             string         `json:"price"`
	IsAvailable       bool           `json:"isAvailable"`
	AvailableQuantity int            `json:"availableQuantity"`
	Images            []ProductImage `json:"images,omitempty"`
}

// Category groups products.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
