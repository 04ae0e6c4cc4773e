package domain

// Address is a saved delivery address.
type Address struct {
	ID        int     `json:"id"`
	UserID    int     `json:"user_id"`
	UserType  string  `json:"user_type"`
	Label     *string `json:"label"`
	City      string  `json:"city"`
	Area      *string `json:"area"`
	Street    *string `json:"street"`
	Building  *string `json:"building"`
	Floor     *string `json:"floor"`
	Apartment *string `json:"apartment"`
	IsDefault bool    `json:"isDefault"`
}
