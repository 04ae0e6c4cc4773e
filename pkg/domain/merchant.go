package domain

// Merchant is a cafe or restaurant account as returned by the listing
// endpoints. Both kinds share the same wire shape; Kind records which
// listing the value came from.
type Merchant struct {
	ID                   int         `json:"id"`
	FullName             string      `json:"fullName"`
	Phone                string      `json:"phone"`
	Email                string      `json:"email"`
	IsActive             bool        `json:"isActive"`
	ProfileImagePublicID *string     `json:"profileImage_public_id"`
	ProfileImageURL      *string     `json:"profileImage_secure_url"`
	Kind                 AccountType `json:"-"`
}
