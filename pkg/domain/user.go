package domain

// UserProfile is the backend's denormalized view of the authenticated user.
type UserProfile struct {
	ID                   int     `json:"id"`
	FullName             string  `json:"fullName"`
	Email                string  `json:"email"`
	Phone                string  `json:"phone"`
	IsActive             bool    `json:"isActive"`
	ProfileImagePublicID *string `json:"profileImage_public_id"`
	PricingPlan          string  `json:"pricingPlan,omitempty"`
	AvailableCredits     int     `json:"availableCredits,omitempty"`
}

// TokenPair is a freshly issued access/refresh credential pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
