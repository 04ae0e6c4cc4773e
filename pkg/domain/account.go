package domain

// AccountType is the closed set of account kinds the platform knows about.
// It selects both the login/registration payload shape and the listing
// endpoint for merchant accounts.
type AccountType string

const (
	AccountCustomer   AccountType = "customer"
	AccountCafe       AccountType = "cafe"
	AccountRestaurant AccountType = "restaurant"
)

// accountTypes is the canonical ordering used for cycling in forms.
var accountTypes = []AccountType{AccountCustomer, AccountCafe, AccountRestaurant}

// listingPaths maps merchant account types to their listing endpoint and the
// envelope key the backend nests the result under. Built once; call sites must
// not re-derive paths ad hoc.
var listingPaths = map[AccountType]struct {
	Path string
	Key  string
}{
	AccountCafe:       {Path: "/cafe/all-cafes", Key: "cafes"},
	AccountRestaurant: {Path: "/restaurant/all-restaurants", Key: "restaurants"},
}

// AccountTypes returns all valid account types in display order.
func AccountTypes() []AccountType {
	out := make([]AccountType, len(accountTypes))
	copy(out, accountTypes)
	return out
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountCustomer, AccountCafe, AccountRestaurant:
		return true
	}
	return false
}

// Next returns the account type after t in display order, wrapping around.
func (t AccountType) Next() AccountType {
	for i, a := range accountTypes {
		if a == t {
			return accountTypes[(i+1)%len(accountTypes)]
		}
	}
	return accountTypes[0]
}

// ListingEndpoint returns the merchant listing path and envelope key for t.
// The second return is false for non-merchant types.
func (t AccountType) ListingEndpoint() (path, key string, ok bool) {
	e, ok := listingPaths[t]
	return e.Path, e.Key, ok
}
