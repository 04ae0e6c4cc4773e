package domain

import "testing"

func TestAccountTypeValid(t *testing.T) {
	for _, typ := range AccountTypes() {
		if !typ.Valid() {
			t.Errorf("%q reported invalid", typ)
		}
	}
	if AccountType("admin").Valid() {
		t.Error("unknown type reported valid")
	}
}

func TestAccountTypeNextCycles(t *testing.T) {
	typ := AccountCustomer
	seen := map[AccountType]bool{}
	for i := 0; i < len(AccountTypes()); i++ {
		seen[typ] = true
		typ = typ.Next()
	}
	if typ != AccountCustomer {
		t.Errorf("cycle did not wrap, ended on %q", typ)
	}
	if len(seen) != len(AccountTypes()) {
		t.Errorf("cycle visited %d types, want %d", len(seen), len(AccountTypes()))
	}
}

func TestListingEndpoint(t *testing.T) {
	path, key, ok := AccountCafe.ListingEndpoint()
	if !ok || path != "/cafe/all-cafes" || key != "cafes" {
		t.Errorf("cafe listing = %q %q %v", path, key, ok)
	}
	path, key, ok = AccountRestaurant.ListingEndpoint()
	if !ok || path != "/restaurant/all-restaurants" || key != "restaurants" {
		t.Errorf("restaurant listing = %q %q %v", path, key, ok)
	}
	if _, _, ok := AccountCustomer.ListingEndpoint(); ok {
		t.Error("customer should have no public listing")
	}
}

func TestCartSnapshotCountItems(t *testing.T) {
	zero := 0
	ten := 10
	tests := []struct {
		name string
		snap CartSnapshot
		want int
	}{
		{"server total wins", CartSnapshot{TotalItems: &ten, Items: []CartItem{{Quantity: 1}}}, 10},
		{"explicit zero total wins over lines", CartSnapshot{TotalItems: &zero, Items: []CartItem{{Quantity: 4}}}, 0},
		{"absent total sums lines", CartSnapshot{Items: []CartItem{{Quantity: 2}, {Quantity: 3}}}, 5},
		{"empty", CartSnapshot{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.CountItems(); got != tt.want {
				t.Errorf("CountItems() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSessionAuthenticated(t *testing.T) {
	if (Session{AccessToken: "a"}).Authenticated() {
		t.Error("half pair counted as authenticated")
	}
	if (Session{RefreshToken: "r"}).Authenticated() {
		t.Error("half pair counted as authenticated")
	}
	if !(Session{AccessToken: "a", RefreshToken: "r"}).Authenticated() {
		t.Error("full pair not authenticated")
	}
}
