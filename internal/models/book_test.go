package models

import "testing"

func i64(v int64) *int64 { return &v }

func TestValidatePrice(t *testing.T) {
	lease := func(perDay int64, min, max int) *LeasePrice {
		return &LeasePrice{PerDayCents: perDay, MinDays: min, MaxDays: max}
	}

	tests := []struct {
		name       string
		book       Book
		wantFields []string
	}{
		{
			"sale with sale price",
			Book{ListingType: ListingSale, Price: Price{SaleCents: i64(1500)}},
			nil,
		},
		{
			"sale missing sale price",
			Book{ListingType: ListingSale},
			[]string{"price.sale"},
		},
		{
			"sale zero price",
			Book{ListingType: ListingSale, Price: Price{SaleCents: i64(0)}},
			[]string{"price.sale"},
		},
		{
			"sale with stray lease price",
			Book{ListingType: ListingSale, Price: Price{SaleCents: i64(1500), Lease: lease(10, 1, 0)}},
			[]string{"price.lease"},
		},
		{
			"lease with lease price and terms",
			Book{ListingType: ListingLease, LeaseTerms: "return in good condition", Price: Price{Lease: lease(10, 1, 30)}},
			nil,
		},
		{
			"lease missing lease price",
			Book{ListingType: ListingLease},
			[]string{"price.lease.per_day"},
		},
		{
			"lease with stray sale price",
			Book{ListingType: ListingLease, LeaseTerms: "terms", Price: Price{SaleCents: i64(500), Lease: lease(10, 1, 0)}},
			[]string{"price.sale"},
		},
		{
			"lease min below one",
			Book{ListingType: ListingLease, LeaseTerms: "terms", Price: Price{Lease: lease(10, 0, 0)}},
			[]string{"price.lease.min_duration"},
		},
		{
			"lease max below min",
			Book{ListingType: ListingLease, LeaseTerms: "terms", Price: Price{Lease: lease(10, 7, 3)}},
			[]string{"price.lease.max_duration"},
		},
		{
			"lease missing terms",
			Book{ListingType: ListingLease, Price: Price{Lease: lease(10, 1, 0)}},
			[]string{"lease_terms"},
		},
		{
			"both requires both halves",
			Book{ListingType: ListingBoth},
			[]string{"price.sale", "price.lease.per_day"},
		},
		{
			"both fully priced",
			Book{ListingType: ListingBoth, LeaseTerms: "terms", Price: Price{SaleCents: i64(2000), Lease: lease(15, 1, 14)}},
			nil,
		},
	}

	for _, tt := range tests {
		errs := tt.book.ValidatePrice()
		if len(errs) != len(tt.wantFields) {
			t.Errorf("%s: got %d errors %v, want %d", tt.name, len(errs), errs, len(tt.wantFields))
			continue
		}
		for i, f := range tt.wantFields {
			if errs[i].Field != f {
				t.Errorf("%s: error %d field = %q, want %q", tt.name, i, errs[i].Field, f)
			}
		}
	}
}

func TestListingTypePredicates(t *testing.T) {
	tests := []struct {
		lt       ListingType
		sellable bool
		leasable bool
	}{
		{ListingSale, true, false},
		{ListingLease, false, true},
		{ListingBoth, true, true},
	}
	for _, tt := range tests {
		if got := tt.lt.Sellable(); got != tt.sellable {
			t.Errorf("%s.Sellable() = %v, want %v", tt.lt, got, tt.sellable)
		}
		if got := tt.lt.Leasable(); got != tt.leasable {
			t.Errorf("%s.Leasable() = %v, want %v", tt.lt, got, tt.leasable)
		}
	}
}

func TestValidGenre(t *testing.T) {
	if !ValidGenre("Fantasy") {
		t.Error("ValidGenre(Fantasy) = false")
	}
	if ValidGenre("fantasy") || ValidGenre("") || ValidGenre("Cooking") {
		t.Error("ValidGenre accepted an unknown genre")
	}
}
