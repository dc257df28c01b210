package model

import "sort"

// MembershipPlan is a purchasable plan as published by the catalog provider.
// Immutable once fetched; the catalog cache owns the slice it hands out.
type MembershipPlan struct {
	ID              string
	Name            string
	SalePrice       int64 // INR, whole rupees
	ValidityMonths  int
	DiscountPercent int
}

// priceBenefits is the fixed sale-price → (validity, discount) table the
// storefront advertises. Prices outside the table keep whatever the
// provider supplied.
var priceBenefits = map[int64]struct {
	months   int
	discount int
}{
	15000:  {6, 35},
	25000:  {12, 50},
	35000:  {18, 50},
	50000:  {24, 50},
	65000:  {36, 50},
	100000: {42, 50},
}

// ApplyPriceBenefits overwrites validity and discount from the fixed
// lookup table when the sale price matches a tier.
func (p *MembershipPlan) ApplyPriceBenefits() {
	if b, ok := priceBenefits[p.SalePrice]; ok {
		p.ValidityMonths = b.months
		p.DiscountPercent = b.discount
	}
}

// SortPlansByPrice orders plans ascending by sale price, cheapest first.
func SortPlansByPrice(plans []*MembershipPlan) {
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].SalePrice < plans[j].SalePrice
	})
}
