package zenoti

import (
	"context"

	"membership-checkout/internal/domain/model"
)

type membershipListResponse struct {
	Memberships []struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Price struct {
			Sales float64 `json:"sales"`
		} `json:"price"`
		ValidityInMonths   int `json:"validity_in_months"`
		DiscountPercentage int `json:"discount_percentage"`
	} `json:"memberships"`
}

// ListMemberships fetches the catalog plans shown in the storefront.
// Provider-supplied validity/discount come through as defaults; the
// tiered enrichment is applied by the catalog use case, not here.
func (c *Client) ListMemberships(ctx context.Context) ([]*model.MembershipPlan, error) {
	var out membershipListResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"center_id":       c.centerID,
			"show_in_catalog": "true",
			"expand":          "Null",
		}).
		SetResult(&out).
		Get("/v1/centers/" + c.centerID + "/memberships")
	if cerr := classify(resp, err, "list memberships"); cerr != nil {
		return nil, cerr
	}

	c.log.Debug().Int("memberships", len(out.Memberships)).Msg("zenoti catalog fetched")

	plans := make([]*model.MembershipPlan, 0, len(out.Memberships))
	for _, m := range out.Memberships {
		plans = append(plans, &model.MembershipPlan{
			ID:              m.ID,
			Name:            m.Name,
			SalePrice:       int64(m.Price.Sales),
			ValidityMonths:  m.ValidityInMonths,
			DiscountPercent: m.DiscountPercentage,
		})
	}
	return plans, nil
}
