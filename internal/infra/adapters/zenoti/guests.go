package zenoti

import (
	"context"

	"membership-checkout/internal/domain/model"
)

type guestPersonalInfo struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	MobilePhone struct {
		CountryCode int    `json:"country_code"`
		Number      string `json:"number"`
	} `json:"mobile_phone"`
	Gender int `json:"gender"`
}

type guestSearchResponse struct {
	Guests []struct {
		ID           string            `json:"id"`
		PersonalInfo guestPersonalInfo `json:"personal_info"`
	} `json:"guests"`
}

type guestCreateRequest struct {
	CenterID     string            `json:"center_id"`
	PersonalInfo guestPersonalInfo `json:"personal_info"`
}

type guestCreateResponse struct {
	ID           string            `json:"id"`
	PersonalInfo guestPersonalInfo `json:"personal_info"`
}

func genderFromCode(code int) model.Gender {
	if code == 1 {
		return model.GenderMale
	}
	return model.GenderFemale
}

// SearchByPhone looks up guests by local-format phone number. An empty
// result slice is a normal answer, not an error.
func (c *Client) SearchByPhone(ctx context.Context, phone string) ([]*model.CustomerRecord, error) {
	var out guestSearchResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParam("phone", phone).
		SetResult(&out).
		Get("/v1/guests/search")
	if cerr := classify(resp, err, "guest search"); cerr != nil {
		return nil, cerr
	}

	records := make([]*model.CustomerRecord, 0, len(out.Guests))
	for _, g := range out.Guests {
		records = append(records, &model.CustomerRecord{
			ID: g.ID,
			Profile: model.CustomerProfile{
				FirstName: g.PersonalInfo.FirstName,
				LastName:  g.PersonalInfo.LastName,
				Phone:     g.PersonalInfo.MobilePhone.Number,
				Gender:    genderFromCode(g.PersonalInfo.Gender),
			},
		})
	}
	return records, nil
}

// Create registers a new guest under the configured center.
func (c *Client) Create(ctx context.Context, profile *model.CustomerProfile) (*model.CustomerRecord, error) {
	req := guestCreateRequest{CenterID: c.centerID}
	req.PersonalInfo.FirstName = profile.FirstName
	req.PersonalInfo.LastName = profile.LastName
	req.PersonalInfo.MobilePhone.CountryCode = c.countryCode
	req.PersonalInfo.MobilePhone.Number = profile.Phone
	req.PersonalInfo.Gender = profile.Gender.Code()

	var out guestCreateResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		Post("/v1/guests")
	if cerr := classify(resp, err, "guest create"); cerr != nil {
		return nil, cerr
	}

	return &model.CustomerRecord{
		ID: out.ID,
		Profile: model.CustomerProfile{
			FirstName: out.PersonalInfo.FirstName,
			LastName:  out.PersonalInfo.LastName,
			Phone:     out.PersonalInfo.MobilePhone.Number,
			Gender:    genderFromCode(out.PersonalInfo.Gender),
		},
	}, nil
}
