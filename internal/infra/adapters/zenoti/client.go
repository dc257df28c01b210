// Package zenoti implements the catalog, guest-registry, and billing ports
// against the Zenoti REST API. All three share one base URL and API key.
package zenoti

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"membership-checkout/internal/config"
	"membership-checkout/internal/domain"
	"membership-checkout/internal/domain/ports/adapter"
)

var (
	_ adapter.CatalogSource    = (*Client)(nil)
	_ adapter.CustomerRegistry = (*Client)(nil)
	_ adapter.BillingService   = (*Client)(nil)
)

type Client struct {
	rc          *resty.Client
	centerID    string
	countryCode int
	log         *zerolog.Logger
}

func NewClient(cfg config.ZenotiConfig, logger *zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("zenoti api key empty")
	}
	if cfg.CenterID == "" {
		return nil, fmt.Errorf("zenoti center id empty")
	}
	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(15 * time.Second).
		SetHeader("accept", "application/json").
		SetHeader("Authorization", "apikey "+cfg.APIKey)
	return &Client{rc: rc, centerID: cfg.CenterID, countryCode: cfg.CountryCode, log: logger}, nil
}

// classify maps transport and HTTP-level failures onto the domain taxonomy.
// 429 is its own kind so retry policies can recognize it.
func classify(resp *resty.Response, err error, what string) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrProvider, what, err)
	}
	if resp.StatusCode() == 429 {
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, what)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: %s: http %d", domain.ErrProvider, what, resp.StatusCode())
	}
	return nil
}
