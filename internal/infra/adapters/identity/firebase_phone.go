// Package identity implements phone-OTP verification against the Google
// Identity Toolkit REST API.
package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"membership-checkout/internal/config"
	"membership-checkout/internal/domain"
	"membership-checkout/internal/domain/ports/adapter"
)

var (
	_ adapter.IdentityProvider  = (*FirebasePhone)(nil)
	_ adapter.ChallengeProvider = (*StaticChallenge)(nil)
)

// StaticChallenge hands out a pre-provisioned app-verification token from
// configuration. Token never fails; rotation happens by redeploying config.
type StaticChallenge struct {
	token string
}

func NewStaticChallenge(token string) *StaticChallenge {
	return &StaticChallenge{token: token}
}

func (s *StaticChallenge) Token(ctx context.Context) (string, error) {
	return s.token, nil
}

type FirebasePhone struct {
	rc  *resty.Client
	key string
	log *zerolog.Logger
}

func NewFirebasePhone(cfg config.IdentityConfig, logger *zerolog.Logger) (*FirebasePhone, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("identity api key empty")
	}
	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &FirebasePhone{rc: rc, key: cfg.APIKey, log: logger}, nil
}

type toolkitError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type sendCodeRequest struct {
	PhoneNumber    string `json:"phoneNumber"`
	RecaptchaToken string `json:"recaptchaToken"`
}

type sendCodeResponse struct {
	SessionInfo string `json:"sessionInfo"`
}

type verifyCodeRequest struct {
	SessionInfo string `json:"sessionInfo"`
	Code        string `json:"code"`
}

// mapSendError translates Identity Toolkit error codes into the domain
// taxonomy. The codes arrive as upper-snake strings, sometimes with a
// trailing explanation after " : ".
func mapSendError(message string) error {
	code := strings.TrimSpace(strings.SplitN(message, ":", 2)[0])
	switch {
	case code == "CAPTCHA_CHECK_FAILED":
		return fmt.Errorf("%w: %s", domain.ErrChallengeFailed, message)
	case code == "INVALID_PHONE_NUMBER":
		return fmt.Errorf("%w: %s", domain.ErrPhoneRejected, message)
	case strings.HasPrefix(code, "TOO_MANY"), strings.HasPrefix(code, "QUOTA"):
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, message)
	default:
		return fmt.Errorf("%w: send code: %s", domain.ErrProvider, message)
	}
}

// SendCode asks the provider to text a verification code to the phone.
// The returned handle identifies this pending verification and must be
// presented together with the visitor's code.
func (f *FirebasePhone) SendCode(ctx context.Context, e164Phone, challengeToken string) (string, error) {
	var (
		out  sendCodeResponse
		terr toolkitError
	)
	resp, err := f.rc.R().
		SetContext(ctx).
		SetQueryParam("key", f.key).
		SetBody(sendCodeRequest{PhoneNumber: e164Phone, RecaptchaToken: challengeToken}).
		SetResult(&out).
		SetError(&terr).
		Post("/v1/accounts:sendVerificationCode")
	if err != nil {
		return "", fmt.Errorf("%w: send code: %v", domain.ErrProvider, err)
	}
	if !resp.IsSuccess() {
		return "", mapSendError(terr.Error.Message)
	}
	if out.SessionInfo == "" {
		return "", fmt.Errorf("%w: send code: empty session info", domain.ErrProvider)
	}
	f.log.Debug().Msg("verification code dispatched")
	return out.SessionInfo, nil
}

// VerifyCode checks the visitor's code against a pending verification.
// Every provider-side rejection collapses into ErrVerificationFailed; the
// visitor retries or requests a new code either way.
func (f *FirebasePhone) VerifyCode(ctx context.Context, handle, code string) error {
	var terr toolkitError
	resp, err := f.rc.R().
		SetContext(ctx).
		SetQueryParam("key", f.key).
		SetBody(verifyCodeRequest{SessionInfo: handle, Code: code}).
		SetError(&terr).
		Post("/v1/accounts:signInWithPhoneNumber")
	if err != nil {
		return fmt.Errorf("%w: verify code: %v", domain.ErrProvider, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: %s", domain.ErrVerificationFailed, terr.Error.Message)
	}
	return nil
}
