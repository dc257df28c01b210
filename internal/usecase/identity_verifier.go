// File: internal/usecase/identity_verifier.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"membership-checkout/internal/domain"
	"membership-checkout/internal/domain/model"
	"membership-checkout/internal/domain/ports/adapter"
	"membership-checkout/internal/infra/logging"
	"membership-checkout/internal/infra/metrics"
	infraRedis "membership-checkout/internal/infra/redis"
)

// Compile-time check
var _ IdentityVerifier = (*identityVerifier)(nil)

type IdentityVerifier interface {
	// SendCode validates the local phone number, throttles per phone, and
	// asks the provider to text a code. Returns the opaque verification
	// handle to present alongside the visitor's code.
	SendCode(ctx context.Context, phone string) (handle string, err error)
	// VerifyCode checks the visitor's code. Any provider rejection wraps
	// domain.ErrVerificationFailed; the caller re-prompts.
	VerifyCode(ctx context.Context, handle, code string) error
}

type identityVerifier struct {
	provider   adapter.IdentityProvider
	challenges adapter.ChallengeProvider
	limiter    *infraRedis.RateLimiter
	log        *zerolog.Logger

	countryPrefix string
	sendLimit     int
	sendWindow    time.Duration

	// mu guards the cached challenge token. The token is created lazily
	// and dropped after a challenge failure so the next send gets a fresh
	// one.
	mu    sync.Mutex
	token string
}

func NewIdentityVerifier(
	provider adapter.IdentityProvider,
	challenges adapter.ChallengeProvider,
	limiter *infraRedis.RateLimiter,
	countryPrefix string,
	sendLimit int,
	sendWindow time.Duration,
	logger *zerolog.Logger,
) *identityVerifier {
	return &identityVerifier{
		provider:      provider,
		challenges:    challenges,
		limiter:       limiter,
		log:           logger,
		countryPrefix: countryPrefix,
		sendLimit:     sendLimit,
		sendWindow:    sendWindow,
	}
}

func (v *identityVerifier) challengeToken(ctx context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.token != "" {
		return v.token, nil
	}
	tok, err := v.challenges.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: challenge token: %v", domain.ErrChallengeFailed, err)
	}
	v.token = tok
	return tok, nil
}

func (v *identityVerifier) dropChallengeToken() {
	v.mu.Lock()
	v.token = ""
	v.mu.Unlock()
}

func (v *identityVerifier) SendCode(ctx context.Context, phone string) (string, error) {
	if err := model.ValidatePhoneNumber(phone); err != nil {
		return "", err
	}

	if v.limiter != nil {
		ok, err := v.limiter.Allow(ctx, infraRedis.OTPSendKey(phone), v.sendLimit, v.sendWindow)
		if err != nil {
			v.log.Warn().Err(err).Msg("otp send limiter unavailable")
		} else if !ok {
			metrics.IncOTPSend("rate_limited")
			return "", fmt.Errorf("%w: otp sends for this phone", domain.ErrRateLimited)
		}
	}

	token, err := v.challengeToken(ctx)
	if err != nil {
		metrics.IncOTPSend("challenge_failed")
		return "", err
	}

	handle, err := v.provider.SendCode(ctx, v.countryPrefix+phone, token)
	switch {
	case err == nil:
		metrics.IncOTPSend("ok")
		v.log.Info().Str("phone", logging.Redact(phone)).Msg("verification code sent")
		return handle, nil
	case errors.Is(err, domain.ErrChallengeFailed):
		// Next send constructs a fresh token.
		v.dropChallengeToken()
		metrics.IncOTPSend("challenge_failed")
	case errors.Is(err, domain.ErrPhoneRejected):
		metrics.IncOTPSend("rejected")
	case errors.Is(err, domain.ErrRateLimited):
		metrics.IncOTPSend("rate_limited")
	default:
		metrics.IncOTPSend("error")
	}
	return "", err
}

func (v *identityVerifier) VerifyCode(ctx context.Context, handle, code string) error {
	if handle == "" {
		return fmt.Errorf("%w: no pending verification", domain.ErrVerificationFailed)
	}
	if err := v.provider.VerifyCode(ctx, handle, code); err != nil {
		metrics.IncOTPVerify("failed")
		return err
	}
	metrics.IncOTPVerify("ok")
	return nil
}
