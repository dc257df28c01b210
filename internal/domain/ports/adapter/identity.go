package adapter

import "context"

// ChallengeProvider supplies human-verification challenge tokens. The
// verifier constructs tokens lazily and asks for a fresh one after a
// domain.ErrChallengeFailed.
type ChallengeProvider interface {
	Token(ctx context.Context) (string, error)
}

// IdentityProvider is the hex port for the phone-OTP provider.
//
// SendCode takes the E.164 phone and a challenge token and returns an
// opaque verification handle. Distinct failures: domain.ErrChallengeFailed,
// domain.ErrPhoneRejected, domain.ErrRateLimited; anything else wraps
// domain.ErrProvider.
//
// VerifyCode submits the visitor's code against the handle. Any provider
// failure (wrong code, expired handle) wraps domain.ErrVerificationFailed.
type IdentityProvider interface {
	SendCode(ctx context.Context, e164Phone, challengeToken string) (handle string, err error)
	VerifyCode(ctx context.Context, handle, code string) error
}
