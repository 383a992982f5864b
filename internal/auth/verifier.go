// Package auth verifies bearer tokens issued by the identity provider and
// checks the permissions they carry.
package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/golang-jwt/jwt/v5"
	jose "gopkg.in/go-jose/go-jose.v2"

	"github.com/iliyamo/casting-agency/internal/config"
)

// Claims is the verified token payload.  Permissions is nil when the token
// has no permissions claim and empty when the claim is an empty list.
type Claims struct {
	jwt.RegisteredClaims
	Permissions []string `json:"permissions"`
}

// KeySource fetches the provider's signing keys.  *jwks.CachingProvider
// satisfies it and returns a *jose.JSONWebKeySet.
type KeySource interface {
	KeyFunc(ctx context.Context) (interface{}, error)
}

// Verifier validates RS256 bearer tokens against a JWKS key set.
type Verifier struct {
	keys         KeySource
	audience     string
	issuer       string
	fetchTimeout time.Duration
	logger       *slog.Logger
}

// NewVerifier builds a Verifier for the configured identity provider with a
// cached JWKS provider pointed at its well-known document.
func NewVerifier(cfg config.AuthConfig, logger *slog.Logger) (*Verifier, error) {
	issuerURL, err := url.Parse(cfg.Issuer())
	if err != nil {
		return nil, fmt.Errorf("invalid issuer URL: %w", err)
	}
	jwksURL, err := url.Parse(cfg.JWKSURL())
	if err != nil {
		return nil, fmt.Errorf("invalid JWKS URL: %w", err)
	}
	provider := jwks.NewCachingProvider(issuerURL, cfg.CacheTTL, jwks.WithCustomJWKSURI(jwksURL))
	return New(provider, cfg.Audience, cfg.Issuer(), cfg.FetchTimeout, logger), nil
}

// New returns a Verifier reading keys from keys.  A non-positive
// fetchTimeout leaves key fetches bounded only by ctx.
func New(keys KeySource, audience, issuer string, fetchTimeout time.Duration, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		keys:         keys,
		audience:     audience,
		issuer:       issuer,
		fetchTimeout: fetchTimeout,
		logger:       logger.With("component", "token_verifier"),
	}
}

// BearerToken extracts the token from an Authorization header value.  The
// scheme is matched case-insensitively and exactly two parts are required.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingAuthHeader
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", ErrMalformedHeader
	}
	return parts[1], nil
}

// Verify checks the Authorization header value and returns the token's
// claims.  Signature, algorithm, audience, issuer and time claims are all
// validated; failures are reported with this package's sentinel errors.
func (v *Verifier) Verify(ctx context.Context, header string) (*Claims, error) {
	raw, err := BearerToken(header)
	if err != nil {
		return nil, err
	}

	unverified, _, err := jwt.NewParser().ParseUnverified(raw, &Claims{})
	if err != nil {
		v.logger.DebugContext(ctx, "token header unreadable", "token", safeTokenLog(raw), "error", err)
		return nil, ErrUnparseableToken
	}
	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		return nil, ErrMalformedHeader
	}

	key, err := v.signingKey(ctx, kid)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return key, nil },
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.audience),
		jwt.WithIssuer(v.issuer),
	)
	if err != nil {
		classified := classify(err)
		v.logger.InfoContext(ctx, "token rejected",
			"token", safeTokenLog(raw),
			"kid", kid,
			"error", err,
			"error_type", classified)
		return nil, classified
	}
	return claims, nil
}

func (v *Verifier) signingKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if v.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.fetchTimeout)
		defer cancel()
	}
	got, err := v.keys.KeyFunc(ctx)
	if err != nil {
		v.logger.WarnContext(ctx, "jwks fetch failed", "error", err)
		return nil, ErrKeyNotFound
	}
	set, ok := got.(*jose.JSONWebKeySet)
	if !ok {
		v.logger.WarnContext(ctx, "jwks provider returned unexpected type", "type", fmt.Sprintf("%T", got))
		return nil, ErrKeyNotFound
	}
	for _, k := range set.Key(kid) {
		if pub, ok := k.Key.(*rsa.PublicKey); ok {
			return pub, nil
		}
	}
	return nil, ErrKeyNotFound
}

// classify maps jwt validation errors onto the verifier's sentinels.  Expiry
// is checked first so an expired token with a bad audience still reports
// expiry.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrInvalidClaims
	default:
		return ErrUnparseableToken
	}
}

// safeTokenLog keeps only the ends of a token for log lines.
func safeTokenLog(token string) string {
	if len(token) <= 16 {
		return "[redacted]"
	}
	return token[:8] + "..." + token[len(token)-8:]
}
