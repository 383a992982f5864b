package auth

import "errors"

// Token verification and permission failures.  The HTTP layer maps each of
// these to a status code; the text is only logged.
var (
	ErrMissingAuthHeader       = errors.New("authorization header is expected")
	ErrMalformedHeader         = errors.New("authorization header must be a bearer token")
	ErrKeyNotFound             = errors.New("unable to find the appropriate key")
	ErrTokenExpired            = errors.New("token expired")
	ErrInvalidClaims           = errors.New("incorrect claims, check the audience and issuer")
	ErrUnparseableToken        = errors.New("unable to parse authentication token")
	ErrPermissionsClaimMissing = errors.New("permissions not included in token")
	ErrPermissionDenied        = errors.New("permission not found")
)
