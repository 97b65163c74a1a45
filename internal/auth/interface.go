package auth

import "context"

// TokenValidator resolves a bearer token to a user ID. The auth middleware
// depends on this instead of the concrete Service.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (string, error)
}

var _ TokenValidator = (*Service)(nil)
