package credential

import (
	"context"
	"errors"
)

// ErrNoToken is returned by sources that have nothing to serve.
var ErrNoToken = errors.New("credential: no access token")

// Source returns the current access token. An empty token means requests go
// out unauthenticated.
type Source interface {
	Token(ctx context.Context) (string, error)
}

// Static is a Source that always returns the same token.
type Static string

// Token returns s.
func (s Static) Token(context.Context) (string, error) { return string(s), nil }
