package httpclient

import (
	"context"
	"fmt"
	"net/http"
)

// AuthValue is either a static credential or a provider consulted on every
// request. Construct one with StaticAuth or ProviderAuth.
type AuthValue interface {
	resolve(ctx context.Context) (string, error)
}

type TokenFunc func(ctx context.Context) (string, error)

type staticAuth string

func (s staticAuth) resolve(context.Context) (string, error) {
	return string(s), nil
}

type providerAuth struct {
	fn TokenFunc
}

func (p providerAuth) resolve(ctx context.Context) (string, error) {
	return p.fn(ctx)
}

func StaticAuth(value string) AuthValue {
	return staticAuth(value)
}

func ProviderAuth(fn TokenFunc) AuthValue {
	return providerAuth{fn: fn}
}

type authHeader struct {
	name  string
	value AuthValue
}

func (a *authHeader) apply(ctx context.Context, headers http.Header) error {
	if a == nil || a.name == "" || a.value == nil {
		return nil
	}

	value, err := a.value.resolve(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	headers.Set(a.name, value)

	return nil
}
