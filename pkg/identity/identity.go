// Package identity resolves the user acting on the board.
package identity

import "context"

// Provider reports the current user. ok is false for anonymous callers.
type Provider interface {
	CurrentUser(ctx context.Context) (name string, ok bool)
}

// Static always reports the same user. The empty name is anonymous.
type Static string

// CurrentUser implements Provider.
func (s Static) CurrentUser(context.Context) (string, bool) {
	return string(s), s != ""
}

type userKey struct{}

// WithUser returns a context carrying name as the current user.
func WithUser(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, userKey{}, name)
}

// FromContext returns the user stored by WithUser.
func FromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(userKey{}).(string)
	return name, ok && name != ""
}

// Context reads the user from the request context.
type Context struct{}

// CurrentUser implements Provider.
func (Context) CurrentUser(ctx context.Context) (string, bool) {
	return FromContext(ctx)
}

// Chain tries each provider in order and returns the first user found.
type Chain []Provider

// CurrentUser implements Provider.
func (c Chain) CurrentUser(ctx context.Context) (string, bool) {
	for _, p := range c {
		if name, ok := p.CurrentUser(ctx); ok {
			return name, true
		}
	}
	return "", false
}
