package app

import "github.com/google/uuid"

// IdentityResolver decides which owner identity a request acts for.
// Identities carry no authentication; any non-empty string is accepted.
type IdentityResolver struct {
	newID func() string
}

// IdentityOption configures an IdentityResolver.
type IdentityOption func(*IdentityResolver)

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(fn func() string) IdentityOption {
	return func(r *IdentityResolver) {
		r.newID = fn
	}
}

// NewIdentityResolver creates a resolver that mints random UUIDs.
func NewIdentityResolver(opts ...IdentityOption) *IdentityResolver {
	r := &IdentityResolver{newID: uuid.NewString}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve returns supplied unchanged when it is non-empty. Otherwise it
// mints a new identity and reports minted as true.
func (r *IdentityResolver) Resolve(supplied string) (owner string, minted bool) {
	if supplied != "" {
		return supplied, false
	}

	return r.newID(), true
}
