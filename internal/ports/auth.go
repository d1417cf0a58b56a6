package ports

import "time"

// Authorizer validates the credential of an export run
type Authorizer interface {
	// Authorize returns an error if the credential may not start a run
	Authorize(credential string) error

	// Issue mints a credential valid for ttl
	Issue(ttl time.Duration) (string, error)
}
