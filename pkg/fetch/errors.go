package fetch

import (
	"fmt"

	"github.com/angryss/idp-config/pkg/schema"
)

// FetchError reports a failed schema fetch: a transport failure, a non-200
// response, or a malformed payload. It is recoverable; the owning form offers
// a retry that bypasses the cache.
type FetchError struct {
	Key   schema.FetchKey
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch schema for %s: %v", e.Key, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
