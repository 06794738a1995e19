package schema

import (
	"fmt"

	"github.com/google/uuid"
)

type (
	// Context distinguishes which artifact's resource list is being
	// configured. The server may return different schemas for each.
	Context string

	// FetchKey identifies one schema fetch. It is the cache key, and any
	// change to it obligates a refetch of the governed form.
	FetchKey struct {
		ResourceTypeID  uuid.UUID
		CloudProviderID uuid.UUID
		Context         Context
		Actor           string
	}
)

const (
	ContextBlueprint Context = "blueprint"
	ContextStack     Context = "stack"
)

func (c Context) IsValid() bool {
	return c == ContextBlueprint || c == ContextStack
}

// IsComplete reports whether the key carries both governing identifiers.
// Incomplete keys must never reach the transport.
func (k FetchKey) IsComplete() bool {
	return k.ResourceTypeID != uuid.Nil && k.CloudProviderID != uuid.Nil
}

func (k FetchKey) Validate() error {
	if k.ResourceTypeID == uuid.Nil {
		return fmt.Errorf("fetch key has no resource type")
	}
	if k.CloudProviderID == uuid.Nil {
		return fmt.Errorf("fetch key has no cloud provider")
	}
	if !k.Context.IsValid() {
		return fmt.Errorf("fetch key has unknown context %q", k.Context)
	}
	return nil
}

func (k FetchKey) String() string {
	if k.Actor == "" {
		return fmt.Sprintf("%s/%s/%s", k.Context, k.ResourceTypeID, k.CloudProviderID)
	}
	return fmt.Sprintf("%s/%s/%s@%s", k.Context, k.ResourceTypeID, k.CloudProviderID, k.Actor)
}
