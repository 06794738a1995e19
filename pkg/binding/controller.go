// Package binding owns the list of resources declared on a parent artifact
// (blueprint or stack). It is authoritative for what gets saved; the dynamic
// forms it spawns are controlled components whose only outward channel is
// their change notification.
package binding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/iancoleman/strcase"

	"github.com/angryss/idp-config/pkg/fetch"
	"github.com/angryss/idp-config/pkg/forms"
	"github.com/angryss/idp-config/pkg/schema"
	"github.com/angryss/idp-config/pkg/validation"
)

type (
	// Resource is one declared resource and its supplied configuration.
	Resource struct {
		ResourceTypeID   uuid.UUID            `json:"resourceTypeId" yaml:"resourceTypeId"`
		ResourceTypeName string               `json:"resourceTypeName" yaml:"resourceTypeName"`
		CloudProviderID  uuid.UUID            `json:"cloudProviderId" yaml:"cloudProviderId"`
		Name             string               `json:"name" yaml:"name"`
		Configuration    schema.Configuration `json:"configuration" yaml:"configuration"`
	}

	boundResource struct {
		Resource
		form *forms.Orchestrator
	}

	// Controller maintains the resource list for one artifact. Each resource
	// owns an independent form orchestrator keyed by that resource's
	// (resourceType, cloudProvider, context, actor).
	Controller struct {
		source   fetch.Source
		artifact schema.Context
		actor    string
		editMode bool

		mu         sync.Mutex
		resources  []*boundResource
		nameCounts map[string]int
	}
)

func NewController(source fetch.Source, artifact schema.Context, actor string, editMode bool) *Controller {
	return &Controller{
		source:     source,
		artifact:   artifact,
		actor:      actor,
		editMode:   editMode,
		nameCounts: make(map[string]int),
	}
}

// Add appends a resource with an empty configuration and a display name
// derived from the chosen resource type. The resource starts without a cloud
// provider; its form short-circuits until one is selected.
func (c *Controller) Add(ctx context.Context, resourceTypeID uuid.UUID, resourceTypeName string) <-chan struct{} {
	c.mu.Lock()
	bound := &boundResource{
		Resource: Resource{
			ResourceTypeID:   resourceTypeID,
			ResourceTypeName: resourceTypeName,
			Name:             c.deriveName(resourceTypeName),
			Configuration:    schema.Configuration{},
		},
	}
	bound.form = forms.New(c.source, forms.Props{
		ResourceTypeID: resourceTypeID,
		Context:        c.artifact,
		Actor:          c.actor,
		Configuration:  bound.Configuration,
		OnChange:       c.changeHandler(bound),
		IsEditMode:     c.editMode,
	})
	c.resources = append(c.resources, bound)
	c.mu.Unlock()
	return bound.form.Mount(ctx)
}

// Restore appends an existing resource (edit mode) with its saved
// configuration and mounts its form under the saved key.
func (c *Controller) Restore(ctx context.Context, resource Resource) <-chan struct{} {
	c.mu.Lock()
	bound := &boundResource{Resource: resource}
	bound.Configuration = resource.Configuration.Clone()
	bound.form = forms.New(c.source, forms.Props{
		ResourceTypeID:  resource.ResourceTypeID,
		CloudProviderID: resource.CloudProviderID,
		Context:         c.artifact,
		Actor:           c.actor,
		Configuration:   bound.Configuration,
		OnChange:        c.changeHandler(bound),
		IsEditMode:      c.editMode,
	})
	c.resources = append(c.resources, bound)
	c.mu.Unlock()
	return bound.form.Mount(ctx)
}

// Remove deletes the resource at i. Sibling resources, their provider
// selections, and their configurations are untouched.
func (c *Controller) Remove(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.resources) {
		return fmt.Errorf("no resource at index %d", i)
	}
	c.resources = append(c.resources[:i], c.resources[i+1:]...)
	return nil
}

// SetCloudProvider changes the provider for the resource at i. The
// configuration is unconditionally replaced with an empty mapping — never
// merged or partially retained — and the form re-keys, refetching under the
// new provider and re-seeding defaults in create mode. This reset is
// deliberate and is not an error.
func (c *Controller) SetCloudProvider(ctx context.Context, i int, providerID uuid.UUID) (<-chan struct{}, error) {
	c.mu.Lock()
	if i < 0 || i >= len(c.resources) {
		c.mu.Unlock()
		return nil, fmt.Errorf("no resource at index %d", i)
	}
	bound := c.resources[i]
	bound.CloudProviderID = providerID
	bound.Configuration = schema.Configuration{}
	key := schema.FetchKey{
		ResourceTypeID:  bound.ResourceTypeID,
		CloudProviderID: providerID,
		Context:         c.artifact,
		Actor:           c.actor,
	}
	c.mu.Unlock()
	return bound.form.SetKey(ctx, key, schema.Configuration{}), nil
}

// SetName renames the resource at i.
func (c *Controller) SetName(i int, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.resources) {
		return fmt.Errorf("no resource at index %d", i)
	}
	c.resources[i].Name = name
	return nil
}

// Form exposes the orchestrator for the resource at i so the surrounding UI
// can render it and route edits.
func (c *Controller) Form(i int) (*forms.Orchestrator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.resources) {
		return nil, fmt.Errorf("no resource at index %d", i)
	}
	return c.resources[i].form, nil
}

// Resources returns a snapshot of the declared resources.
func (c *Controller) Resources() []Resource {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() []Resource {
	out := make([]Resource, 0, len(c.resources))
	for _, bound := range c.resources {
		r := bound.Resource
		r.Configuration = bound.Configuration.Clone()
		out = append(out, r)
	}
	return out
}

// Save composes the outbound resource list from the controller's own state.
// It is blocked while any resource has no cloud provider selected, or while
// any resource's configuration fails validation against that resource's
// currently loaded schema.
func (c *Controller) Save() ([]Resource, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, bound := range c.resources {
		if bound.CloudProviderID == uuid.Nil {
			errs = append(errs, fmt.Errorf("resource %q has no cloud provider selected", bound.Name))
			continue
		}
		results := bound.form.Validate()
		if validation.Valid(results) {
			continue
		}
		for name, result := range results {
			if !result.Valid {
				errs = append(errs, fmt.Errorf("resource %q: %s: %s", bound.Name, name, result.Error))
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c.snapshot(), nil
}

// changeHandler routes a form's composite configuration changes back into
// the controller's copy for that resource.
func (c *Controller) changeHandler(bound *boundResource) func(schema.Configuration) {
	return func(config schema.Configuration) {
		c.mu.Lock()
		bound.Configuration = config.Clone()
		c.mu.Unlock()
	}
}

// deriveName turns a resource type name into a stable display name, with an
// ordinal suffix once the type appears more than once. The per-type counter
// never decreases, so removals cannot cause a suffix to be reissued. Caller
// must hold c.mu.
func (c *Controller) deriveName(resourceTypeName string) string {
	base := strcase.ToKebab(resourceTypeName)
	c.nameCounts[resourceTypeName]++
	n := c.nameCounts[resourceTypeName]
	if n == 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
