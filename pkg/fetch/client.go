// Package fetch resolves property schemas from the platform API and caches
// them for the lifetime of the process. Consumers receive the cache by
// reference from the application root; there is no package-level instance.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gojek/heimdall/v7/httpclient"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/angryss/idp-config/pkg/schema"
)

const (
	// actorHeader carries the optional actor identity to the API, which may
	// return a different schema per actor.
	actorHeader = "X-Actor-Identity"

	defaultTimeout = 10 * time.Second
)

type (
	// Fetcher performs one uncached schema fetch.
	Fetcher interface {
		Fetch(ctx context.Context, key schema.FetchKey) (*schema.Schema, error)
	}

	// Client fetches schemas over HTTP from the platform API. The route is
	// GET {base}/{context}s/resource-schema/{resourceTypeId}/{cloudProviderId}.
	Client struct {
		BaseURL string
		HTTP    *httpclient.Client
	}

	entryPayload struct {
		ID              uuid.UUID      `json:"id"`
		MappingID       uuid.UUID      `json:"mappingId"`
		PropertyName    string         `json:"propertyName"`
		DisplayName     string         `json:"displayName"`
		Description     string         `json:"description"`
		DataType        string         `json:"dataType"`
		Required        bool           `json:"required"`
		DefaultValue    any            `json:"defaultValue"`
		ValidationRules map[string]any `json:"validationRules"`
		DisplayOrder    int            `json:"displayOrder"`
	}

	schemaPayload struct {
		ResourceTypeID    uuid.UUID      `json:"resourceTypeId"`
		ResourceTypeName  string         `json:"resourceTypeName"`
		CloudProviderID   uuid.UUID      `json:"cloudProviderId"`
		CloudProviderName string         `json:"cloudProviderName"`
		Properties        []entryPayload `json:"properties"`
	}
)

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    httpclient.NewClient(httpclient.WithHTTPTimeout(defaultTimeout)),
	}
}

func (c *Client) Fetch(ctx context.Context, key schema.FetchKey) (*schema.Schema, error) {
	if err := key.Validate(); err != nil {
		return nil, &FetchError{Key: key, Cause: err}
	}
	endpoint := fmt.Sprintf("%s/%ss/resource-schema/%s/%s",
		c.BaseURL, key.Context, key.ResourceTypeID, key.CloudProviderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Key: key, Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if key.Actor != "" {
		req.Header.Set(actorHeader, key.Actor)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &FetchError{Key: key, Cause: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &FetchError{Key: key, Cause: fmt.Errorf("bad response from server: %d", res.StatusCode)}
	}

	var payload schemaPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, &FetchError{Key: key, Cause: errors.Wrap(err, "malformed schema payload")}
	}
	result, err := decodeSchema(payload)
	if err != nil {
		return nil, &FetchError{Key: key, Cause: err}
	}
	return result, nil
}

func decodeSchema(payload schemaPayload) (*schema.Schema, error) {
	result := &schema.Schema{
		ResourceTypeID:    payload.ResourceTypeID,
		ResourceTypeName:  payload.ResourceTypeName,
		CloudProviderID:   payload.CloudProviderID,
		CloudProviderName: payload.CloudProviderName,
		Properties:        make([]schema.PropertySchemaEntry, 0, len(payload.Properties)),
	}
	for _, p := range payload.Properties {
		rules, err := schema.DecodeRules(p.ValidationRules)
		if err != nil {
			return nil, errors.Wrapf(err, "property %q", p.PropertyName)
		}
		result.Properties = append(result.Properties, schema.PropertySchemaEntry{
			ID:           p.ID,
			MappingID:    p.MappingID,
			PropertyName: p.PropertyName,
			DisplayName:  p.DisplayName,
			Description:  p.Description,
			DataType:     schema.DataType(p.DataType),
			Required:     p.Required,
			DefaultValue: decodeDefault(p.DefaultValue),
			Rules:        rules,
			DisplayOrder: p.DisplayOrder,
		})
	}
	if err := schema.CheckEntries(result.Properties); err != nil {
		return nil, err
	}
	schema.SortEntries(result.Properties)
	return result, nil
}

// decodeDefault normalizes a stored default to its string-encoded scalar
// form. The API persists defaults as JSON, so a string default arrives
// double-encoded (`"\"FARGATE\""`); unwrap one layer when present.
func decodeDefault(raw any) string {
	switch val := raw.(type) {
	case nil:
		return ""
	case string:
		var unwrapped any
		if err := json.Unmarshal([]byte(val), &unwrapped); err == nil {
			switch inner := unwrapped.(type) {
			case string:
				return inner
			case bool:
				return fmt.Sprintf("%t", inner)
			case float64:
				return schema.NumberValue(inner).Raw()
			}
		}
		return val
	case bool:
		return fmt.Sprintf("%t", val)
	case float64:
		return schema.NumberValue(val).Raw()
	}
	return fmt.Sprintf("%v", raw)
}
