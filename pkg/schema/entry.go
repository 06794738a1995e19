package schema

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

type (
	// DataType is the declared type of a configurable property. It determines
	// which validation rules apply and which input widget edits the value.
	DataType string

	// AllowedValue is one selectable option for a LIST property.
	AllowedValue struct {
		Value string `json:"value" yaml:"value"`
		Label string `json:"label" yaml:"label"`
	}

	// ValidationRules is the per-type rule variant attached to an entry:
	// Min/Max for NUMBER, AllowedValues for LIST, empty otherwise.
	ValidationRules struct {
		Min           *float64       `json:"min,omitempty" yaml:"min,omitempty" mapstructure:"min"`
		Max           *float64       `json:"max,omitempty" yaml:"max,omitempty" mapstructure:"max"`
		AllowedValues []AllowedValue `json:"allowedValues,omitempty" yaml:"allowedValues,omitempty" mapstructure:"allowedValues"`
	}

	// PropertySchemaEntry declares a single configurable property for one
	// resource type × cloud provider mapping.
	PropertySchemaEntry struct {
		ID           uuid.UUID       `json:"id" yaml:"id"`
		MappingID    uuid.UUID       `json:"mappingId" yaml:"mappingId"`
		PropertyName string          `json:"propertyName" yaml:"propertyName"`
		DisplayName  string          `json:"displayName" yaml:"displayName"`
		Description  string          `json:"description,omitempty" yaml:"description,omitempty"`
		DataType     DataType        `json:"dataType" yaml:"dataType"`
		Required     bool            `json:"required" yaml:"required"`
		DefaultValue string          `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
		Rules        ValidationRules `json:"validationRules,omitempty" yaml:"validationRules,omitempty"`
		DisplayOrder int             `json:"displayOrder" yaml:"displayOrder"`
	}

	// Schema is one fetch result: the entries that apply to a resource type ×
	// cloud provider combination, plus the names the server resolved for both.
	Schema struct {
		ResourceTypeID    uuid.UUID             `json:"resourceTypeId" yaml:"resourceTypeId"`
		ResourceTypeName  string                `json:"resourceTypeName,omitempty" yaml:"resourceTypeName,omitempty"`
		CloudProviderID   uuid.UUID             `json:"cloudProviderId" yaml:"cloudProviderId"`
		CloudProviderName string                `json:"cloudProviderName,omitempty" yaml:"cloudProviderName,omitempty"`
		Properties        []PropertySchemaEntry `json:"properties" yaml:"properties"`
	}
)

const (
	DataTypeString  DataType = "STRING"
	DataTypeNumber  DataType = "NUMBER"
	DataTypeBoolean DataType = "BOOLEAN"
	DataTypeList    DataType = "LIST"
)

func (dt DataType) IsValid() bool {
	switch dt {
	case DataTypeString, DataTypeNumber, DataTypeBoolean, DataTypeList:
		return true
	}
	return false
}

// HasDefault reports whether the entry declares a default value.
// Defaults are string-encoded scalars; an empty string means "no default".
func (e PropertySchemaEntry) HasDefault() bool {
	return e.DefaultValue != ""
}

// SortEntries orders entries by ascending DisplayOrder. The sort is stable:
// entries sharing a DisplayOrder keep their fetch order.
func SortEntries(entries []PropertySchemaEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DisplayOrder < entries[j].DisplayOrder
	})
}

// CheckEntries verifies the invariants of one fetch result: every entry names
// a known data type and property names are unique within the result.
func CheckEntries(entries []PropertySchemaEntry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.PropertyName == "" {
			return fmt.Errorf("schema entry %s has no property name", entry.ID)
		}
		if !entry.DataType.IsValid() {
			return fmt.Errorf("property %q has unknown data type %q", entry.PropertyName, entry.DataType)
		}
		if _, dup := seen[entry.PropertyName]; dup {
			return fmt.Errorf("duplicate property name %q in schema", entry.PropertyName)
		}
		seen[entry.PropertyName] = struct{}{}
	}
	return nil
}

// DecodeRules converts the loosely-typed validation_rules payload the server
// stores (a JSON object) into the typed variant.
func DecodeRules(raw map[string]any) (ValidationRules, error) {
	var rules ValidationRules
	if len(raw) == 0 {
		return rules, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rules,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return rules, err
	}
	if err := decoder.Decode(raw); err != nil {
		return rules, fmt.Errorf("could not decode validation rules: %w", err)
	}
	return rules, nil
}
