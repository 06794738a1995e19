// Package validation checks supplied configuration values against the
// constraints their schema entries declare. Validation is strictly per field;
// no rule may inspect a sibling property's value.
package validation

import (
	"fmt"

	"github.com/angryss/idp-config/pkg/schema"
)

type (
	// Result is the outcome of validating one value against one entry.
	Result struct {
		Valid bool
		Error string
	}

	validator interface {
		validate(entry schema.PropertySchemaEntry, value schema.Value) Result
	}
)

var validators = map[schema.DataType]validator{
	schema.DataTypeString:  stringValidator{},
	schema.DataTypeNumber:  numberValidator{},
	schema.DataTypeBoolean: booleanValidator{},
	schema.DataTypeList:    listValidator{},
}

func ok() Result {
	return Result{Valid: true}
}

func invalid(format string, args ...any) Result {
	return Result{Error: fmt.Sprintf(format, args...)}
}

// Validate evaluates the entry's rules against the supplied value,
// short-circuiting on the first failure. The required check runs first; a
// value that is absent (or an empty string) on an optional entry is valid
// without further checks.
func Validate(entry schema.PropertySchemaEntry, value schema.Value) Result {
	if value.IsEmpty() {
		if entry.Required {
			return invalid("%s is required", entry.DisplayName)
		}
		return ok()
	}
	v, found := validators[entry.DataType]
	if !found {
		return invalid("%s has unknown data type %s", entry.DisplayName, entry.DataType)
	}
	return v.validate(entry, value)
}

// ValidateAll validates a configuration against every entry of the currently
// loaded schema, returning one result per property name. Configuration keys
// with no matching entry are ignored; they belong to a schema that is no
// longer loaded and cannot gate anything.
func ValidateAll(entries []schema.PropertySchemaEntry, config schema.Configuration) map[string]Result {
	results := make(map[string]Result, len(entries))
	for _, entry := range entries {
		results[entry.PropertyName] = Validate(entry, config[entry.PropertyName])
	}
	return results
}

// Valid reports whether every result in the map passed.
func Valid(results map[string]Result) bool {
	for _, r := range results {
		if !r.Valid {
			return false
		}
	}
	return true
}
