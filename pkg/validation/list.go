package validation

import (
	"github.com/angryss/idp-config/pkg/schema"
)

type listValidator struct{}

// validate checks that the value names one of the entry's allowed options.
// An entry without declared options accepts any string; the admin screens
// normally prevent that state, but the engine must not reject it.
func (listValidator) validate(entry schema.PropertySchemaEntry, value schema.Value) Result {
	raw, isStr := value.AsString()
	if !isStr {
		return invalid("%s must be one of the allowed values", entry.DisplayName)
	}
	if len(entry.Rules.AllowedValues) == 0 {
		return ok()
	}
	for _, allowed := range entry.Rules.AllowedValues {
		if allowed.Value == raw {
			return ok()
		}
	}
	return invalid("%q is not a valid option for %s", raw, entry.DisplayName)
}
