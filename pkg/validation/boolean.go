package validation

import (
	"github.com/angryss/idp-config/pkg/schema"
)

type booleanValidator struct{}

// validate accepts native booleans and the exact string encodings "true" and
// "false". Anything else, including "True" or "1", is rejected.
func (booleanValidator) validate(entry schema.PropertySchemaEntry, value schema.Value) Result {
	if _, isBool := value.AsBool(); isBool {
		return ok()
	}
	if raw, isStr := value.AsString(); isStr && (raw == "true" || raw == "false") {
		return ok()
	}
	return invalid("%s must be true or false", entry.DisplayName)
}
