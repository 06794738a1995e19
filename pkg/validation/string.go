package validation

import (
	"github.com/angryss/idp-config/pkg/schema"
)

type stringValidator struct{}

// STRING entries declare no rules beyond required, which Validate already
// handled. Any non-empty scalar coerces to a string at the widget boundary.
func (stringValidator) validate(entry schema.PropertySchemaEntry, value schema.Value) Result {
	return ok()
}
