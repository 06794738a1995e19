package validation

import (
	"strconv"

	"github.com/angryss/idp-config/pkg/schema"
)

type numberValidator struct{}

// validate accepts native numbers and string-encoded numbers, then applies
// the entry's min/max bounds. Parse failures and out-of-range values share
// the same bounds message so the widget can show a single hint.
func (numberValidator) validate(entry schema.PropertySchemaEntry, value schema.Value) Result {
	num, isNum := value.AsNumber()
	if !isNum {
		raw, isStr := value.AsString()
		if !isStr {
			return boundsError(entry)
		}
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return boundsError(entry)
		}
		num = parsed
	}
	if entry.Rules.Min != nil && num < *entry.Rules.Min {
		return boundsError(entry)
	}
	if entry.Rules.Max != nil && num > *entry.Rules.Max {
		return boundsError(entry)
	}
	return ok()
}

func boundsError(entry schema.PropertySchemaEntry) Result {
	if entry.Rules.Min != nil && entry.Rules.Max != nil {
		return invalid("%s (%s-%s)", entry.DisplayName, formatBound(*entry.Rules.Min), formatBound(*entry.Rules.Max))
	}
	return invalid("%s must be a number", entry.DisplayName)
}

func formatBound(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
