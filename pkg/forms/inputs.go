package forms

import (
	"github.com/angryss/idp-config/pkg/schema"
)

type (
	// WidgetKind is the concrete input a schema entry renders as.
	WidgetKind string

	// Field is one rendered input: the entry it edits, the widget that edits
	// it, the raw scalar it currently shows, and its inline validation error.
	Field struct {
		Entry    schema.PropertySchemaEntry
		Widget   WidgetKind
		Raw      string
		Options  []schema.AllowedValue
		Required bool
		Error    string
	}
)

const (
	WidgetText     WidgetKind = "text"
	WidgetNumber   WidgetKind = "number"
	WidgetCheckbox WidgetKind = "checkbox"
	WidgetSelect   WidgetKind = "select"
)

// WidgetFor maps a declared data type to its editing widget.
func WidgetFor(dt schema.DataType) WidgetKind {
	switch dt {
	case schema.DataTypeNumber:
		return WidgetNumber
	case schema.DataTypeBoolean:
		return WidgetCheckbox
	case schema.DataTypeList:
		return WidgetSelect
	}
	return WidgetText
}

func fieldFor(entry schema.PropertySchemaEntry, config schema.Configuration) Field {
	return Field{
		Entry:    entry,
		Widget:   WidgetFor(entry.DataType),
		Raw:      config[entry.PropertyName].Raw(),
		Options:  entry.Rules.AllowedValues,
		Required: entry.Required,
	}
}
