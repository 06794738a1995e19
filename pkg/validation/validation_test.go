package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/angryss/idp-config/pkg/schema"
)

func float(f float64) *float64 { return &f }

func capacityProvider() schema.PropertySchemaEntry {
	return schema.PropertySchemaEntry{
		PropertyName: "capacityProvider",
		DisplayName:  "Capacity Provider",
		DataType:     schema.DataTypeList,
		Required:     true,
		Rules: schema.ValidationRules{
			AllowedValues: []schema.AllowedValue{
				{Value: "FARGATE", Label: "Fargate"},
				{Value: "FARGATE_SPOT", Label: "Fargate Spot"},
				{Value: "EC2", Label: "EC2"},
			},
		},
	}
}

func minClusterSize() schema.PropertySchemaEntry {
	return schema.PropertySchemaEntry{
		PropertyName: "minClusterSize",
		DisplayName:  "Min Cluster Size",
		DataType:     schema.DataTypeNumber,
		Rules:        schema.ValidationRules{Min: float(1), Max: float(10)},
	}
}

func Test_Validate_Required(t *testing.T) {
	tests := []struct {
		name      string
		entry     schema.PropertySchemaEntry
		value     schema.Value
		wantValid bool
		wantError string
	}{
		{
			name:      "required and absent",
			entry:     capacityProvider(),
			value:     schema.Value{},
			wantError: "Capacity Provider is required",
		},
		{
			name:      "required and empty string",
			entry:     capacityProvider(),
			value:     schema.StringValue(""),
			wantError: "Capacity Provider is required",
		},
		{
			name:      "optional and absent",
			entry:     minClusterSize(),
			value:     schema.Value{},
			wantValid: true,
		},
		{
			name:      "required and supplied",
			entry:     capacityProvider(),
			value:     schema.StringValue("FARGATE"),
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.entry, tt.value)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, result.Error)
			}
		})
	}
}

func Test_Validate_Number(t *testing.T) {
	tests := []struct {
		name      string
		value     schema.Value
		wantValid bool
	}{
		{name: "in range", value: schema.NumberValue(5), wantValid: true},
		{name: "at lower bound", value: schema.NumberValue(1), wantValid: true},
		{name: "at upper bound", value: schema.NumberValue(10), wantValid: true},
		{name: "below range", value: schema.NumberValue(0)},
		{name: "above range", value: schema.NumberValue(11)},
		{name: "string-encoded in range", value: schema.StringValue("5"), wantValid: true},
		{name: "string-encoded out of range", value: schema.StringValue("11")},
		{name: "unparseable", value: schema.StringValue("five")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(minClusterSize(), tt.value)
			assert.Equal(t, tt.wantValid, result.Valid)
			if !tt.wantValid {
				// parse failures and range violations share the bounds hint
				assert.Equal(t, "Min Cluster Size (1-10)", result.Error)
			}
		})
	}
}

func Test_Validate_Number_NoBounds(t *testing.T) {
	entry := schema.PropertySchemaEntry{
		PropertyName: "desiredCount",
		DisplayName:  "Desired Count",
		DataType:     schema.DataTypeNumber,
	}
	assert.True(t, Validate(entry, schema.NumberValue(1000)).Valid)
	result := Validate(entry, schema.StringValue("many"))
	assert.False(t, result.Valid)
	assert.Equal(t, "Desired Count must be a number", result.Error)
}

func Test_Validate_List(t *testing.T) {
	tests := []struct {
		name      string
		value     schema.Value
		wantValid bool
	}{
		{name: "member", value: schema.StringValue("FARGATE_SPOT"), wantValid: true},
		{name: "non-member", value: schema.StringValue("LAMBDA")},
		{name: "label is not a member", value: schema.StringValue("Fargate")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(capacityProvider(), tt.value)
			assert.Equal(t, tt.wantValid, result.Valid)
		})
	}
}

func Test_Validate_Boolean(t *testing.T) {
	entry := schema.PropertySchemaEntry{
		PropertyName: "containerInsights",
		DisplayName:  "Container Insights",
		DataType:     schema.DataTypeBoolean,
	}
	tests := []struct {
		name      string
		value     schema.Value
		wantValid bool
	}{
		{name: "native true", value: schema.BoolValue(true), wantValid: true},
		{name: "native false", value: schema.BoolValue(false), wantValid: true},
		{name: "string true", value: schema.StringValue("true"), wantValid: true},
		{name: "string false", value: schema.StringValue("false"), wantValid: true},
		{name: "capitalized", value: schema.StringValue("True")},
		{name: "numeral", value: schema.StringValue("1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(entry, tt.value)
			assert.Equal(t, tt.wantValid, result.Valid)
		})
	}
}

func Test_ValidateAll(t *testing.T) {
	entries := []schema.PropertySchemaEntry{capacityProvider(), minClusterSize()}

	t.Run("gates on required field", func(t *testing.T) {
		results := ValidateAll(entries, schema.Configuration{"minClusterSize": schema.NumberValue(2)})
		assert.False(t, Valid(results))
		assert.False(t, results["capacityProvider"].Valid)
		assert.True(t, results["minClusterSize"].Valid)
	})

	t.Run("passes when all constraints hold", func(t *testing.T) {
		results := ValidateAll(entries, schema.Configuration{
			"capacityProvider": schema.StringValue("EC2"),
			"minClusterSize":   schema.NumberValue(3),
		})
		assert.True(t, Valid(results))
	})

	t.Run("ignores keys with no loaded entry", func(t *testing.T) {
		results := ValidateAll(entries, schema.Configuration{
			"capacityProvider": schema.StringValue("EC2"),
			"orphaned":         schema.StringValue("x"),
		})
		assert.True(t, Valid(results))
		assert.NotContains(t, results, "orphaned")
	})
}
