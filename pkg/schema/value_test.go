package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseValue(t *testing.T) {
	tests := []struct {
		name      string
		dataType  DataType
		raw       string
		want      Value
		wantError bool
	}{
		{name: "string", dataType: DataTypeString, raw: "hello", want: StringValue("hello")},
		{name: "list member is a string", dataType: DataTypeList, raw: "FARGATE", want: StringValue("FARGATE")},
		{name: "number", dataType: DataTypeNumber, raw: "10", want: NumberValue(10)},
		{name: "decimal number", dataType: DataTypeNumber, raw: "2.5", want: NumberValue(2.5)},
		{name: "not a number", dataType: DataTypeNumber, raw: "ten", wantError: true},
		{name: "bool true", dataType: DataTypeBoolean, raw: "true", want: BoolValue(true)},
		{name: "bool false", dataType: DataTypeBoolean, raw: "false", want: BoolValue(false)},
		{name: "bool is case sensitive", dataType: DataTypeBoolean, raw: "True", wantError: true},
		{name: "bool rejects numerals", dataType: DataTypeBoolean, raw: "1", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.dataType, tt.raw)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_Value_IsEmpty(t *testing.T) {
	assert := assert.New(t)
	assert.True(Value{}.IsEmpty())
	assert.True(StringValue("").IsEmpty())
	assert.False(StringValue("x").IsEmpty())
	// zero numbers and false booleans are supplied values
	assert.False(NumberValue(0).IsEmpty())
	assert.False(BoolValue(false).IsEmpty())
}

func Test_Value_Raw(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("", Value{}.Raw())
	assert.Equal("FARGATE", StringValue("FARGATE").Raw())
	assert.Equal("10", NumberValue(10).Raw())
	assert.Equal("2.5", NumberValue(2.5).Raw())
	assert.Equal("false", BoolValue(false).Raw())
}

func Test_Value_JSON(t *testing.T) {
	t.Run("marshals to native scalars", func(t *testing.T) {
		out, err := json.Marshal(Configuration{
			"capacityProvider": StringValue("FARGATE"),
			"desiredCount":     NumberValue(2),
			"insights":         BoolValue(true),
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"capacityProvider":"FARGATE","desiredCount":2,"insights":true}`, string(out))
	})

	t.Run("unmarshals scalars back to tagged values", func(t *testing.T) {
		var config Configuration
		err := json.Unmarshal([]byte(`{"capacityProvider":"FARGATE","desiredCount":2,"insights":true}`), &config)
		require.NoError(t, err)
		assert.Equal(t, StringValue("FARGATE"), config["capacityProvider"])
		assert.Equal(t, NumberValue(2), config["desiredCount"])
		assert.Equal(t, BoolValue(true), config["insights"])
	})
}

func Test_Configuration_Clone(t *testing.T) {
	original := Configuration{"capacityProvider": StringValue("FARGATE")}
	clone := original.Clone()
	clone["capacityProvider"] = StringValue("EC2")

	assert.Equal(t, StringValue("FARGATE"), original["capacityProvider"])
	assert.NotNil(t, Configuration(nil).Clone())
}

func Test_Configuration_Equal(t *testing.T) {
	assert := assert.New(t)
	a := Configuration{"x": NumberValue(1)}
	assert.True(a.Equal(Configuration{"x": NumberValue(1)}))
	assert.False(a.Equal(Configuration{"x": NumberValue(2)}))
	assert.False(a.Equal(Configuration{}))
	// a string-encoded number is not the number itself
	assert.False(a.Equal(Configuration{"x": StringValue("1")}))
}
