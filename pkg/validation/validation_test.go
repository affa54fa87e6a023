package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type field struct {
	Name string `validate:"required,bqident"`
	Type string `validate:"required,bqtype"`
	Mode string `validate:"omitempty,oneof=NULLABLE REQUIRED REPEATED"`
}

type request struct {
	Dataset string   `validate:"required,bqident"`
	Columns []string `validate:"omitempty,dive,bqident"`
	Schema  []field  `validate:"omitempty,dive"`
}

func TestIsIdentifier(t *testing.T) {
	cases := map[string]bool{
		"sales":       true,
		"_tmp1":       true,
		"A_b_C_123":   true,
		"1abc":        false,
		"":            false,
		"bad-name":    false,
		"x.y":         false,
		"drop table;": false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsIdentifier(in), in)
	}

	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, IsIdentifier(string(long)))
	assert.True(t, IsIdentifier(string(long[:128])))
}

func TestValidateStruct_OK(t *testing.T) {
	err := ValidateStruct(request{
		Dataset: "ds",
		Columns: []string{"a", "b"},
		Schema:  []field{{Name: "id", Type: "INT64", Mode: "REQUIRED"}},
	})
	require.NoError(t, err)
}

func TestValidateStruct_Messages(t *testing.T) {
	tests := []struct {
		name string
		in   request
		want string
	}{
		{"missing dataset", request{}, "dataset is required"},
		{"bad dataset", request{Dataset: "my-ds"}, "Invalid dataset: my-ds"},
		{"bad column", request{Dataset: "ds", Columns: []string{"ok", "no way"}}, "Invalid column: no way"},
		{"bad field name", request{Dataset: "ds", Schema: []field{{Name: "9x", Type: "STRING"}}}, "Invalid field name: 9x"},
		{"bad type", request{Dataset: "ds", Schema: []field{{Name: "x", Type: "VARCHAR"}}}, "Unsupported BigQuery type: VARCHAR"},
		{"bad mode", request{Dataset: "ds", Schema: []field{{Name: "x", Type: "STRING", Mode: "OPTIONAL"}}}, "mode must be one of NULLABLE, REQUIRED, REPEATED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestJSONName(t *testing.T) {
	assert.Equal(t, "set_values", jsonName("SetValues"))
	assert.Equal(t, "dataset", jsonName("Dataset"))
	assert.Equal(t, "if_not_exists", jsonName("IfNotExists"))
}
