package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomFieldType_FormControl(t *testing.T) {
	tests := []struct {
		fieldType CustomFieldType
		expected  FormControl
	}{
		{CustomFieldTypeData, FormControlText},
		{CustomFieldTypeText, FormControlText},
		{CustomFieldTypePhone, FormControlText},
		{CustomFieldTypeEmail, FormControlEmail},
		{CustomFieldTypeSelect, FormControlSelect},
		{CustomFieldTypeInt, FormControlNumber},
		{CustomFieldTypeFloat, FormControlNumber},
		{CustomFieldTypeCheck, FormControlCheckbox},
		{CustomFieldTypeDate, FormControlDate},
		{CustomFieldTypeDatetime, FormControlDatetime},
		{CustomFieldType("Signature"), FormControlText},
	}

	for _, tt := range tests {
		t.Run(string(tt.fieldType), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.fieldType.FormControl())
		})
	}

	assert.True(t, CustomFieldTypeSelect.HasOptions())
	assert.True(t, CustomFieldTypeMultiSelect.HasOptions())
	assert.False(t, CustomFieldTypeData.HasOptions())
}

func TestParseOptions(t *testing.T) {
	assert.Equal(t, []string{"S", "M", "L"}, ParseOptions("S\n M \n\nL\n"))
	assert.Empty(t, ParseOptions(""))
	assert.Empty(t, ParseOptions("\n \n"))
}
