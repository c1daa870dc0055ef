package types

import (
	"strings"

	"github.com/samber/lo"
)

// CustomFieldType is the field type configured on an event custom field
type CustomFieldType string

const (
	CustomFieldTypeData        CustomFieldType = "Data"
	CustomFieldTypeText        CustomFieldType = "Text"
	CustomFieldTypePhone       CustomFieldType = "Phone"
	CustomFieldTypeEmail       CustomFieldType = "Email"
	CustomFieldTypeSelect      CustomFieldType = "Select"
	CustomFieldTypeMultiSelect CustomFieldType = "Multi Select"
	CustomFieldTypeNumber      CustomFieldType = "Number"
	CustomFieldTypeInt         CustomFieldType = "Int"
	CustomFieldTypeFloat       CustomFieldType = "Float"
	CustomFieldTypeCheck       CustomFieldType = "Check"
	CustomFieldTypeDate        CustomFieldType = "Date"
	CustomFieldTypeDatetime    CustomFieldType = "Datetime"
)

// CustomFieldAppliesTo scopes a custom field to the booking or to each ticket
type CustomFieldAppliesTo string

const (
	CustomFieldAppliesToBooking CustomFieldAppliesTo = "Booking"
	CustomFieldAppliesToTicket  CustomFieldAppliesTo = "Ticket"
)

// FormControl is the input a client should render for a field
type FormControl string

const (
	FormControlText     FormControl = "text"
	FormControlEmail    FormControl = "email"
	FormControlSelect   FormControl = "select"
	FormControlNumber   FormControl = "number"
	FormControlCheckbox FormControl = "checkbox"
	FormControlDate     FormControl = "date"
	FormControlDatetime FormControl = "datetime"
)

var formControls = map[CustomFieldType]FormControl{
	CustomFieldTypePhone:    FormControlText,
	CustomFieldTypeEmail:    FormControlEmail,
	CustomFieldTypeSelect:   FormControlSelect,
	CustomFieldTypeNumber:   FormControlNumber,
	CustomFieldTypeInt:      FormControlNumber,
	CustomFieldTypeFloat:    FormControlNumber,
	CustomFieldTypeCheck:    FormControlCheckbox,
	CustomFieldTypeDate:     FormControlDate,
	CustomFieldTypeDatetime: FormControlDatetime,
}

// FormControl maps the field type to a control. Unknown types render as text.
func (t CustomFieldType) FormControl() FormControl {
	if c, ok := formControls[t]; ok {
		return c
	}
	return FormControlText
}

// HasOptions reports whether values come from a fixed option list
func (t CustomFieldType) HasOptions() bool {
	return t == CustomFieldTypeSelect || t == CustomFieldTypeMultiSelect
}

// ParseOptions splits newline separated options, dropping blank entries
func ParseOptions(raw string) []string {
	return lo.FilterMap(strings.Split(raw, "\n"), func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	})
}
