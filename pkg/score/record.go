package score

import (
	"fmt"
	"strings"
)

// Gender is the closed set of founder gender values.
type Gender string

const (
	GenderFemale  Gender = "female"
	GenderMale    Gender = "male"
	GenderUnknown Gender = "unknown"
)

// Founder is one entry in a record's founder roster. Gender is
// optional; the zero value is treated as unknown.
type Founder struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Gender Gender `json:"gender,omitempty" yaml:"gender,omitempty"`
}

// Record is the immutable input to a scoring call.
type Record struct {
	Locations   []string  `json:"locations" yaml:"locations"`
	Description string    `json:"description" yaml:"description"`
	Founders    []Founder `json:"founders" yaml:"founders"`
}

// ValidationError reports a malformed record field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record: field %q: %s", e.Field, e.Msg)
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Msg: "required field is missing"}
}

// ParseGender normalizes a free-text gender value into the closed set.
// Empty input means unknown; unrecognized values are rejected.
func ParseGender(val string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "":
		return GenderUnknown, nil
	case string(GenderFemale):
		return GenderFemale, nil
	case string(GenderMale):
		return GenderMale, nil
	case string(GenderUnknown):
		return GenderUnknown, nil
	default:
		return "", &ValidationError{Field: "gender", Msg: fmt.Sprintf("unrecognized value %q", val)}
	}
}

// Validate checks the record structure. Empty locations or founders
// are valid; absent (nil) ones are not. Founder genders must belong to
// the closed set (empty counts as unknown).
func (r Record) Validate() error {
	if r.Locations == nil {
		return missingField("locations")
	}
	if r.Founders == nil {
		return missingField("founders")
	}
	for i, f := range r.Founders {
		switch f.Gender {
		case GenderFemale, GenderMale, GenderUnknown, "":
		default:
			return &ValidationError{
				Field: fmt.Sprintf("founders[%d].gender", i),
				Msg:   fmt.Sprintf("unrecognized value %q", f.Gender),
			}
		}
	}
	return nil
}
