// Package formkit is the generic entity editor behind every admin sidebar
// form. A schema describes the fields of one resource; the editor owns the
// field values and validation state for the sidebar's open lifetime, builds
// the submit payload and decides between create and update.
package formkit

import "errors"

// Kind selects the validation and payload behaviour of a field.
type Kind int

const (
	Text Kind = iota
	Phone
	Email
	Password
	Status
	Select
	MultiSelect
	Number
	Date
	Image
)

// Field describes one form control.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	// TitleCased free-text fields are normalized before submission.
	TitleCased bool
	// Confirms names another field this one must equal (confirm password).
	// Both fields re-validate when either changes.
	Confirms string
	// Default overrides the kind's zero default in create mode.
	Default string
}

// Rule is a cross-field business check run at submit time. A failing rule
// blocks the submit before any side effect.
type Rule func(values Values) error

// Schema describes one editable resource.
type Schema struct {
	Resource string
	Fields   []Field
	Rules    []Rule
}

func (s Schema) field(name string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// ErrBlocked is returned when a submit is attempted with outstanding
// validation errors or a failing business rule.
var ErrBlocked = errors.New("form has validation errors")

// Values maps field name to either string or []string.
type Values map[string]any

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
