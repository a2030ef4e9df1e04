package formkit

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/salonora/salonora/internal/tenant"
	"github.com/salonora/salonora/internal/validate"
)

// StatusActive and StatusInactive are the status radio values; payloads carry
// them as 1/0.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Editor holds one open form instance. It is exclusively owned by the
// request that opened it and discarded afterwards.
type Editor struct {
	schema   Schema
	values   Values
	errors   map[string]string
	recordID string
}

// Open instantiates an editor. existing == nil starts a create form with
// type-appropriate defaults; otherwise every field is prefilled from the
// record except password fields, which always stay blank in edit mode.
func (s Schema) Open(existing Values) *Editor {
	e := &Editor{
		schema: s,
		values: make(Values, len(s.Fields)),
		errors: make(map[string]string),
	}
	for _, f := range s.Fields {
		e.values[f.Name] = defaultFor(f)
	}
	if existing != nil {
		if id, ok := existing["_id"].(string); ok {
			e.recordID = id
		}
		for _, f := range s.Fields {
			if f.Kind == Password {
				continue
			}
			if v, ok := existing[f.Name]; ok {
				e.values[f.Name] = normalize(f, v)
			}
		}
	}
	return e
}

func defaultFor(f Field) any {
	switch f.Kind {
	case MultiSelect:
		return []string{}
	case Status:
		if f.Default != "" {
			return f.Default
		}
		return StatusActive
	default:
		return f.Default
	}
}

func normalize(f Field, v any) any {
	if f.Kind == MultiSelect {
		return asStrings(v)
	}
	switch v := v.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; %v would render 1000000 as 1e+06.
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

// IsEdit reports whether the editor targets an existing record.
func (e *Editor) IsEdit() bool { return e.recordID != "" }

// RecordID returns the backend-assigned identifier, empty while new.
func (e *Editor) RecordID() string { return e.recordID }

// Verb returns the HTTP verb a submit would use.
func (e *Editor) Verb() string {
	if e.IsEdit() {
		return http.MethodPut
	}
	return http.MethodPost
}

// Set updates one field and re-validates it live. Fields confirming this one
// re-validate too, so changing the password re-checks its confirmation.
func (e *Editor) Set(name string, value any) {
	f := e.schema.field(name)
	if f == nil {
		return
	}
	e.values[name] = normalize(*f, value)
	e.check(*f)
	for _, other := range e.schema.Fields {
		if other.Confirms == name {
			e.check(other)
		}
	}
}

// Get returns a field's current value.
func (e *Editor) Get(name string) any { return e.values[name] }

// Errors returns the current per-field validation state. Entries are cleared
// as fields become valid.
func (e *Editor) Errors() map[string]string { return e.errors }

func (e *Editor) check(f Field) {
	if f.Kind == MultiSelect {
		if f.Required && len(asStrings(e.values[f.Name])) == 0 {
			e.errors[f.Name] = "This field is required"
		} else {
			delete(e.errors, f.Name)
		}
		return
	}

	raw := asString(e.values[f.Name])
	if strings.TrimSpace(raw) == "" {
		// A blank confirmation still has to match a newly typed password.
		if f.Confirms != "" && asString(e.values[f.Confirms]) != "" {
			e.errors[f.Name] = validate.ConfirmPassword(asString(e.values[f.Confirms]), raw).Message
			return
		}
		// Blank passwords are allowed while editing: password is
		// optional-change-only.
		if f.Required && !(f.Kind == Password && e.IsEdit()) {
			e.errors[f.Name] = "This field is required"
		} else {
			delete(e.errors, f.Name)
		}
		return
	}

	var res validate.Result
	switch f.Kind {
	case Phone:
		res = validate.Phone(raw)
	case Email:
		res = validate.Email(raw)
	case Password:
		res = validate.Password(raw)
	default:
		res = validate.Result{Valid: true}
	}
	if res.Valid && f.Confirms != "" {
		res = validate.ConfirmPassword(asString(e.values[f.Confirms]), raw)
	}

	if res.Valid {
		delete(e.errors, f.Name)
	} else {
		e.errors[f.Name] = res.Message
	}
}

// CanSubmit reports whether a submit would be allowed right now: every
// required field set and no outstanding validation entry.
func (e *Editor) CanSubmit() bool {
	for _, f := range e.schema.Fields {
		e.check(f)
	}
	return len(e.errors) == 0
}

// Payload assembles the submit body. It is the only formkit operation with
// submit semantics: a blocked form returns ErrBlocked and produces nothing.
// Title-cased text fields are normalized, status becomes 1/0, multi-selects
// become plain id arrays, confirmation fields and blank edit-mode passwords
// are omitted, and the tenant is always attached.
func (e *Editor) Payload(salon tenant.ID) (map[string]any, error) {
	if !e.CanSubmit() {
		return nil, fmt.Errorf("%w: %s", ErrBlocked, firstError(e.errors))
	}
	for _, rule := range e.schema.Rules {
		if err := rule(e.values); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBlocked, err)
		}
	}

	payload := make(map[string]any, len(e.schema.Fields)+1)
	for _, f := range e.schema.Fields {
		// Confirmation fields are a client-side check only, never submitted.
		if f.Confirms != "" {
			continue
		}
		switch f.Kind {
		case MultiSelect:
			payload[f.Name] = asStrings(e.values[f.Name])
		case Status:
			if asString(e.values[f.Name]) == StatusActive {
				payload[f.Name] = 1
			} else {
				payload[f.Name] = 0
			}
		case Password:
			raw := asString(e.values[f.Name])
			if raw == "" && e.IsEdit() {
				continue
			}
			payload[f.Name] = raw
		default:
			raw := asString(e.values[f.Name])
			if f.TitleCased {
				raw = validate.TitleCase(raw)
			}
			payload[f.Name] = raw
		}
	}
	payload["salon_id"] = salon.String()
	return payload, nil
}

func firstError(errs map[string]string) string {
	for field, msg := range errs {
		return field + ": " + msg
	}
	return ""
}
