package admin

import (
	"encoding/json"
	"strings"
	"time"
)

// Record is one stored admin resource row. Fields beyond the shared columns
// live in Attrs and are flattened into the JSON representation.
type Record struct {
	ID        string
	SalonID   string
	Resource  string
	Name      string
	Status    int
	Attrs     map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// listing.Item

func (r Record) ItemID() string     { return r.ID }
func (r Record) SearchText() string { return r.Name }
func (r Record) ItemActive() bool   { return r.Status == 1 }
func (r Record) CategoryRef() string {
	if v, ok := r.Attrs["category_id"].(string); ok {
		return v
	}
	return ""
}

// MarshalJSON flattens Attrs next to the shared columns.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Attrs)+6)
	for k, v := range r.Attrs {
		out[k] = v
	}
	out["_id"] = r.ID
	out["salon_id"] = r.SalonID
	out["name"] = r.Name
	out["status"] = r.Status
	out["created_at"] = r.CreatedAt
	out["updated_at"] = r.UpdatedAt
	return json.Marshal(out)
}

// attr renders one attribute as a string for CSV export.
func (r Record) attr(field string) string {
	switch field {
	case "name":
		return r.Name
	case "status":
		return formatStatus(r.Status)
	}
	switch v := r.Attrs[field].(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
