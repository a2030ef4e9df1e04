// Package admin hosts the small reference resources (brands, tags, taxes and
// friends) behind one schema-driven engine. Each resource contributes a
// descriptor; list, form, persistence and export behavior is shared.
package admin

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/formkit"
)

// Descriptor declares one admin resource.
type Descriptor struct {
	// Resource is the plural slug used in routes and cache keys ("brands").
	Resource string
	// Title labels user-facing messages ("Brand added successfully").
	Title string
	// Schema describes the sidebar form.
	Schema formkit.Schema
	// OptionFields maps multi-select or select field names to the option
	// resource that populates them. Multi-selects get Select All expansion
	// and stale-id prefill through the loader.
	OptionFields map[string]string
	// ExportColumns orders the CSV export. Values come from the stored
	// record by field name; "status" renders Active/Inactive.
	ExportColumns []string
}

// Descriptors returns every resource the engine serves, keyed by slug.
func Descriptors() map[string]Descriptor {
	all := []Descriptor{
		brandDescriptor(),
		tagDescriptor(),
		variationDescriptor(),
		taxDescriptor(),
		commissionDescriptor(),
		productCategoryDescriptor(),
		appBannerDescriptor(),
	}
	byName := make(map[string]Descriptor, len(all))
	for _, d := range all {
		byName[d.Resource] = d
	}
	return byName
}

func brandDescriptor() Descriptor {
	return Descriptor{
		Resource: "brands",
		Title:    "Brand",
		Schema: formkit.Schema{
			Resource: "brands",
			Fields: []formkit.Field{
				{Name: "name", Kind: formkit.Text, Required: true, TitleCased: true},
				{Name: "photo", Kind: formkit.Image},
				{Name: "status", Kind: formkit.Status},
			},
		},
		ExportColumns: []string{"name", "status"},
	}
}

func tagDescriptor() Descriptor {
	return Descriptor{
		Resource: "tags",
		Title:    "Tag",
		Schema: formkit.Schema{
			Resource: "tags",
			Fields: []formkit.Field{
				{Name: "name", Kind: formkit.Text, Required: true, TitleCased: true},
				{Name: "branch_id", Kind: formkit.MultiSelect, Required: true},
				{Name: "status", Kind: formkit.Status},
			},
		},
		OptionFields:  map[string]string{"branch_id": "branches"},
		ExportColumns: []string{"name", "status"},
	}
}

func variationDescriptor() Descriptor {
	return Descriptor{
		Resource: "variations",
		Title:    "Variation",
		Schema: formkit.Schema{
			Resource: "variations",
			Fields: []formkit.Field{
				{Name: "name", Kind: formkit.Text, Required: true, TitleCased: true},
				{Name: "type", Kind: formkit.Select, Required: true},
				{Name: "status", Kind: formkit.Status},
			},
		},
		ExportColumns: []string{"name", "type", "status"},
	}
}

func taxDescriptor() Descriptor {
	return Descriptor{
		Resource: "taxes",
		Title:    "Tax",
		Schema: formkit.Schema{
			Resource: "taxes",
			Fields: []formkit.Field{
				{Name: "name", Kind: formkit.Text, Required: true, TitleCased: true},
				{Name: "percent", Kind: formkit.Number, Required: true},
				{Name: "status", Kind: formkit.Status},
			},
			Rules: []formkit.Rule{percentRule("percent")},
		},
		ExportColumns: []string{"name", "percent", "status"},
	}
}

func commissionDescriptor() Descriptor {
	return Descriptor{
		Resource: "commissions",
		Title:    "Commission",
		Schema: formkit.Schema{
			Resource: "commissions",
			Fields: []formkit.Field{
				{Name: "name", Kind: formkit.Text, Required: true, TitleCased: true},
				{Name: "percent", Kind: formkit.Number, Required: true},
				{Name: "status", Kind: formkit.Status},
			},
			Rules: []formkit.Rule{percentRule("percent")},
		},
		ExportColumns: []string{"name", "percent", "status"},
	}
}

func productCategoryDescriptor() Descriptor {
	return Descriptor{
		Resource: "productcategories",
		Title:    "Product category",
		Schema: formkit.Schema{
			Resource: "productcategories",
			Fields: []formkit.Field{
				{Name: "name", Kind: formkit.Text, Required: true, TitleCased: true},
				{Name: "photo", Kind: formkit.Image},
				{Name: "status", Kind: formkit.Status},
			},
		},
		ExportColumns: []string{"name", "status"},
	}
}

func appBannerDescriptor() Descriptor {
	return Descriptor{
		Resource: "appbanners",
		Title:    "App banner",
		Schema: formkit.Schema{
			Resource: "appbanners",
			Fields: []formkit.Field{
				{Name: "name", Kind: formkit.Text, Required: true},
				{Name: "photo", Kind: formkit.Image, Required: true},
				{Name: "link", Kind: formkit.Text},
				{Name: "status", Kind: formkit.Status},
			},
		},
		ExportColumns: []string{"name", "link", "status"},
	}
}

// percentRule bounds a numeric field to (0, 100].
func percentRule(field string) formkit.Rule {
	return func(values formkit.Values) error {
		raw, _ := values[field].(string)
		pct, err := decimal.NewFromString(raw)
		if err != nil {
			return errors.New(field + " must be a number")
		}
		if !pct.IsPositive() || pct.GreaterThan(decimal.NewFromInt(100)) {
			return errors.New(field + " must be between 0 and 100")
		}
		return nil
	}
}

func formatStatus(status int) string {
	if status == 1 {
		return "Active"
	}
	return "Inactive"
}
