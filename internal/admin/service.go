package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonora/salonora/internal/formkit"
	"github.com/salonora/salonora/internal/listing"
	"github.com/salonora/salonora/internal/options"
	"github.com/salonora/salonora/internal/tenant"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrNotConfirmed  = errors.New("delete not confirmed")
	ErrUnknownKind   = errors.New("unknown resource")
)

// Engine runs the shared list/form/persist cycle for every descriptor.
type Engine struct {
	repo        Repository
	loader      *options.Loader
	descriptors map[string]Descriptor
}

// NewEngine constructs an Engine over the registered descriptors.
func NewEngine(repo Repository, loader *options.Loader) *Engine {
	return &Engine{repo: repo, loader: loader, descriptors: Descriptors()}
}

// Descriptor resolves a resource slug.
func (e *Engine) Descriptor(resource string) (Descriptor, error) {
	d, ok := e.descriptors[resource]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownKind, resource)
	}
	return d, nil
}

// List returns every record of the resource.
func (e *Engine) List(ctx context.Context, salon tenant.ID, resource string) ([]Record, error) {
	if _, err := e.Descriptor(resource); err != nil {
		return nil, err
	}
	return e.repo.List(ctx, salon, resource)
}

// Get returns one record.
func (e *Engine) Get(ctx context.Context, salon tenant.ID, resource, id string) (Record, error) {
	if _, err := e.Descriptor(resource); err != nil {
		return Record{}, err
	}
	return e.repo.Get(ctx, salon, resource, id)
}

// FormOptions loads the selects declared by the descriptor's OptionFields.
func (e *Engine) FormOptions(ctx context.Context, salon tenant.ID, resource string) (map[string][]options.OptionRef, error) {
	d, err := e.Descriptor(resource)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]options.OptionRef, len(d.OptionFields))
	for _, source := range d.OptionFields {
		opts, err := e.loader.Load(ctx, salon, source)
		if err != nil {
			return nil, err
		}
		out[source] = opts
	}
	return out, nil
}

// Editor opens the resource form, prefilled in edit mode. Stored multi-select
// ids are cross-referenced against the active option set.
func (e *Engine) Editor(ctx context.Context, salon tenant.ID, resource, id string) (*formkit.Editor, error) {
	d, err := e.Descriptor(resource)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return d.Schema.Open(nil), nil
	}
	rec, err := e.repo.Get(ctx, salon, resource, id)
	if err != nil {
		return nil, err
	}

	values := formkit.Values{"_id": rec.ID, "name": rec.Name}
	if rec.Status == 1 {
		values["status"] = formkit.StatusActive
	} else {
		values["status"] = formkit.StatusInactive
	}
	for k, v := range rec.Attrs {
		values[k] = normalizeAttr(v)
	}
	for field, source := range d.OptionFields {
		stored, ok := values[field].([]string)
		if !ok {
			continue
		}
		opts, err := e.loader.Load(ctx, salon, source)
		if err != nil {
			return nil, err
		}
		values[field] = e.loader.Prefill(stored, opts, source)
	}
	return d.Schema.Open(values), nil
}

// Create persists a new record.
func (e *Engine) Create(ctx context.Context, salon tenant.ID, resource string, payload map[string]any) (Record, error) {
	d, err := e.Descriptor(resource)
	if err != nil {
		return Record{}, err
	}
	rec, err := e.fromPayload(ctx, salon, d, payload)
	if err != nil {
		return Record{}, err
	}

	exists, err := e.repo.ExistsByName(ctx, salon, resource, rec.Name, "")
	if err != nil {
		return Record{}, fmt.Errorf("check existing %s: %w", d.Title, err)
	}
	if exists {
		return Record{}, fmt.Errorf("%w: %s", ErrAlreadyExists, rec.Name)
	}

	created, err := e.repo.Create(ctx, rec)
	if err != nil {
		return Record{}, fmt.Errorf("create %s: %w", d.Title, err)
	}
	e.loader.Invalidate(ctx, salon, resource)
	return created, nil
}

// Update persists changes to an existing record.
func (e *Engine) Update(ctx context.Context, salon tenant.ID, resource, id string, payload map[string]any) (Record, error) {
	d, err := e.Descriptor(resource)
	if err != nil {
		return Record{}, err
	}
	if _, err := e.repo.Get(ctx, salon, resource, id); err != nil {
		return Record{}, err
	}
	rec, err := e.fromPayload(ctx, salon, d, payload)
	if err != nil {
		return Record{}, err
	}
	rec.ID = id
	if err := e.repo.Update(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("update %s: %w", d.Title, err)
	}
	e.loader.Invalidate(ctx, salon, resource)
	return e.repo.Get(ctx, salon, resource, id)
}

// Delete removes a record after name confirmation.
func (e *Engine) Delete(ctx context.Context, salon tenant.ID, resource, id, confirm string) error {
	if _, err := e.Descriptor(resource); err != nil {
		return err
	}
	rec, err := e.repo.Get(ctx, salon, resource, id)
	if err != nil {
		return err
	}
	if !listing.Confirmed(rec.Name, confirm) {
		return fmt.Errorf("%w: type the name to confirm", ErrNotConfirmed)
	}
	if err := e.repo.Delete(ctx, salon, resource, id); err != nil {
		return err
	}
	e.loader.Invalidate(ctx, salon, resource)
	return nil
}

func (e *Engine) fromPayload(ctx context.Context, salon tenant.ID, d Descriptor, payload map[string]any) (Record, error) {
	rec := Record{
		SalonID:  salon.String(),
		Resource: d.Resource,
		Attrs:    map[string]any{},
	}
	rec.Name, _ = payload["name"].(string)
	rec.Status, _ = payload["status"].(int)

	for k, v := range payload {
		switch k {
		case "name", "status", "salon_id":
			continue
		}
		rec.Attrs[k] = v
	}

	for field, source := range d.OptionFields {
		selection, ok := rec.Attrs[field].([]string)
		if !ok {
			continue
		}
		opts, err := e.loader.Load(ctx, salon, source)
		if err != nil {
			return Record{}, err
		}
		rec.Attrs[field] = options.ExpandSelectAll(selection, opts)
	}
	return rec, nil
}

// normalizeAttr converts attrs decoded from jsonb back into the shapes the
// form editor expects. JSON arrays come back as []any.
func normalizeAttr(v any) any {
	items, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
