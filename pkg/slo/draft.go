package slo

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

const DefaultDraftKey = "slo-create-draft"

const draftSchemaURL = "https://schemas.appclacks.com/slo-draft.json"

//go:embed draft.schema.json
var draftSchema []byte

type DraftStore interface {
	// GetDraft returns nil when no value is stored for the key.
	GetDraft(ctx context.Context, key string) (*string, error)
	SaveDraft(ctx context.Context, key string, value string) error
	DeleteDraft(ctx context.Context, key string) error
}

// Drafts persists a single form snapshot under a fixed key.
type Drafts struct {
	logger *slog.Logger
	store  DraftStore
	key    string
	schema *jsonschema.Schema
}

func NewDrafts(logger *slog.Logger, store DraftStore, key string) (*Drafts, error) {
	if key == "" {
		key = DefaultDraftKey
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(draftSchema))
	if err != nil {
		return nil, fmt.Errorf("fail to read draft schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(draftSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("fail to load draft schema: %w", err)
	}
	schema, err := compiler.Compile(draftSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("fail to compile draft schema: %w", err)
	}
	return &Drafts{
		logger: logger,
		store:  store,
		key:    key,
		schema: schema,
	}, nil
}

func (d *Drafts) Save(ctx context.Context, form *aggregates.Form) error {
	value, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("fail to serialize draft: %w", err)
	}
	return d.store.SaveDraft(ctx, d.key, string(value))
}

// Load returns the stored draft, or nil when there is none or when the
// stored value can not be decoded.
func (d *Drafts) Load(ctx context.Context) (*aggregates.Form, error) {
	value, err := d.store.GetDraft(ctx, d.key)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	form, err := d.decode(*value)
	if err != nil {
		d.logger.Warn(fmt.Sprintf("fail to load draft %s: %s", d.key, err.Error()))
		return nil, nil
	}
	return form, nil
}

func (d *Drafts) decode(value string) (*aggregates.Form, error) {
	instance, err := jsonschema.UnmarshalJSON(strings.NewReader(value))
	if err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if err := d.schema.Validate(instance); err != nil {
		return nil, fmt.Errorf("incompatible draft: %w", err)
	}
	form := aggregates.NewForm()
	if err := json.Unmarshal([]byte(value), form); err != nil {
		return nil, fmt.Errorf("fail to deserialize draft: %w", err)
	}
	return form, nil
}

func (d *Drafts) Clear(ctx context.Context) error {
	return d.store.DeleteDraft(ctx, d.key)
}
