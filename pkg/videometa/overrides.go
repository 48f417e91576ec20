package videometa

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

var validate = validator.New()

// Overrides holds caller-supplied record fields keyed by their JSON name.
// Each present key replaces the synthesized field wholesale; nested values
// and lists are never merged element by element.
type Overrides map[string]any

// LoadOverrides decodes a JSON object of record fields.
func LoadOverrides(r io.Reader) (Overrides, error) {
	var o Overrides
	if err := json.NewDecoder(r).Decode(&o); err != nil {
		return nil, fmt.Errorf("failed to decode overrides: %w", err)
	}
	return o, nil
}

// Apply merges the overrides into rec. Unknown keys are rejected.
func (o Overrides) Apply(rec *Record) error {
	if len(o) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		ZeroFields:       true,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           rec,
	})
	if err != nil {
		return fmt.Errorf("failed to create overrides decoder: %w", err)
	}

	if err := decoder.Decode(map[string]any(o)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

// Validate checks the record invariants: a known category, a duration in
// [300, 7200] and non-empty id and title.
func (r *Record) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}
