package cv

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Record holds the reviewed candidate data as string values. Known declared
// fields live in Fields; anything else the template produced is kept in Extra
// so it still reaches the sync target.
type Record struct {
	Fields map[string]string
	Extra  map[string]string
}

// NewRecord returns an empty record with both buckets allocated.
func NewRecord() *Record {
	return &Record{
		Fields: make(map[string]string),
		Extra:  make(map[string]string),
	}
}

// Decode converts a raw parsed JSON object into a Record. Scalar values are
// weakly coerced to strings; keys are split into the declared set and the
// Extra bucket.
func Decode(raw map[string]any) (*Record, error) {
	values := make(map[string]string, len(raw))

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &values,
	})
	if err != nil {
		return nil, fmt.Errorf("build record decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode record values: %w", err)
	}

	record := NewRecord()
	for key, value := range values {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, known := FieldByKey(key); known {
			record.Fields[key] = strings.TrimSpace(value)
		} else {
			record.Extra[key] = strings.TrimSpace(value)
		}
	}

	return record, nil
}

// FromMap builds a record from already-stringified values, splitting known
// and extra keys. Used for template samples and tests.
func FromMap(values map[string]string) *Record {
	record := NewRecord()
	for key, value := range values {
		if _, known := FieldByKey(key); known {
			record.Fields[key] = value
		} else {
			record.Extra[key] = value
		}
	}
	return record
}

// Get returns the value for a field key, treating absence as empty string.
func (r *Record) Get(key string) string {
	if v, ok := r.Fields[key]; ok {
		return v
	}
	return r.Extra[key]
}

// Set stores a value for a field key, routing unknown keys to Extra.
func (r *Record) Set(key, value string) {
	if _, known := FieldByKey(key); known {
		r.Fields[key] = value
		return
	}
	r.Extra[key] = value
}

// ToggleOption flips one option of a multi-select field. The field value is a
// single comma-joined string; toggling parses it into trimmed non-sentinel
// tokens, adds or removes the option and rejoins. An empty selection collapses
// back to the sentinel.
func (r *Record) ToggleOption(key, option string) {
	selected := SplitSelection(r.Get(key))

	kept := selected[:0]
	removed := false
	for _, token := range selected {
		if token == option {
			removed = true
			continue
		}
		kept = append(kept, token)
	}
	if !removed {
		kept = append(kept, option)
	}

	r.Set(key, JoinSelection(kept))
}

// SplitSelection parses a comma-joined multi-select value into trimmed tokens,
// dropping empties and the sentinel.
func SplitSelection(value string) []string {
	parts := strings.Split(value, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" || token == Sentinel {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// JoinSelection is the inverse of SplitSelection; an empty selection yields
// the sentinel.
func JoinSelection(tokens []string) string {
	if len(tokens) == 0 {
		return Sentinel
	}
	return strings.Join(tokens, ", ")
}

// Merged returns a single field map of known plus extra values, the shape the
// sync forwarder sends. Declared fields that are empty are emitted as the
// sentinel for choice kinds and as empty strings otherwise.
func (r *Record) Merged() map[string]string {
	merged := make(map[string]string, len(r.Fields)+len(r.Extra))
	for _, spec := range Fields {
		value := r.Fields[spec.Key]
		if value == "" && (spec.Kind == KindSingleSelect || spec.Kind == KindMultiSelect) {
			value = Sentinel
		}
		merged[spec.Key] = value
	}
	for key, value := range r.Extra {
		merged[key] = value
	}
	return merged
}
