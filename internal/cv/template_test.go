package cv

import (
	"testing"
)

func TestSampleRecoversEmbeddedObject(t *testing.T) {
	t.Parallel()

	template := `Extract into JSON:
{
  "full_name": "Nguyễn Văn A",
  "gender": "Male/Female",
  "portfolio": "https://example.com"
}
Missing values read "N/A".`

	sample := Sample(template)

	if len(sample) != 3 {
		t.Fatalf("expected exactly the embedded keys, got %v", sample)
	}

	if got := sample["full_name"]; got != "Nguyễn Văn A" {
		t.Fatalf("unexpected full_name: %q", got)
	}

	if got := sample["portfolio"]; got != "https://example.com" {
		t.Fatalf("unexpected portfolio: %q", got)
	}
}

func TestSampleFallsBackWithoutObjectSpan(t *testing.T) {
	t.Parallel()

	sample := Sample("no braces in here at all")

	if len(sample) == 0 {
		t.Fatal("expected a non-empty fallback sample")
	}

	if got := sample["full_name"]; got != "Nguyễn Văn Test" {
		t.Fatalf("unexpected fallback full_name: %q", got)
	}
}

func TestSampleFallsBackOnMalformedObject(t *testing.T) {
	t.Parallel()

	sample := Sample(`template { "full_name": }`)

	if got := sample["gender"]; got != "Male" {
		t.Fatalf("expected fallback sample, got %v", sample)
	}
}

func TestDefaultTemplateSampleCoversDeclaredFields(t *testing.T) {
	t.Parallel()

	sample := Sample(DefaultTemplate)

	for _, key := range KnownKeys() {
		if _, ok := sample[key]; !ok {
			t.Fatalf("default template sample is missing %q", key)
		}
	}
}

func TestObjectSpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
		ok     bool
	}{
		{
			name:   "object with surrounding prose",
			input:  "Here you go:\n{\"a\": \"b\"}\nThanks!",
			expect: `{"a": "b"}`,
			ok:     true,
		},
		{
			name:  "no braces",
			input: "nothing here",
			ok:    false,
		},
		{
			name:  "closing before opening",
			input: "} oops {",
			ok:    false,
		},
		{
			name:   "greedy across nested objects",
			input:  `{"a": {"b": "c"}}`,
			expect: `{"a": {"b": "c"}}`,
			ok:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			span, ok := ObjectSpan(tt.input)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && span != tt.expect {
				t.Fatalf("expected span %q, got %q", tt.expect, span)
			}
		})
	}
}

func TestValidateObjectRejectsNestedValues(t *testing.T) {
	t.Parallel()

	flat := map[string]any{"full_name": "John", "birth_year": 1995.0, "active": true}
	if err := ValidateObject(flat); err != nil {
		t.Fatalf("expected flat object to validate, got %v", err)
	}

	nested := map[string]any{"full_name": map[string]any{"first": "John"}}
	if err := ValidateObject(nested); err == nil {
		t.Fatal("expected nested object to fail validation")
	}
}
