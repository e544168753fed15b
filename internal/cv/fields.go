package cv

// Sentinel is the canonical empty-value marker for choice fields.
const Sentinel = "N/A"

// FieldKind selects the edit control used for a record field.
type FieldKind int

const (
	KindText FieldKind = iota
	KindLongText
	KindSingleSelect
	KindMultiSelect
)

// FieldSpec declares a known record field and how it is reviewed.
type FieldSpec struct {
	Key     string
	Label   string
	Kind    FieldKind
	Options []string
}

// Fields is the declared field set, in review order. Anything the template
// produces outside this set lands in the record's Extra bucket.
var Fields = []FieldSpec{
	{Key: "full_name", Label: "Full name", Kind: KindText},
	{Key: "gender", Label: "Gender", Kind: KindSingleSelect, Options: []string{"Male", "Female"}},
	{Key: "birth_year", Label: "Birth year", Kind: KindText},
	{Key: "nationality", Label: "Nationality", Kind: KindText},
	{Key: "email", Label: "Email", Kind: KindText},
	{Key: "phone", Label: "Phone", Kind: KindText},
	{Key: "address", Label: "Current address", Kind: KindText},
	{Key: "university", Label: "University / education", Kind: KindText},
	{Key: "certificates", Label: "Degrees & certificates", Kind: KindLongText},
	{Key: "experience_summary", Label: "Experience summary", Kind: KindLongText},
	{Key: "class_type", Label: "Class type", Kind: KindSingleSelect, Options: []string{
		"Kindergarten / Preschool",
		"Primary School",
		"Secondary School",
		"High School",
		"Language Center",
		"Online",
	}},
	{Key: "branch", Label: "Receiving branch", Kind: KindMultiSelect, Options: []string{
		"HO CHI MINH",
		"HA NOI",
		"DA NANG",
	}},
	{Key: "cv_source", Label: "CV source", Kind: KindMultiSelect, Options: []string{
		"Facebook",
		"LinkedIn",
		"Website",
		"Vietnamteachingjobs",
		"Outsource",
		"Refferal from a friend",
		"Group Zalo",
		"Other",
	}},
	{Key: "candidate_type", Label: "Candidate type", Kind: KindMultiSelect, Options: []string{
		"School during daytime (full-time)",
		"Private classes/Centers during evenings and weekends (part-time)",
	}},
}

// FieldByKey returns the spec for a known field key.
func FieldByKey(key string) (FieldSpec, bool) {
	for _, spec := range Fields {
		if spec.Key == key {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// KnownKeys returns the declared field keys in review order.
func KnownKeys() []string {
	keys := make([]string, 0, len(Fields))
	for _, spec := range Fields {
		keys = append(keys, spec.Key)
	}
	return keys
}
