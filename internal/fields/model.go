package fields

// Kind is the declared input type of a form field, as configured by the
// form administrator. It is a hint, not a guarantee: admins relabel and
// repurpose fields freely.
type Kind string

const (
	KindText      Kind = "text"
	KindEmail     Kind = "email"
	KindPhone     Kind = "phone"
	KindURL       Kind = "url"
	KindNumber    Kind = "number"
	KindFile      Kind = "file"
	KindParagraph Kind = "paragraph"
)

// FormField is one answered field from a submission. Label is admin-chosen
// free text; Value is inline text or an opaque file/URL reference.
type FormField struct {
	Label string `json:"label"`
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

// Identified holds the semantic roles resolved from a submission's fields.
// Any role the identifier could not resolve is left empty. Fields not
// claimed by a role are preserved verbatim in RemainingAnswers.
type Identified struct {
	Name             string
	Phone            string
	Email            string
	ResumeReference  string
	RemainingAnswers map[string]string
}
