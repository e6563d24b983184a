package models

// Step is a position in the fixed listing-conversation sequence.
type Step int

const (
	StepInitial Step = iota
	StepPropertyType
	StepLocation
	StepSize
	StepPrice
	StepFeatures
	StepContact
	StepReview
	StepPublished
)

// String returns the wire representation of a step.
func (s Step) String() string {
	switch s {
	case StepInitial:
		return "initial"
	case StepPropertyType:
		return "property_type"
	case StepLocation:
		return "location"
	case StepSize:
		return "size"
	case StepPrice:
		return "price"
	case StepFeatures:
		return "features"
	case StepContact:
		return "contact"
	case StepReview:
		return "review"
	case StepPublished:
		return "published"
	default:
		return "unknown"
	}
}

// MarshalText lets a Step render as its name in JSON payloads.
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Names of the fields the missing-field policy reports.
const (
	FieldPropertyType = "property_type"
	FieldLocation     = "location"
	FieldPrice        = "price"
	FieldLandSize     = "land_size"
	FieldContactPhone = "contact_phone"
)

// ConversationState wraps one draft plus the derived conversation position.
// MissingFields is always recomputed from the draft, never patched in place.
type ConversationState struct {
	Step          Step          `json:"step"`
	Draft         PropertyDraft `json:"draft"`
	MissingFields []string      `json:"missing_fields"`
	LastQuestion  string        `json:"last_question,omitempty"`
}
