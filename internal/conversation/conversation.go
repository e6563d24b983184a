package conversation

import (
	"sync"

	"landsale/server/internal/models"
)

// Questions asked by the missing-field policy, in priority order.
const (
	QuestionPropertyType = "What type of property are you selling? (Land, House, Apartment, etc.)"
	QuestionLocation     = "Where is your property located? Please provide the city or district."
	QuestionLandSize     = "What's the size of the property? (e.g., 20 perches, 1 acre)"
	QuestionPrice        = "What's your asking price for this property?"
	QuestionContact      = "What's your contact number for interested buyers?"
)

// Conversation owns one listing draft being authored through chat. All
// mutation goes through Merge; missing fields are recomputed from the draft
// on every merge rather than patched incrementally. A Conversation is safe
// for concurrent use, though each is expected to serve a single session.
type Conversation struct {
	mu    sync.Mutex
	state models.ConversationState
}

// New returns a conversation at the initial step with an empty draft.
func New() *Conversation {
	c := &Conversation{}
	c.state = initialState()
	return c
}

func initialState() models.ConversationState {
	return models.ConversationState{
		Step: models.StepInitial,
		Draft: models.PropertyDraft{
			Status:    models.DraftStatusDraft,
			Features:  []string{},
			Amenities: []string{},
			Images:    []string{},
		},
		MissingFields: []string{
			models.FieldPropertyType,
			models.FieldLocation,
			models.FieldPrice,
			models.FieldLandSize,
		},
	}
}

// Reset discards the draft and returns to the initial step. Available at
// any step, including published.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = initialState()
}

// Merge folds a partial draft into the accumulated one. Scalar fields are
// last-write-wins; features and amenities are appended and deduplicated
// preserving first-occurrence order; images are appended in order. Merging
// into a published conversation is a no-op.
func (c *Conversation) Merge(info models.PropertyDraft) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Step == models.StepPublished {
		return
	}

	draft := &c.state.Draft

	if info.Title != "" {
		draft.Title = info.Title
	}
	if info.Description != "" {
		draft.Description = info.Description
	}
	if info.PropertyType != "" {
		draft.PropertyType = info.PropertyType
	}
	if info.Price != nil {
		v := *info.Price
		draft.Price = &v
	}
	if info.PriceUnit != "" {
		draft.PriceUnit = info.PriceUnit
	}
	if info.LandSize != nil {
		v := *info.LandSize
		draft.LandSize = &v
	}
	if info.LandUnit != "" {
		draft.LandUnit = info.LandUnit
	}
	if info.Location != "" {
		draft.Location = info.Location
	}
	if info.District != "" {
		draft.District = info.District
	}
	if info.City != "" {
		draft.City = info.City
	}
	if info.Bedrooms != nil {
		v := *info.Bedrooms
		draft.Bedrooms = &v
	}
	if info.Bathrooms != nil {
		v := *info.Bathrooms
		draft.Bathrooms = &v
	}
	if info.ContactPhone != "" {
		draft.ContactPhone = info.ContactPhone
	}
	if info.ContactWhatsApp != "" {
		draft.ContactWhatsApp = info.ContactWhatsApp
	}

	draft.Features = dedupe(append(draft.Features, info.Features...))
	draft.Amenities = dedupe(append(draft.Amenities, info.Amenities...))
	draft.Images = append(draft.Images, info.Images...)

	c.recompute()
}

// dedupe removes exact duplicates, keeping the first occurrence of each.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// recompute derives missingFields and the current step from the draft.
// Callers must hold c.mu.
func (c *Conversation) recompute() {
	draft := &c.state.Draft

	missing := make([]string, 0, 4)
	if draft.PropertyType == "" {
		missing = append(missing, models.FieldPropertyType)
	}
	if !draft.HasLocation() {
		missing = append(missing, models.FieldLocation)
	}
	if draft.Price == nil {
		missing = append(missing, models.FieldPrice)
	}
	if draft.LandSize == nil && (draft.PropertyType == "" || draft.PropertyType == models.PropertyTypeLand) {
		missing = append(missing, models.FieldLandSize)
	}
	c.state.MissingFields = missing

	c.state.Step = stepFor(draft)
}

// stepFor maps the draft onto the fixed step sequence. The step names the
// detail the conversation is currently gathering.
func stepFor(draft *models.PropertyDraft) models.Step {
	switch {
	case draft.PropertyType == "":
		return models.StepPropertyType
	case !draft.HasLocation():
		return models.StepLocation
	case draft.LandSize == nil && draft.PropertyType == models.PropertyTypeLand:
		return models.StepSize
	case draft.Price == nil:
		return models.StepPrice
	case len(draft.Features) == 0 && len(draft.Amenities) == 0:
		return models.StepFeatures
	case draft.ContactPhone == "":
		return models.StepContact
	default:
		return models.StepReview
	}
}

// NextQuestion returns the highest-priority unanswered question, or false
// once nothing further needs asking. The contact number is asked for even
// though publishing is allowed without it.
func (c *Conversation) NextQuestion() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	draft := &c.state.Draft

	var question string
	switch {
	case draft.PropertyType == "":
		question = QuestionPropertyType
	case !draft.HasLocation():
		question = QuestionLocation
	case draft.LandSize == nil && (draft.PropertyType == models.PropertyTypeLand || draft.PropertyType == ""):
		question = QuestionLandSize
	case draft.Price == nil:
		question = QuestionPrice
	case draft.ContactPhone == "":
		question = QuestionContact
	default:
		return "", false
	}

	c.state.LastQuestion = question
	return question, true
}

// IsReadyToPublish reports whether the draft satisfies the minimum
// required-field invariant: property type, a location signal and a price,
// plus a land size when the property is land.
func (c *Conversation) IsReadyToPublish() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return readyToPublish(&c.state.Draft)
}

func readyToPublish(draft *models.PropertyDraft) bool {
	if draft.PropertyType == "" || !draft.HasLocation() || draft.Price == nil {
		return false
	}
	if draft.PropertyType == models.PropertyTypeLand && draft.LandSize == nil {
		return false
	}
	return true
}

// MarkPublished moves the conversation to its terminal step. No transition
// leaves published; a new listing requires a fresh conversation or Reset.
func (c *Conversation) MarkPublished() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Step = models.StepPublished
	c.state.Draft.Status = models.DraftStatusPublished
}

// State returns a snapshot of the conversation state.
func (c *Conversation) State() models.ConversationState {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := c.state
	snapshot.Draft = c.state.Draft.Clone()
	snapshot.MissingFields = append([]string(nil), c.state.MissingFields...)
	return snapshot
}

// Draft returns a snapshot of the accumulated draft.
func (c *Conversation) Draft() models.PropertyDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Draft.Clone()
}
