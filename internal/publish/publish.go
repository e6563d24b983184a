// Package publish turns a completed conversation draft into a stored
// listing.
package publish

import (
	"github.com/sirupsen/logrus"

	"landsale/server/internal/conversation"
	"landsale/server/internal/generator"
	"landsale/server/internal/models"
	"landsale/server/internal/queue"
)

// ListingStore is the persistence collaborator the gateway hands completed
// drafts to.
type ListingStore interface {
	CreateListing(input models.CreateListingInput) (*models.Listing, error)
}

// ValidationError reports a draft that does not meet the publish
// requirements. It is recoverable: supply the missing fields and retry.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "Listing is not complete. Please provide all required information."
}

// Result is what a successful publish returns to the chat layer.
type Result struct {
	ListingID int64  `json:"listing_id"`
	URL       string `json:"url"`
}

// Gateway validates publish-eligibility and forwards drafts to the store.
// A publish is a single attempt: store failures are surfaced verbatim and
// the conversation stays in its pre-publish state so the user can retry.
type Gateway struct {
	store  ListingStore
	queue  *queue.ListingQueue
	logger *logrus.Logger
}

// NewGateway creates a publish gateway. The queue is optional; when set,
// every published listing is pushed onto it for post-publish fan-out.
func NewGateway(store ListingStore, q *queue.ListingQueue, logger *logrus.Logger) *Gateway {
	return &Gateway{
		store:  store,
		queue:  q,
		logger: logger,
	}
}

// Publish validates the conversation's draft, stores it under userID and
// marks the conversation published.
func (g *Gateway) Publish(conv *conversation.Conversation, userID string) (*Result, error) {
	if !conv.IsReadyToPublish() {
		state := conv.State()
		return nil, &ValidationError{Missing: state.MissingFields}
	}

	draft := conv.Draft()
	input := buildInput(draft, userID)

	listing, err := g.store.CreateListing(input)
	if err != nil {
		g.logger.WithError(err).Error("Failed to create listing")
		return nil, err
	}

	conv.MarkPublished()

	g.logger.WithFields(logrus.Fields{
		"listing_id": listing.ID,
		"user_id":    userID,
	}).Info("Published listing")

	if g.queue != nil {
		if err := g.queue.Push([]*models.Listing{listing}); err != nil {
			// Post-publish fan-out is best effort; the listing is stored.
			g.logger.WithError(err).Warn("Failed to enqueue published listing")
		}
	}

	return &Result{ListingID: listing.ID, URL: listing.URL}, nil
}

// buildInput translates the draft into the store's input shape, filling
// generated title and description when the user supplied none.
func buildInput(draft models.PropertyDraft, userID string) models.CreateListingInput {
	title := draft.Title
	if title == "" {
		title = generator.Title(draft)
	}

	description := draft.Description
	if description == "" {
		description = generator.Description(draft)
	}

	propType := draft.PropertyType
	if propType == "" {
		propType = models.PropertyTypeLand
	}

	landUnit := draft.LandUnit
	if landUnit == "" {
		landUnit = models.LandUnitPerches
	}

	var price float64
	if draft.Price != nil {
		price = *draft.Price
	}

	priceUnit := draft.PriceUnit
	if priceUnit == "" {
		priceUnit = models.PriceUnitTotal
	}

	// Amenities and features land in a single feature list on the listing.
	features := append(append([]string{}, draft.Amenities...), draft.Features...)

	return models.CreateListingInput{
		Title:           title,
		Description:     description,
		PropertyType:    propType,
		Price:           price,
		PriceUnit:       priceUnit,
		District:        draft.District,
		City:            draft.City,
		Address:         draft.Location,
		LandSize:        draft.LandSize,
		LandUnit:        landUnit,
		Bedrooms:        draft.Bedrooms,
		Bathrooms:       draft.Bathrooms,
		Features:        features,
		Images:          draft.Images,
		ContactPhone:    draft.ContactPhone,
		ContactWhatsApp: draft.ContactWhatsApp,
		UserID:          userID,
	}
}
