package responder

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landsale/server/internal/conversation"
	"landsale/server/internal/extractor"
)

func newResponder() *Responder {
	return New(extractor.New(), logrus.New())
}

func TestRespond_Greeting(t *testing.T) {
	r := newResponder()
	conv := conversation.New()

	reply := r.Respond(conv, "hello")
	assert.True(t, strings.HasPrefix(reply.Text, "Ayubowan"))
	assert.NotEmpty(t, reply.Suggestions)
	assert.False(t, reply.ReadyToPublish)
}

func TestRespond_SellIntentAsksForPropertyType(t *testing.T) {
	r := newResponder()
	conv := conversation.New()

	reply := r.Respond(conv, "I want to sell my property")
	assert.Contains(t, reply.Text, conversation.QuestionPropertyType)
	assert.Contains(t, reply.Suggestions, "Land for sale")
}

func TestRespond_AcknowledgesAndAsksNext(t *testing.T) {
	r := newResponder()
	conv := conversation.New()

	reply := r.Respond(conv, "I want to sell my land in Kadawatha, 20 perches")
	assert.Contains(t, reply.Text, "Got it - a land!")
	assert.Contains(t, reply.Text, "Location noted: Kadawatha")
	assert.Contains(t, reply.Text, conversation.QuestionPrice)
	assert.False(t, reply.ReadyToPublish)
}

func TestRespond_RepeatsQuestionMidConversation(t *testing.T) {
	r := newResponder()
	conv := conversation.New()

	r.Respond(conv, "selling my land")
	reply := r.Respond(conv, "hmm")
	assert.Contains(t, reply.Text, conversation.QuestionLocation)
}

func TestRespond_UnrecognizedOpeningGetsDefaultReply(t *testing.T) {
	r := newResponder()
	conv := conversation.New()

	reply := r.Respond(conv, "???")
	assert.Equal(t, defaultReply, reply)
}

func TestRespond_CompleteDraftOffersPublish(t *testing.T) {
	r := newResponder()
	conv := conversation.New()

	r.Respond(conv, "I want to sell my land in Kadawatha, 20 perches, asking 4.5 million")
	reply := r.Respond(conv, "You can call me on 0771234567")

	assert.True(t, reply.ReadyToPublish)
	assert.Contains(t, reply.Text, "ready to publish")
	assert.Contains(t, reply.Text, "Property Listing Summary")
	assert.Contains(t, reply.Suggestions, "Publish listing")
}

func TestRespond_Deterministic(t *testing.T) {
	r := newResponder()

	first := r.Respond(conversation.New(), "selling 10 perches in Galle for 8 million")
	second := r.Respond(conversation.New(), "selling 10 perches in Galle for 8 million")
	assert.Equal(t, first, second)
}

func TestRespond_DraftAccumulatesAcrossTurns(t *testing.T) {
	r := newResponder()
	conv := conversation.New()

	r.Respond(conv, "it's a land")
	r.Respond(conv, "in Negombo")
	r.Respond(conv, "20 perches")
	r.Respond(conv, "asking 4.5 million")

	draft := conv.Draft()
	require.NotNil(t, draft.Price)
	assert.Equal(t, 4_500_000.0, *draft.Price)
	assert.Equal(t, "Negombo", draft.City)
	require.NotNil(t, draft.LandSize)
	assert.Equal(t, 20.0, *draft.LandSize)
	assert.True(t, conv.IsReadyToPublish())
}
