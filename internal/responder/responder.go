// Package responder drives the seller-side chat. It folds each incoming
// message into the conversation draft via the extractor, acknowledges what
// was understood and asks for the next missing detail. Replies are fully
// deterministic.
package responder

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"landsale/server/internal/conversation"
	"landsale/server/internal/extractor"
	"landsale/server/internal/generator"
	"landsale/server/internal/models"
)

// Reply is one chat turn from the assistant.
type Reply struct {
	Text           string   `json:"text"`
	Suggestions    []string `json:"suggestions,omitempty"`
	ReadyToPublish bool     `json:"ready_to_publish,omitempty"`
}

type Responder struct {
	extractor *extractor.Extractor
	logger    *logrus.Logger
}

func New(ext *extractor.Extractor, logger *logrus.Logger) *Responder {
	return &Responder{
		extractor: ext,
		logger:    logger,
	}
}

var sellKeywords = []string{"sell", "list my", "post my"}

// canned replies for messages that carry no listing details
var cannedReplies = []struct {
	keyword string
	reply   Reply
}{
	{
		keyword: "hello",
		reply: Reply{
			Text: "Ayubowan! 🙏 Welcome to LandSale.lk!\n\nI'm here to help you sell your property or find one to buy. How can I help you today?",
			Suggestions: []string{"I want to sell", "Show me properties", "Property valuation"},
		},
	},
	{
		keyword: "hi",
		reply: Reply{
			Text: "Ayubowan! 🙏 Welcome!\n\nWhether you're looking to buy your dream property or sell your land, I'm here to make it simple. What brings you here today?",
			Suggestions: []string{"I want to sell my land", "Looking to buy", "Just browsing"},
		},
	},
	{
		keyword: "help",
		reply: Reply{
			Text: "I'm here to help! 🤝\n\nI can create a listing for your property in minutes, search available listings, or give you market price guides. Just tell me what you need!",
			Suggestions: []string{"Create listing", "Find properties", "Market info"},
		},
	},
	{
		keyword: "buy",
		reply: Reply{
			Text: "I'd be happy to help you find properties! 🏠\n\nTell me the area and your budget and I'll look for matching listings.",
			Suggestions: []string{"Land in Colombo", "Under 10 million", "Houses only"},
		},
	},
}

var defaultReply = Reply{
	Text: "I understand! 🤔\n\nI can help you sell your property or find one to buy. What would you like to do?",
	Suggestions: []string{"Sell my property", "Find properties", "Get valuation"},
}

// Respond merges the message into the conversation and produces the next
// assistant turn.
func (r *Responder) Respond(conv *conversation.Conversation, message string) Reply {
	lower := strings.ToLower(message)
	extracted := r.extractor.Extract(message)
	conv.Merge(extracted)

	state := conv.State()
	r.logger.WithFields(logrus.Fields{
		"step":    state.Step.String(),
		"missing": state.MissingFields,
	}).Debug("Conversation advanced")

	acknowledged := acknowledge(extracted)

	if acknowledged == "" {
		// Nothing extracted: either the user is opening a sale, chatting,
		// or we are mid-conversation and should repeat the question.
		if containsAny(lower, sellKeywords) {
			return askNext(conv, "Great! I'd love to help you sell your property! 🏡\n\n")
		}
		for _, canned := range cannedReplies {
			if strings.Contains(lower, canned.keyword) {
				return canned.reply
			}
		}
		if state.Step != models.StepInitial {
			return askNext(conv, "")
		}
		return defaultReply
	}

	// The draft gained information; when it is complete, present the
	// summary and offer to publish.
	if conv.IsReadyToPublish() {
		if _, more := conv.NextQuestion(); !more {
			return Reply{
				Text: acknowledged + "\n🎉 **Your listing is ready to publish!**\n\n" +
					generator.Summary(conv.Draft()) +
					"\nWould you like to publish it now?",
				Suggestions:    []string{"Publish listing", "Edit details", "Add photos", "Save as draft"},
				ReadyToPublish: true,
			}
		}
	}

	return askNext(conv, acknowledged+"\n")
}

// acknowledge describes the fields just understood from the message.
func acknowledge(extracted models.PropertyDraft) string {
	var lines []string

	if extracted.PropertyType != "" {
		lines = append(lines, fmt.Sprintf("Got it - a %s! 🏷️", extracted.PropertyType))
	}
	if extracted.City != "" || extracted.District != "" || extracted.Location != "" {
		place := extracted.City
		if place == "" {
			place = extracted.District
		}
		if place == "" {
			place = extracted.Location
		}
		lines = append(lines, fmt.Sprintf("Location noted: %s 📍", place))
	}
	if extracted.LandSize != nil {
		unit := string(extracted.LandUnit)
		if unit == "" {
			unit = "perches"
		}
		lines = append(lines, fmt.Sprintf("%s %s - noted! 📐", generator.FormatAmount(*extracted.LandSize), unit))
	}
	if extracted.Price != nil {
		suffix := ""
		if extracted.PriceUnit == models.PriceUnitPerPerch {
			suffix = " per perch"
		}
		lines = append(lines, fmt.Sprintf("%s%s - great price! 💰", generator.FormatPrice(*extracted.Price), suffix))
	}
	if extracted.Bedrooms != nil {
		lines = append(lines, fmt.Sprintf("%d bedrooms 🛏️", *extracted.Bedrooms))
	}
	if len(extracted.Features) > 0 {
		lines = append(lines, fmt.Sprintf("Features noted: %s ✨", strings.Join(extracted.Features, ", ")))
	}
	if extracted.ContactPhone != "" {
		lines = append(lines, fmt.Sprintf("Contact saved: %s 📱", extracted.ContactPhone))
	}

	return strings.Join(lines, "\n")
}

// askNext appends the next outstanding question to the prefix text.
func askNext(conv *conversation.Conversation, prefix string) Reply {
	question, ok := conv.NextQuestion()
	if !ok {
		return Reply{
			Text: prefix + "🎉 **Your listing is ready to publish!**\n\n" +
				generator.Summary(conv.Draft()) +
				"\nWould you like to publish it now?",
			Suggestions:    []string{"Publish listing", "Edit details", "Add photos", "Save as draft"},
			ReadyToPublish: true,
		}
	}

	return Reply{
		Text:        prefix + question,
		Suggestions: suggestionsFor(question),
	}
}

func suggestionsFor(question string) []string {
	switch question {
	case conversation.QuestionPropertyType:
		return []string{"Land for sale", "House for sale", "Apartment", "Commercial"}
	case conversation.QuestionLocation:
		return []string{"Colombo area", "Gampaha area", "Kandy area", "Southern area"}
	case conversation.QuestionLandSize:
		return []string{"10 perches", "20 perches", "30+ perches", "Enter exact size"}
	case conversation.QuestionPrice:
		return []string{"Under 5 million", "5-10 million", "10-20 million", "Above 20 million"}
	case conversation.QuestionContact:
		return []string{"Add phone", "Add WhatsApp", "Both phone & WhatsApp", "Skip for now"}
	default:
		return nil
	}
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
