package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"landsale/server/config"
	"landsale/server/internal/models"
)

// Extractor detects structured listing fields in free-text chat messages.
// It is stateless: the same message always produces the same partial draft,
// and a field that cannot be detected is simply left unset. Construct one
// per process and share it; all compiled patterns are read-only.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// propertyTypeVocab maps keyword groups to a property type. Scanned in
// order; the first group with a hit wins.
var propertyTypeVocab = []struct {
	keywords []string
	propType models.PropertyType
}{
	{[]string{"land", "plot", "block"}, models.PropertyTypeLand},
	{[]string{"house", "home", "bungalow"}, models.PropertyTypeHouse},
	{[]string{"apartment", "flat"}, models.PropertyTypeApartment},
	{[]string{"condo"}, models.PropertyTypeCondo},
	{[]string{"townhouse"}, models.PropertyTypeTownhouse},
}

// Land size patterns. Evaluated in fixed order with last-match-wins, so a
// message quoting several unit families resolves to the last family below.
// Unit tokens are word-bounded so "per perch" never reads as a size.
var (
	perchPattern = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:perches|perch|p)\b`)
	acrePattern  = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:acres|acre|ac)\b`)
	sqftPattern  = regexp.MustCompile(`(?i)\b(\d+(?:,\d{3})*(?:\.\d+)?)\s*(?:sq\.?\s*ft|sqft|square\s*feet)\b`)
)

// Price patterns, tried in order; the first match wins.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:rs\.?|lkr\.?|රු\.?)\s*(\d+(?:,\d{3})*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d+)?)\s*(?:million|mn|m)\b(?:\s*(?:rupees?|lkr))?`),
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d+)?)\s*(?:lakhs?|lacs?)\b(?:\s*(?:rupees?|lkr))?`),
	regexp.MustCompile(`(?i)asking\s*(?:price\s*)?(?:rs\.?|lkr\.?)?\s*(\d+(?:,\d{3})*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)price\s*(?:is\s*)?(?:rs\.?|lkr\.?)?\s*(\d+(?:,\d{3})*(?:\.\d+)?)`),
}

// millionToken triggers the x1,000,000 multiplier. The multiplier fires on
// the textual marker only, never on digit magnitude.
var millionToken = regexp.MustCompile(`(?i)\d+\s*m\b`)

var (
	genericLocationPattern = regexp.MustCompile(`(?:in|at|near|located\s+(?:in|at))\s+([A-Z][a-zA-Z\s]+?)(?:\s*,|\s*\.|$)`)
	bedroomPattern         = regexp.MustCompile(`(?i)(\d+)\s*(?:bed(?:room)?s?|br|bhk)\b`)
	bathroomPattern        = regexp.MustCompile(`(?i)(\d+)\s*(?:bath(?:room)?s?|ba)\b`)
	phonePattern           = regexp.MustCompile(`(?i)(?:phone|call|contact|mobile|tel|whatsapp)?\s*:?\s*((?:\+94|0)?[0-9]{9,10})`)
)

// amenityKeywords are matched by substring containment; every hit is
// title-cased into the features list.
var amenityKeywords = []string{
	"road access", "main road", "electricity", "water supply", "well water",
	"pipe water", "swimming pool", "garden", "garage", "parking", "security",
	"gated community", "near school", "near hospital", "near town", "scenic view",
	"mountain view", "beach front", "river front", "flat land", "sloped",
	"corner lot", "commercial zone", "residential zone", "freehold", "leasehold",
	"immediate sale", "urgent sale", "negotiable", "clear title",
}

// Extract returns the partial draft detectable in a single message. Multiple
// rules may fire on one message; rules that find nothing leave their field
// unset. Extraction never fails.
func (e *Extractor) Extract(message string) models.PropertyDraft {
	var extracted models.PropertyDraft
	lower := strings.ToLower(message)

	extractPropertyType(lower, &extracted)
	extractLandSize(message, &extracted)
	extractPrice(message, lower, &extracted)
	extractLocation(message, lower, &extracted)
	extractRooms(message, &extracted)
	extractPhone(message, &extracted)
	extractFeatures(lower, &extracted)

	return extracted
}

func extractPropertyType(lower string, out *models.PropertyDraft) {
	for _, group := range propertyTypeVocab {
		for _, keyword := range group.keywords {
			if strings.Contains(lower, keyword) {
				out.PropertyType = group.propType
				return
			}
		}
	}
}

func extractLandSize(message string, out *models.PropertyDraft) {
	if m := perchPattern.FindStringSubmatch(message); m != nil {
		if size, err := strconv.ParseFloat(m[1], 64); err == nil {
			out.LandSize = &size
			out.LandUnit = models.LandUnitPerches
		}
	}

	if m := acrePattern.FindStringSubmatch(message); m != nil {
		if size, err := strconv.ParseFloat(m[1], 64); err == nil {
			out.LandSize = &size
			out.LandUnit = models.LandUnitAcres
		}
	}

	if m := sqftPattern.FindStringSubmatch(message); m != nil {
		if size, err := strconv.ParseFloat(stripThousands(m[1]), 64); err == nil {
			out.LandSize = &size
			out.LandUnit = models.LandUnitSquareFeet
		}
	}
}

func extractPrice(message, lower string, out *models.PropertyDraft) {
	for _, pattern := range pricePatterns {
		m := pattern.FindStringSubmatch(message)
		if m == nil {
			continue
		}

		price, err := strconv.ParseFloat(stripThousands(m[1]), 64)
		if err != nil {
			continue
		}

		if strings.Contains(lower, "million") || strings.Contains(lower, " m ") || millionToken.MatchString(message) {
			price *= 1_000_000
		} else if strings.Contains(lower, "lakh") || strings.Contains(lower, "lac") {
			price *= 100_000
		}

		out.Price = &price

		switch {
		case strings.Contains(lower, "per perch") || strings.Contains(lower, "/perch"):
			out.PriceUnit = models.PriceUnitPerPerch
		case strings.Contains(lower, "per acre") || strings.Contains(lower, "/acre"):
			out.PriceUnit = models.PriceUnitPerAcre
		default:
			out.PriceUnit = models.PriceUnitTotal
		}
		return
	}
}

func extractLocation(message, lower string, out *models.PropertyDraft) {
	for _, city := range config.PopularCities {
		if strings.Contains(lower, city) {
			out.City = config.TitleCase(city)
			break
		}
	}

	for _, district := range config.Districts {
		if strings.Contains(lower, district) {
			out.District = config.TitleCase(district)
			break
		}
	}

	// Fall back to a free-text capture only when no known place matched
	if out.City == "" && out.District == "" {
		if m := genericLocationPattern.FindStringSubmatch(message); m != nil {
			out.Location = strings.TrimSpace(m[1])
		}
	}
}

func extractRooms(message string, out *models.PropertyDraft) {
	if m := bedroomPattern.FindStringSubmatch(message); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			out.Bedrooms = &n
		}
	}

	if m := bathroomPattern.FindStringSubmatch(message); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			out.Bathrooms = &n
		}
	}
}

func extractPhone(message string, out *models.PropertyDraft) {
	if m := phonePattern.FindStringSubmatch(message); m != nil {
		out.ContactPhone = m[1]
	}
}

func extractFeatures(lower string, out *models.PropertyDraft) {
	var features []string
	for _, amenity := range amenityKeywords {
		if strings.Contains(lower, amenity) {
			features = append(features, config.TitleCase(amenity))
		}
	}
	if len(features) > 0 {
		out.Features = features
	}
}

func stripThousands(s string) string {
	return strings.ReplaceAll(s, ",", "")
}
