// Package generator renders listing text from a draft. Every function is a
// pure function of its input: the same draft always produces byte-identical
// output.
package generator

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"landsale/server/internal/models"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders a monetary or size amount with thousands grouping,
// dropping the fraction for whole numbers.
func FormatAmount(v float64) string {
	if v == float64(int64(v)) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

// FormatPrice renders a rupee amount, e.g. "Rs. 5,000,000".
func FormatPrice(v float64) string {
	return "Rs. " + FormatAmount(v)
}

// formatSize renders a land size the way it was spoken, without grouping.
func formatSize(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Title builds a default listing title, e.g.
// "20 perches Land for Sale in Colombo". Absent parts are omitted.
func Title(draft models.PropertyDraft) string {
	var parts []string

	if draft.LandSize != nil {
		unit := string(draft.LandUnit)
		if unit == "" {
			unit = "Perch"
		}
		parts = append(parts, fmt.Sprintf("%s %s", formatSize(*draft.LandSize), unit))
	}

	if draft.PropertyType != "" {
		parts = append(parts, capitalize(string(draft.PropertyType)))
	}

	parts = append(parts, "for Sale")

	if draft.City != "" || draft.District != "" {
		place := draft.City
		if place == "" {
			place = draft.District
		}
		parts = append(parts, "in "+place)
	}

	return strings.Join(parts, " ")
}

// Description builds a default listing description: a type-specific opening
// sentence, then location, features and price clauses for whatever is set.
func Description(draft models.PropertyDraft) string {
	var b strings.Builder

	if draft.PropertyType == models.PropertyTypeLand {
		if draft.LandSize != nil {
			unit := string(draft.LandUnit)
			if unit == "" {
				unit = "perch"
			}
			fmt.Fprintf(&b, "Beautiful %s %s land for sale", formatSize(*draft.LandSize), unit)
		} else {
			b.WriteString("Beautiful land for sale")
		}
	} else if draft.PropertyType != "" {
		b.WriteString(capitalize(string(draft.PropertyType)) + " for sale")
	} else {
		b.WriteString("Property for sale")
	}

	if draft.City != "" || draft.District != "" {
		place := draft.City
		if place == "" {
			place = draft.District
		}
		b.WriteString(" in " + place)
	}

	b.WriteString(".")

	if len(draft.Features) > 0 {
		b.WriteString(" Features: " + strings.Join(draft.Features, ", ") + ".")
	}

	if draft.Price != nil {
		b.WriteString(" Asking price: " + FormatPrice(*draft.Price))
		if draft.PriceUnit == models.PriceUnitPerPerch {
			b.WriteString(" per perch")
		}
		b.WriteString(".")
	}

	return b.String()
}

// Summary builds the multi-line chat summary of a draft. Lines for unset
// fields are left out; type and location fall back to "Not specified".
func Summary(draft models.PropertyDraft) string {
	var b strings.Builder

	b.WriteString("📋 **Your Property Listing Summary**\n\n")

	propType := "Not specified"
	if draft.PropertyType != "" {
		propType = capitalize(string(draft.PropertyType))
	}
	fmt.Fprintf(&b, "🏷️ **Type:** %s\n", propType)

	location := draft.DisplayLocation()
	if location == "" {
		location = "Not specified"
	}
	fmt.Fprintf(&b, "📍 **Location:** %s\n", location)

	if draft.LandSize != nil {
		unit := string(draft.LandUnit)
		if unit == "" {
			unit = "perches"
		}
		fmt.Fprintf(&b, "📐 **Size:** %s %s\n", formatSize(*draft.LandSize), unit)
	}

	if draft.Price != nil {
		suffix := ""
		if draft.PriceUnit == models.PriceUnitPerPerch {
			suffix = " per perch"
		}
		fmt.Fprintf(&b, "💰 **Price:** %s%s\n", FormatPrice(*draft.Price), suffix)
	}

	if draft.Bedrooms != nil {
		fmt.Fprintf(&b, "🛏️ **Bedrooms:** %d\n", *draft.Bedrooms)
	}

	if draft.Bathrooms != nil {
		fmt.Fprintf(&b, "🚿 **Bathrooms:** %d\n", *draft.Bathrooms)
	}

	if len(draft.Features) > 0 {
		fmt.Fprintf(&b, "✨ **Features:** %s\n", strings.Join(draft.Features, ", "))
	}

	if draft.ContactPhone != "" {
		fmt.Fprintf(&b, "📞 **Contact:** %s\n", draft.ContactPhone)
	}

	return b.String()
}
