package models

// PropertyType classifies a listing. The empty string means "not yet known".
type PropertyType string

const (
	PropertyTypeLand      PropertyType = "land"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeCondo     PropertyType = "condo"
	PropertyTypeTownhouse PropertyType = "townhouse"
)

// PriceUnit qualifies how a quoted price should be read.
type PriceUnit string

const (
	PriceUnitTotal    PriceUnit = "total"
	PriceUnitPerPerch PriceUnit = "per_perch"
	PriceUnitPerAcre  PriceUnit = "per_acre"
)

// LandUnit is the unit a land size was quoted in.
type LandUnit string

const (
	LandUnitPerches    LandUnit = "perches"
	LandUnitAcres      LandUnit = "acres"
	LandUnitSquareFeet LandUnit = "square_feet"
)

// DraftStatus tracks a draft through its lifecycle.
type DraftStatus string

const (
	DraftStatusDraft     DraftStatus = "draft"
	DraftStatusReady     DraftStatus = "ready"
	DraftStatusPublished DraftStatus = "published"
)

// PropertyDraft is the accumulating record of a listing being authored
// through conversation. Numeric fields are pointers so that "not mentioned
// yet" is distinguishable from a genuine zero.
type PropertyDraft struct {
	Title           string       `json:"title,omitempty"`
	Description     string       `json:"description,omitempty"`
	PropertyType    PropertyType `json:"property_type,omitempty"`
	Price           *float64     `json:"price,omitempty"`
	PriceUnit       PriceUnit    `json:"price_unit,omitempty"`
	LandSize        *float64     `json:"land_size,omitempty"`
	LandUnit        LandUnit     `json:"land_unit,omitempty"`
	Location        string       `json:"location,omitempty"`
	District        string       `json:"district,omitempty"`
	City            string       `json:"city,omitempty"`
	Bedrooms        *int         `json:"bedrooms,omitempty"`
	Bathrooms       *int         `json:"bathrooms,omitempty"`
	Features        []string     `json:"features,omitempty"`
	Amenities       []string     `json:"amenities,omitempty"`
	ContactPhone    string       `json:"contact_phone,omitempty"`
	ContactWhatsApp string       `json:"contact_whatsapp,omitempty"`
	Images          []string     `json:"images,omitempty"`
	Status          DraftStatus  `json:"status,omitempty"`
}

// HasLocation reports whether any location signal has been captured.
// District and city are preferred over the free-text location.
func (d *PropertyDraft) HasLocation() bool {
	return d.Location != "" || d.City != "" || d.District != ""
}

// DisplayLocation returns the most specific location we know of.
func (d *PropertyDraft) DisplayLocation() string {
	switch {
	case d.City != "":
		return d.City
	case d.District != "":
		return d.District
	default:
		return d.Location
	}
}

// Clone returns a deep copy of the draft so callers can hand out snapshots
// without exposing the live slices.
func (d *PropertyDraft) Clone() PropertyDraft {
	out := *d
	if d.Price != nil {
		v := *d.Price
		out.Price = &v
	}
	if d.LandSize != nil {
		v := *d.LandSize
		out.LandSize = &v
	}
	if d.Bedrooms != nil {
		v := *d.Bedrooms
		out.Bedrooms = &v
	}
	if d.Bathrooms != nil {
		v := *d.Bathrooms
		out.Bathrooms = &v
	}
	out.Features = append([]string(nil), d.Features...)
	out.Amenities = append([]string(nil), d.Amenities...)
	out.Images = append([]string(nil), d.Images...)
	return out
}
