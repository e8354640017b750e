package models

import (
	"context"
	"time"
)

const (
	DefaultCleaningFee = 30.0
	DefaultClimateTax  = 1.5
)

type Property struct {
	ID                 string   `json:"id" validate:"required"`
	HosthubListingID   string   `json:"hosthub_listing_id"`
	Title              string   `json:"title" validate:"required"`
	TitleEl            string   `json:"title_el,omitempty"`
	Category           string   `json:"category"`
	CategoryEl         string   `json:"category_el,omitempty"`
	Description        string   `json:"description"`
	DescriptionEl      string   `json:"description_el,omitempty"`
	ShortDescription   string   `json:"short_description"`
	ShortDescriptionEl string   `json:"short_description_el,omitempty"`
	Images             []string `json:"images"`
	Amenities          []string `json:"amenities"`
	AmenitiesEl        []string `json:"amenities_el,omitempty"`
	Capacity           int      `json:"capacity" validate:"min=1"`
	Bedrooms           int      `json:"bedrooms" validate:"min=0"`
	Bathrooms          int      `json:"bathrooms" validate:"min=0"`
	HouseRules         []string `json:"house_rules"`
	CancellationPolicy string   `json:"cancellation_policy"`
	Location           string   `json:"location"`
	PricePerNightBase  float64  `json:"price_per_night_base" validate:"gte=0"`
	CleaningFee        float64  `json:"cleaning_fee" validate:"gte=0"`
	ClimateCrisisTax   float64  `json:"climate_crisis_tax" validate:"gte=0"`
}

// Normalize fills the defaults the catalog has always applied on read: Greek fields
// fall back to English, fees fall back to the house defaults.
func (p *Property) Normalize() {
	if p.TitleEl == "" {
		p.TitleEl = p.Title
	}
	if p.CategoryEl == "" {
		p.CategoryEl = p.Category
	}
	if p.DescriptionEl == "" {
		p.DescriptionEl = p.Description
	}
	if p.ShortDescriptionEl == "" {
		p.ShortDescriptionEl = p.ShortDescription
	}
	if len(p.AmenitiesEl) == 0 {
		p.AmenitiesEl = p.Amenities
	}
	if p.CleaningFee == 0 {
		p.CleaningFee = DefaultCleaningFee
	}
	if p.ClimateCrisisTax == 0 {
		p.ClimateCrisisTax = DefaultClimateTax
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
	if p.HouseRules == nil {
		p.HouseRules = []string{}
	}
}

// Settings is the single CMS settings row.
type Settings struct {
	ID              int       `json:"id"`
	BrandName       string    `json:"brand_name"`
	StripePublicKey string    `json:"stripe_public_key"`
	HosthubAPIKey   string    `json:"hosthub_api_key"`
	MydataUserID    string    `json:"mydata_user_id,omitempty"`
	MydataAPIKey    string    `json:"mydata_api_key,omitempty"`
	VATNumber       string    `json:"vat_number,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

const DefaultBrandName = "TOWER 15 Suites"

// CMSState is the whole editable content set, as handed to the admin assistant.
type CMSState struct {
	Properties      []Property `json:"properties"`
	BrandName       string     `json:"brand_name"`
	StripePublicKey string     `json:"stripe_public_key"`
	HosthubAPIKey   string     `json:"hosthub_api_key"`
	MydataUserID    string     `json:"mydata_user_id,omitempty"`
	MydataAPIKey    string     `json:"mydata_api_key,omitempty"`
	VATNumber       string     `json:"vat_number,omitempty"`
}

type PropertyRepo interface {
	ListProperties(ctx context.Context) ([]Property, error)
	GetProperty(ctx context.Context, id string) (*Property, error)
	UpsertProperty(ctx context.Context, p *Property, accessToken string) error
	InsertProperties(ctx context.Context, ps []Property) error
}

type SettingsRepo interface {
	LoadSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, s *Settings, accessToken string) error
}
