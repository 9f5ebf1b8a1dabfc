package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is optional until the owner completes the property step.
type Address struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
}

// Property is the single application subject. One per application, created
// only once seller information exists. Classification, counts, area and
// valuation columns are stored encrypted through the typed field codec.
type Property struct {
	Versioned

	ID uuid.UUID `json:"id"`

	// Classification. Empty PropertyType means the step is incomplete.
	PropertyType        string `json:"property_type"`
	Tenure              string `json:"tenure"`
	LeaseYearsRemaining *int64 `json:"lease_years_remaining,omitempty"`

	// Physical attributes
	Bedrooms     int64    `json:"bedrooms"`
	Bathrooms    int64    `json:"bathrooms"`
	FloorAreaSqm *float64 `json:"floor_area_sqm,omitempty"`
	Condition    string   `json:"condition"`

	// Valuation
	EstimatedValue *float64 `json:"estimated_value,omitempty"`

	Address *Address `json:"address,omitempty"`

	// Names of uploaded supporting documents; the files themselves live in
	// external storage.
	DocumentNames []string `json:"document_names"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Property) GetID() string { return p.ID.String() }
