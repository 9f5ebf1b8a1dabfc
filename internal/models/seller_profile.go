package models

import (
	"time"

	"github.com/google/uuid"
)

// SellerProfile is one co-owner of the property being sold. Name, email and
// date of birth are stored encrypted; an email equality hash keeps the column
// searchable.
type SellerProfile struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`

	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *SellerProfile) GetID() string { return p.ID.String() }

// PropertyOwnership links a seller profile to a property with its share.
type PropertyOwnership struct {
	PropertyID      uuid.UUID `json:"property_id"`
	SellerProfileID uuid.UUID `json:"seller_profile_id"`
	Percentage      float64   `json:"percentage"`
}
