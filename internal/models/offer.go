package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OfferStatus string

const (
	OfferStatusDraft     OfferStatus = "DRAFT"
	OfferStatusAccepted  OfferStatus = "ACCEPTED"
	OfferStatusRejected  OfferStatus = "REJECTED"
	OfferStatusWithdrawn OfferStatus = "WITHDRAWN"
)

func ParseOfferStatus(s string) (OfferStatus, error) {
	switch OfferStatus(s) {
	case OfferStatusDraft, OfferStatusAccepted, OfferStatusRejected, OfferStatusWithdrawn:
		return OfferStatus(s), nil
	default:
		return "", fmt.Errorf("invalid offer status: %q", s)
	}
}

// Offer is the financial term sheet generated once a review is accepted.
// Monetary terms are stored encrypted.
type Offer struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`

	PurchasePrice  float64     `json:"purchase_price"`
	MonthlyRent    float64     `json:"monthly_rent"`
	LeaseTermYears int64       `json:"lease_term_years"`
	Status         OfferStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Offer) GetID() string { return o.ID.String() }
