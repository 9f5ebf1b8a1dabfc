package dtos

import (
	"github.com/keyhold/leaseback-service/internal/models"
)

// ----- wizard step submissions -----

type SellerProfileInput struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	DateOfBirth string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type CreateSellersRequest struct {
	Sellers []SellerProfileInput `json:"sellers" validate:"required,min=1,dive"`
}

type AddressInput struct {
	Line1    string `json:"line1" validate:"required"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city" validate:"required"`
	Postcode string `json:"postcode" validate:"required"`
}

// PropertyInput carries free-text numeric fields as the forms send them
// ("5+", "£250,000"); the service runs them through the lenient parsers.
type PropertyInput struct {
	PropertyType        string        `json:"property_type" validate:"required"`
	Tenure              string        `json:"tenure,omitempty"`
	LeaseYearsRemaining string        `json:"lease_years_remaining,omitempty"`
	Bedrooms            string        `json:"bedrooms" validate:"required"`
	Bathrooms           string        `json:"bathrooms" validate:"required"`
	FloorAreaSqm        string        `json:"floor_area_sqm,omitempty"`
	Condition           string        `json:"condition,omitempty"`
	EstimatedValue      string        `json:"estimated_value,omitempty"`
	Address             *AddressInput `json:"address,omitempty"`
	DocumentNames       []string      `json:"document_names,omitempty"`

	// Optional explicit split; percentages by seller profile id. When
	// absent, ownership defaults to an equal split.
	OwnershipPercentages map[string]float64 `json:"ownership_percentages,omitempty"`
}

type SubmitReviewRequest struct {
	Checklist      map[string]bool `json:"checklist" validate:"required"`
	Considerations map[string]bool `json:"considerations" validate:"required"`
}

type UpdateReviewStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type CreateOfferRequest struct {
	PropertyID     string  `json:"property_id" validate:"required,uuid"`
	PurchasePrice  float64 `json:"purchase_price" validate:"required,gt=0"`
	MonthlyRent    float64 `json:"monthly_rent" validate:"required,gt=0"`
	LeaseTermYears int64   `json:"lease_term_years" validate:"required,gt=0"`
}

type DecideOfferRequest struct {
	// ACCEPTED or REJECTED
	Decision string `json:"decision" validate:"required"`
}

type ChooseCompletionPathRequest struct {
	Path string `json:"path" validate:"required"`
}

// ----- resolver output -----

// ApplicationAggregate is the fully decoded entity graph behind an
// in-progress application.
type ApplicationAggregate struct {
	Property   *models.Property            `json:"property"`
	Review     *models.ApplicationReview   `json:"review,omitempty"`
	Offer      *models.Offer               `json:"offer,omitempty"`
	Completion *models.CompletionStatus    `json:"completion,omitempty"`
	Sellers    []*models.SellerProfile     `json:"sellers"`
	Ownership  []*models.PropertyOwnership `json:"ownership"`
}

// ProgressResponse answers "where should this user resume the wizard".
type ProgressResponse struct {
	HasApplication  bool                    `json:"has_application"`
	Step            models.Step             `json:"step"`
	Sellers         []*models.SellerProfile `json:"sellers,omitempty"`
	PropertyDetails *ApplicationAggregate   `json:"property_details,omitempty"`
}

// ConflictDetails rides on the 409 returned by the duplicate-start guard.
type ConflictDetails struct {
	PropertyID   string `json:"property_id"`
	ReviewStatus string `json:"review_status,omitempty"`
	CurrentStep  string `json:"current_step"`
}
