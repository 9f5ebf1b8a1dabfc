package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ReviewStatus string

const (
	ReviewStatusPending    ReviewStatus = "PENDING"
	ReviewStatusProcessing ReviewStatus = "PROCESSING"
	ReviewStatusAccepted   ReviewStatus = "ACCEPTED"
	ReviewStatusRejected   ReviewStatus = "REJECTED"
)

// ParseReviewStatus validates client-supplied status strings against the
// closed set. Anything else is rejected at the boundary, never cast.
func ParseReviewStatus(s string) (ReviewStatus, error) {
	switch ReviewStatus(s) {
	case ReviewStatusPending, ReviewStatusProcessing, ReviewStatusAccepted, ReviewStatusRejected:
		return ReviewStatus(s), nil
	default:
		return "", fmt.Errorf("invalid review status: %q", s)
	}
}

// ApplicationReview records the platform's internal checklist/consideration
// review of a submitted application. The most recent row per property is
// canonical; older rows are history.
type ApplicationReview struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`

	Checklist      map[string]bool `json:"checklist"`
	Considerations map[string]bool `json:"considerations"`
	Status         ReviewStatus    `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *ApplicationReview) GetID() string { return r.ID.String() }
