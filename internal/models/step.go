package models

import "fmt"

// Step enumerates the wizard steps in fixed forward order. The current step
// is always derived server-side from the persisted entity graph; clients
// never supply it.
type Step int

const (
	StepSellerInformation Step = iota + 1
	StepPropertyInformation
	StepReviewAndRecommendations
	StepContemplation
	StepOfferAndNextSteps
	StepCompletionStatus
)

func (s Step) String() string {
	switch s {
	case StepSellerInformation:
		return "SELLER_INFORMATION"
	case StepPropertyInformation:
		return "PROPERTY_INFORMATION"
	case StepReviewAndRecommendations:
		return "REVIEW_AND_RECOMMENDATIONS"
	case StepContemplation:
		return "CONTEMPLATION"
	case StepOfferAndNextSteps:
		return "OFFER_AND_NEXT_STEPS"
	case StepCompletionStatus:
		return "COMPLETION_STATUS"
	default:
		return "UNKNOWN"
	}
}

// ParseStep converts the wire form back to the enum.
func ParseStep(s string) (Step, error) {
	switch s {
	case "SELLER_INFORMATION":
		return StepSellerInformation, nil
	case "PROPERTY_INFORMATION":
		return StepPropertyInformation, nil
	case "REVIEW_AND_RECOMMENDATIONS":
		return StepReviewAndRecommendations, nil
	case "CONTEMPLATION":
		return StepContemplation, nil
	case "OFFER_AND_NEXT_STEPS":
		return StepOfferAndNextSteps, nil
	case "COMPLETION_STATUS":
		return StepCompletionStatus, nil
	default:
		return 0, fmt.Errorf("invalid step: %q", s)
	}
}

func (s Step) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}
