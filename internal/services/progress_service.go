package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/keyhold/leaseback-service/internal/dtos"
	"github.com/keyhold/leaseback-service/internal/models"
	"github.com/keyhold/leaseback-service/internal/repositories"
	"github.com/keyhold/leaseback-service/internal/utils"
)

// ProgressService derives the wizard step a user should resume at from the
// persisted entity graph. It is a read-only projection: the persisted truth
// drives every transition, never a client-supplied step.
type ProgressService struct {
	sellerRepo     repositories.SellerProfileRepository
	propRepo       repositories.PropertyRepository
	reviewRepo     repositories.ReviewRepository
	offerRepo      repositories.OfferRepository
	completionRepo repositories.CompletionRepository

	// Emails of internal company accounts, injected from config so tests
	// can substitute the list. Company accounts bypass the one-application
	// limit.
	companyUserEmails map[string]struct{}
}

func NewProgressService(
	sellerRepo repositories.SellerProfileRepository,
	propRepo repositories.PropertyRepository,
	reviewRepo repositories.ReviewRepository,
	offerRepo repositories.OfferRepository,
	completionRepo repositories.CompletionRepository,
	companyUserEmails []string,
) *ProgressService {
	emails := make(map[string]struct{}, len(companyUserEmails))
	for _, e := range companyUserEmails {
		emails[utils.EqualityHash(e)] = struct{}{}
	}
	return &ProgressService{
		sellerRepo:        sellerRepo,
		propRepo:          propRepo,
		reviewRepo:        reviewRepo,
		offerRepo:         offerRepo,
		completionRepo:    completionRepo,
		companyUserEmails: emails,
	}
}

// ResolveProgress answers, for a given user, "does this user have an
// in-progress application, and if so, at which step should the wizard
// resume?". Evaluated top-to-bottom, first match wins.
func (s *ProgressService) ResolveProgress(ctx context.Context, userID uuid.UUID) (*dtos.ProgressResponse, error) {
	sellers, err := s.sellerRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load seller profiles: %w", err)
	}
	if len(sellers) == 0 {
		return &dtos.ProgressResponse{
			HasApplication: false,
			Step:           models.StepSellerInformation,
		}, nil
	}

	sellerIDs := make([]uuid.UUID, len(sellers))
	for i, sp := range sellers {
		sellerIDs[i] = sp.ID
	}
	property, err := s.propRepo.GetBySellerProfileIDs(ctx, sellerIDs)
	if err != nil {
		return nil, fmt.Errorf("load property: %w", err)
	}
	if property == nil {
		// Seller data is already captured, so the wizard resumes at the
		// property step, not the seller step.
		return &dtos.ProgressResponse{
			HasApplication: false,
			Step:           models.StepPropertyInformation,
			Sellers:        sellers,
		}, nil
	}

	latestReview, err := s.reviewRepo.LatestByPropertyID(ctx, property.ID)
	if err != nil {
		return nil, fmt.Errorf("load latest review: %w", err)
	}
	latestOffer, err := s.offerRepo.LatestByPropertyID(ctx, property.ID)
	if err != nil {
		return nil, fmt.Errorf("load latest offer: %w", err)
	}

	step := deriveStep(property, latestReview, latestOffer)

	aggregate, err := s.buildAggregate(ctx, property, latestReview, latestOffer, sellers)
	if err != nil {
		return nil, err
	}
	return &dtos.ProgressResponse{
		HasApplication:  true,
		Step:            step,
		Sellers:         sellers,
		PropertyDetails: aggregate,
	}, nil
}

// deriveStep is the finite-state classifier over the entity graph.
func deriveStep(property *models.Property, latestReview *models.ApplicationReview, latestOffer *models.Offer) models.Step {
	switch {
	case property.PropertyType == "" || property.Address == nil:
		return models.StepPropertyInformation
	case latestReview == nil:
		return models.StepReviewAndRecommendations
	case latestReview.Status == models.ReviewStatusAccepted && latestOffer == nil:
		return models.StepOfferAndNextSteps
	case latestOffer != nil:
		// Any offer routes to the completion step regardless of its status;
		// accepted vs. declined is surfaced as a message, not as routing.
		return models.StepCompletionStatus
	case latestReview.Status == models.ReviewStatusProcessing,
		latestReview.Status == models.ReviewStatusRejected,
		latestReview.Status == models.ReviewStatusPending:
		return models.StepContemplation
	default:
		// A review exists with a status outside the handled set. That is a
		// data-modeling bug; treat the review as still pending rather than
		// restarting the user.
		utils.Logger.Warnf(
			"Unrecognized review status %q for property %s; treating as pending",
			latestReview.Status, property.ID,
		)
		return models.StepContemplation
	}
}

func (s *ProgressService) buildAggregate(
	ctx context.Context,
	property *models.Property,
	review *models.ApplicationReview,
	offer *models.Offer,
	sellers []*models.SellerProfile,
) (*dtos.ApplicationAggregate, error) {
	ownership, err := s.propRepo.ListOwnership(ctx, property.ID)
	if err != nil {
		return nil, fmt.Errorf("load ownership: %w", err)
	}
	if len(ownership) == 0 {
		// No allocation recorded yet: default every seller to an equal share.
		share := 100.0 / float64(len(sellers))
		for _, sp := range sellers {
			ownership = append(ownership, &models.PropertyOwnership{
				PropertyID:      property.ID,
				SellerProfileID: sp.ID,
				Percentage:      share,
			})
		}
	}

	var completion *models.CompletionStatus
	if offer != nil {
		completion, err = s.completionRepo.GetByPropertyID(ctx, property.ID)
		if err != nil {
			return nil, fmt.Errorf("load completion status: %w", err)
		}
	}

	return &dtos.ApplicationAggregate{
		Property:   property,
		Review:     review,
		Offer:      offer,
		Completion: completion,
		Sellers:    sellers,
		Ownership:  ownership,
	}, nil
}

// RequireNoApplication guards the "start new application" path. If an
// application already exists for the user it returns a 409-shaped AppError
// carrying the existing property id and the step the user should resume at.
// Company accounts are exempt so internal walkthroughs can run repeatedly.
func (s *ProgressService) RequireNoApplication(ctx context.Context, userID uuid.UUID) error {
	progress, err := s.ResolveProgress(ctx, userID)
	if err != nil {
		return err
	}
	if !progress.HasApplication {
		return nil
	}
	if s.isCompanyUser(progress.Sellers) {
		return nil
	}

	details := dtos.ConflictDetails{
		PropertyID:  progress.PropertyDetails.Property.ID.String(),
		CurrentStep: progress.Step.String(),
	}
	if progress.PropertyDetails.Review != nil {
		details.ReviewStatus = string(progress.PropertyDetails.Review.Status)
	}
	return &utils.AppError{
		StatusCode: http.StatusConflict,
		Code:       utils.ErrCodeConflict,
		Message:    "An application already exists; continue your existing application",
		Details:    details,
		Err:        utils.ErrApplicationExists,
	}
}

func (s *ProgressService) isCompanyUser(sellers []*models.SellerProfile) bool {
	for _, sp := range sellers {
		if _, ok := s.companyUserEmails[utils.EqualityHash(sp.Email)]; ok {
			return true
		}
	}
	return false
}
