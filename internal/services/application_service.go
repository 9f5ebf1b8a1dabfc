package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/keyhold/leaseback-service/internal/codec"
	"github.com/keyhold/leaseback-service/internal/dtos"
	"github.com/keyhold/leaseback-service/internal/models"
	"github.com/keyhold/leaseback-service/internal/repositories"
	"github.com/keyhold/leaseback-service/internal/utils"
)

const dobInputLayout = "2006-01-02"

// ApplicationService owns every wizard write path. Each submission
// re-validates against server-derived state; the client never tells the
// server which step it is on.
type ApplicationService struct {
	progress   *ProgressService
	sellerRepo repositories.SellerProfileRepository
	propRepo   repositories.PropertyRepository
	reviewRepo repositories.ReviewRepository
	offerRepo  repositories.OfferRepository
	compRepo   repositories.CompletionRepository
}

func NewApplicationService(
	progress *ProgressService,
	sellerRepo repositories.SellerProfileRepository,
	propRepo repositories.PropertyRepository,
	reviewRepo repositories.ReviewRepository,
	offerRepo repositories.OfferRepository,
	compRepo repositories.CompletionRepository,
) *ApplicationService {
	return &ApplicationService{
		progress:   progress,
		sellerRepo: sellerRepo,
		propRepo:   propRepo,
		reviewRepo: reviewRepo,
		offerRepo:  offerRepo,
		compRepo:   compRepo,
	}
}

// CreateSellerProfiles starts a new application. Rejected with a conflict if
// one already exists for the user.
func (s *ApplicationService) CreateSellerProfiles(
	ctx context.Context,
	userID uuid.UUID,
	req *dtos.CreateSellersRequest,
) ([]*models.SellerProfile, error) {
	if err := s.progress.RequireNoApplication(ctx, userID); err != nil {
		return nil, err
	}

	created := make([]*models.SellerProfile, 0, len(req.Sellers))
	for _, in := range req.Sellers {
		profile := &models.SellerProfile{
			ID:        uuid.New(),
			UserID:    userID,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
		}
		if in.DateOfBirth != "" {
			dob, err := time.Parse(dobInputLayout, in.DateOfBirth)
			if err != nil {
				return nil, &utils.AppError{
					StatusCode: http.StatusBadRequest,
					Code:       utils.ErrCodeValidation,
					Message:    fmt.Sprintf("invalid date_of_birth %q", in.DateOfBirth),
					Err:        codec.ErrInvalidDate,
				}
			}
			profile.DateOfBirth = &dob
		}
		if err := s.sellerRepo.Create(ctx, profile); err != nil {
			return nil, fmt.Errorf("create seller profile: %w", err)
		}
		created = append(created, profile)
	}
	return created, nil
}

// SubmitProperty creates or updates the property record for the user's
// application. Numeric fields arrive as free text and pass through the
// lenient parsers before hitting the codec.
func (s *ApplicationService) SubmitProperty(
	ctx context.Context,
	userID uuid.UUID,
	req *dtos.PropertyInput,
) (*models.Property, error) {
	sellers, err := s.sellerRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load seller profiles: %w", err)
	}
	if len(sellers) == 0 {
		return nil, &utils.AppError{
			StatusCode: http.StatusUnprocessableEntity,
			Code:       utils.ErrCodeValidation,
			Message:    "Seller information must be completed first",
			Err:        utils.ErrNoSellerProfiles,
		}
	}

	parsed, appErr := parsePropertyInput(req)
	if appErr != nil {
		return nil, appErr
	}

	sellerIDs := make([]uuid.UUID, len(sellers))
	for i, sp := range sellers {
		sellerIDs[i] = sp.ID
	}
	existing, err := s.propRepo.GetBySellerProfileIDs(ctx, sellerIDs)
	if err != nil {
		return nil, fmt.Errorf("load property: %w", err)
	}

	var property *models.Property
	if existing == nil {
		parsed.ID = uuid.New()
		if err := s.propRepo.Create(ctx, parsed); err != nil {
			return nil, fmt.Errorf("create property: %w", err)
		}
		property = parsed
	} else {
		err = s.propRepo.UpdateWithRetry(ctx, existing.ID, func(p *models.Property) error {
			applyPropertyInput(p, parsed)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("update property: %w", err)
		}
		property, err = s.propRepo.GetByID(ctx, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("reload property: %w", err)
		}
	}

	if err := s.writeOwnership(ctx, property.ID, sellers, req.OwnershipPercentages); err != nil {
		return nil, err
	}
	return property, nil
}

func (s *ApplicationService) writeOwnership(
	ctx context.Context,
	propertyID uuid.UUID,
	sellers []*models.SellerProfile,
	explicit map[string]float64,
) error {
	equalShare := 100.0 / float64(len(sellers))
	for _, sp := range sellers {
		share := equalShare
		if pct, ok := explicit[sp.ID.String()]; ok {
			share = pct
		}
		o := &models.PropertyOwnership{
			PropertyID:      propertyID,
			SellerProfileID: sp.ID,
			Percentage:      share,
		}
		if err := s.propRepo.UpsertOwnership(ctx, o); err != nil {
			return fmt.Errorf("write ownership: %w", err)
		}
	}
	return nil
}

func parsePropertyInput(req *dtos.PropertyInput) (*models.Property, *utils.AppError) {
	p := &models.Property{
		PropertyType:  req.PropertyType,
		Tenure:        req.Tenure,
		Condition:     req.Condition,
		DocumentNames: req.DocumentNames,
	}

	bedrooms, err := codec.ParseLenientInt(req.Bedrooms)
	if err != nil {
		return nil, badField("bedrooms", req.Bedrooms, err)
	}
	p.Bedrooms = bedrooms

	bathrooms, err := codec.ParseLenientInt(req.Bathrooms)
	if err != nil {
		return nil, badField("bathrooms", req.Bathrooms, err)
	}
	p.Bathrooms = bathrooms

	if req.LeaseYearsRemaining != "" {
		years, err := codec.ParseLenientInt(req.LeaseYearsRemaining)
		if err != nil {
			return nil, badField("lease_years_remaining", req.LeaseYearsRemaining, err)
		}
		p.LeaseYearsRemaining = &years
	}
	if req.FloorAreaSqm != "" {
		area, err := codec.ParseLenientFloat(req.FloorAreaSqm)
		if err != nil {
			return nil, badField("floor_area_sqm", req.FloorAreaSqm, err)
		}
		p.FloorAreaSqm = &area
	}
	if req.EstimatedValue != "" {
		value, err := codec.ParseLenientFloat(req.EstimatedValue)
		if err != nil {
			return nil, badField("estimated_value", req.EstimatedValue, err)
		}
		p.EstimatedValue = &value
	}
	if req.Address != nil {
		p.Address = &models.Address{
			Line1:    req.Address.Line1,
			Line2:    req.Address.Line2,
			City:     req.Address.City,
			Postcode: req.Address.Postcode,
		}
	}
	return p, nil
}

func applyPropertyInput(dst, src *models.Property) {
	dst.PropertyType = src.PropertyType
	dst.Tenure = src.Tenure
	dst.LeaseYearsRemaining = src.LeaseYearsRemaining
	dst.Bedrooms = src.Bedrooms
	dst.Bathrooms = src.Bathrooms
	dst.FloorAreaSqm = src.FloorAreaSqm
	dst.Condition = src.Condition
	dst.EstimatedValue = src.EstimatedValue
	dst.Address = src.Address
	dst.DocumentNames = src.DocumentNames
}

func badField(field, value string, err error) *utils.AppError {
	return &utils.AppError{
		StatusCode: http.StatusBadRequest,
		Code:       utils.ErrCodeValidation,
		Message:    fmt.Sprintf("invalid %s %q", field, value),
		Err:        err,
	}
}

// SubmitReview creates a PENDING review once the property step is complete.
func (s *ApplicationService) SubmitReview(
	ctx context.Context,
	userID uuid.UUID,
	req *dtos.SubmitReviewRequest,
) (*models.ApplicationReview, error) {
	progress, err := s.progress.ResolveProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !progress.HasApplication || progress.Step < models.StepReviewAndRecommendations {
		return nil, &utils.AppError{
			StatusCode: http.StatusUnprocessableEntity,
			Code:       utils.ErrCodeValidation,
			Message:    "Property information must be completed before review",
		}
	}

	review := &models.ApplicationReview{
		ID:             uuid.New(),
		PropertyID:     progress.PropertyDetails.Property.ID,
		Checklist:      req.Checklist,
		Considerations: req.Considerations,
		Status:         models.ReviewStatusPending,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

// UpdateReviewStatus validates the client-supplied status against the closed
// enum before persisting. Admin-only path.
func (s *ApplicationService) UpdateReviewStatus(
	ctx context.Context,
	reviewID uuid.UUID,
	rawStatus string,
) error {
	status, err := models.ParseReviewStatus(rawStatus)
	if err != nil {
		return &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    err.Error(),
			Err:        utils.ErrInvalidStatus,
		}
	}
	if err := s.reviewRepo.UpdateStatus(ctx, reviewID, status); err != nil {
		if err == utils.ErrNoRowsUpdated {
			return &utils.AppError{
				StatusCode: http.StatusNotFound,
				Code:       utils.ErrCodeNotFound,
				Message:    "Review not found",
				Err:        utils.ErrNotFound,
			}
		}
		return fmt.Errorf("update review status: %w", err)
	}
	return nil
}

// CreateOffer issues a DRAFT term sheet. Admin-only; requires the latest
// review on the property to be ACCEPTED.
func (s *ApplicationService) CreateOffer(
	ctx context.Context,
	req *dtos.CreateOfferRequest,
) (*models.Offer, error) {
	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    "invalid property_id",
			Err:        err,
		}
	}

	latestReview, err := s.reviewRepo.LatestByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("load latest review: %w", err)
	}
	if latestReview == nil || latestReview.Status != models.ReviewStatusAccepted {
		return nil, &utils.AppError{
			StatusCode: http.StatusUnprocessableEntity,
			Code:       utils.ErrCodeValidation,
			Message:    "An offer requires an accepted review",
			Err:        utils.ErrReviewNotAccepted,
		}
	}

	offer := &models.Offer{
		ID:             uuid.New(),
		PropertyID:     propertyID,
		PurchasePrice:  req.PurchasePrice,
		MonthlyRent:    req.MonthlyRent,
		LeaseTermYears: req.LeaseTermYears,
		Status:         models.OfferStatusDraft,
	}
	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}
	return offer, nil
}

// DecideOffer records the applicant's acceptance or rejection of the latest
// offer on their application.
func (s *ApplicationService) DecideOffer(
	ctx context.Context,
	userID uuid.UUID,
	rawDecision string,
) (*models.Offer, error) {
	decision, err := models.ParseOfferStatus(rawDecision)
	if err != nil || (decision != models.OfferStatusAccepted && decision != models.OfferStatusRejected) {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    fmt.Sprintf("decision must be %s or %s", models.OfferStatusAccepted, models.OfferStatusRejected),
			Err:        utils.ErrInvalidStatus,
		}
	}

	progress, err := s.progress.ResolveProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !progress.HasApplication || progress.PropertyDetails.Offer == nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "No offer to decide on",
			Err:        utils.ErrNotFound,
		}
	}

	offer := progress.PropertyDetails.Offer
	if err := s.offerRepo.UpdateStatus(ctx, offer.ID, decision); err != nil {
		return nil, fmt.Errorf("update offer status: %w", err)
	}
	offer.Status = decision
	return offer, nil
}

// ChooseCompletionPath records the conveyancing path once the latest offer is
// accepted.
func (s *ApplicationService) ChooseCompletionPath(
	ctx context.Context,
	userID uuid.UUID,
	rawPath string,
) (*models.CompletionStatus, error) {
	path, err := models.ParseConveyancingPath(rawPath)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    err.Error(),
			Err:        utils.ErrInvalidStatus,
		}
	}

	progress, err := s.progress.ResolveProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	offer := (*models.Offer)(nil)
	if progress.HasApplication {
		offer = progress.PropertyDetails.Offer
	}
	if offer == nil || offer.Status != models.OfferStatusAccepted {
		return nil, &utils.AppError{
			StatusCode: http.StatusUnprocessableEntity,
			Code:       utils.ErrCodeValidation,
			Message:    "Completion requires an accepted offer",
			Err:        utils.ErrOfferNotAccepted,
		}
	}

	completion := &models.CompletionStatus{
		ID:         uuid.New(),
		PropertyID: offer.PropertyID,
		Path:       path,
	}
	if err := s.compRepo.Create(ctx, completion); err != nil {
		return nil, fmt.Errorf("create completion status: %w", err)
	}
	return completion, nil
}
