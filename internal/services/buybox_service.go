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

// BuyBoxService backs the administrator portfolio-assembly tool. Only
// properties whose latest offer is ACCEPTED can join a buy box.
type BuyBoxService struct {
	buyBoxRepo repositories.BuyBoxRepository
	propRepo   repositories.PropertyRepository
	offerRepo  repositories.OfferRepository
}

func NewBuyBoxService(
	buyBoxRepo repositories.BuyBoxRepository,
	propRepo repositories.PropertyRepository,
	offerRepo repositories.OfferRepository,
) *BuyBoxService {
	return &BuyBoxService{
		buyBoxRepo: buyBoxRepo,
		propRepo:   propRepo,
		offerRepo:  offerRepo,
	}
}

func (s *BuyBoxService) Create(ctx context.Context, adminID uuid.UUID, name string) (*models.BuyBox, error) {
	box := &models.BuyBox{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: adminID,
	}
	if err := s.buyBoxRepo.Create(ctx, box); err != nil {
		return nil, fmt.Errorf("create buy box: %w", err)
	}
	return box, nil
}

func (s *BuyBoxService) AddProperty(ctx context.Context, buyBoxID, propertyID uuid.UUID) error {
	box, err := s.buyBoxRepo.GetByID(ctx, buyBoxID)
	if err != nil {
		return fmt.Errorf("load buy box: %w", err)
	}
	if box == nil {
		return &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "Buy box not found",
			Err:        utils.ErrNotFound,
		}
	}

	offer, err := s.offerRepo.LatestByPropertyID(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("load latest offer: %w", err)
	}
	if offer == nil || offer.Status != models.OfferStatusAccepted {
		return &utils.AppError{
			StatusCode: http.StatusUnprocessableEntity,
			Code:       utils.ErrCodeValidation,
			Message:    "Only properties with an accepted offer can join a buy box",
			Err:        utils.ErrOfferNotAccepted,
		}
	}

	if err := s.buyBoxRepo.AddProperty(ctx, buyBoxID, propertyID); err != nil {
		return fmt.Errorf("add property to buy box: %w", err)
	}
	return nil
}

func (s *BuyBoxService) RemoveProperty(ctx context.Context, buyBoxID, propertyID uuid.UUID) error {
	if err := s.buyBoxRepo.RemoveProperty(ctx, buyBoxID, propertyID); err != nil {
		return fmt.Errorf("remove property from buy box: %w", err)
	}
	return nil
}

// Get returns a buy box with its property count and total valuation, summed
// over the accepted purchase prices.
func (s *BuyBoxService) Get(ctx context.Context, buyBoxID uuid.UUID) (*dtos.BuyBoxResponse, error) {
	box, err := s.buyBoxRepo.GetByID(ctx, buyBoxID)
	if err != nil {
		return nil, fmt.Errorf("load buy box: %w", err)
	}
	if box == nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "Buy box not found",
			Err:        utils.ErrNotFound,
		}
	}

	propertyIDs, err := s.buyBoxRepo.ListPropertyIDs(ctx, buyBoxID)
	if err != nil {
		return nil, fmt.Errorf("list buy box properties: %w", err)
	}

	var total float64
	for _, pid := range propertyIDs {
		offer, err := s.offerRepo.LatestByPropertyID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("load offer for property %s: %w", pid, err)
		}
		if offer != nil {
			total += offer.PurchasePrice
		}
	}

	resp := dtos.NewBuyBoxResponse(box, len(propertyIDs), total)
	return &resp, nil
}

func (s *BuyBoxService) List(ctx context.Context) ([]*models.BuyBox, error) {
	boxes, err := s.buyBoxRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list buy boxes: %w", err)
	}
	return boxes, nil
}
