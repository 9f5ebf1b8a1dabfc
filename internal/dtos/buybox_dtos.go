package dtos

import (
	"time"

	"github.com/keyhold/leaseback-service/internal/models"
)

type CreateBuyBoxRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

type BuyBoxPropertyRequest struct {
	PropertyID string `json:"property_id" validate:"required,uuid"`
}

type BuyBoxResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	PropertyCount  int       `json:"property_count"`
	TotalValuation float64   `json:"total_valuation"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewBuyBoxResponse(b *models.BuyBox, propertyCount int, totalValuation float64) BuyBoxResponse {
	return BuyBoxResponse{
		ID:             b.ID.String(),
		Name:           b.Name,
		PropertyCount:  propertyCount,
		TotalValuation: totalValuation,
		CreatedAt:      b.CreatedAt,
	}
}
