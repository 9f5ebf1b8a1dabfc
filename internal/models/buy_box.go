package models

import (
	"time"

	"github.com/google/uuid"
)

// BuyBox is an administrator-assembled package of properties offered to
// investors. Unrelated to the applicant wizard.
type BuyBox struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BuyBox) GetID() string { return b.ID.String() }

// BuyBoxProperty links a property (with an accepted offer) into a buy box.
type BuyBoxProperty struct {
	BuyBoxID   uuid.UUID `json:"buy_box_id"`
	PropertyID uuid.UUID `json:"property_id"`
	AddedAt    time.Time `json:"added_at"`
}
