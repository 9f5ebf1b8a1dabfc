package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ConveyancingPath string

const (
	ConveyancingOwnSolicitor   ConveyancingPath = "OWN_SOLICITOR"
	ConveyancingPanelSolicitor ConveyancingPath = "PANEL_SOLICITOR"
)

func ParseConveyancingPath(s string) (ConveyancingPath, error) {
	switch ConveyancingPath(s) {
	case ConveyancingOwnSolicitor, ConveyancingPanelSolicitor:
		return ConveyancingPath(s), nil
	default:
		return "", fmt.Errorf("invalid conveyancing path: %q", s)
	}
}

// CompletionStatus is the terminal record capturing the chosen conveyancing
// path once an offer is accepted.
type CompletionStatus struct {
	ID         uuid.UUID        `json:"id"`
	PropertyID uuid.UUID        `json:"property_id"`
	Path       ConveyancingPath `json:"path"`
	CreatedAt  time.Time        `json:"created_at"`
}

func (c *CompletionStatus) GetID() string { return c.ID.String() }
