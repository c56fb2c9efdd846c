package dto

import (
	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/google/uuid"
)

// CreateTierRequest carries the cost table as a JSON document encoded in
// a string.
type CreateTierRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	CostsJSON   string `json:"costsJson" binding:"required"`
}

type UpdateTierRequest struct {
	ID          uuid.UUID `json:"id" binding:"required"`
	Name        string    `json:"name" binding:"required,min=1,max=200"`
	Description string    `json:"description" binding:"max=2000"`
	CostsJSON   string    `json:"costsJson" binding:"required"`
}

type TierResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CostsJSON   string    `json:"costsJson"`
}

func NewTierResponse(t *model.Tier) TierResponse {
	costs := string(t.Costs)
	if costs == "" {
		costs = "{}"
	}
	return TierResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CostsJSON:   costs,
	}
}
