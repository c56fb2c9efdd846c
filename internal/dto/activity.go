package dto

import (
	"time"

	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/google/uuid"
)

type CreateActivityRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"max=1000"`
	Date        *time.Time `json:"date"`
}

type UpdateActivityRequest struct {
	ID          uuid.UUID `json:"id" binding:"required"`
	Name        string    `json:"name" binding:"required,min=1,max=200"`
	Description string    `json:"description" binding:"max=1000"`
	Date        time.Time `json:"date" binding:"required"`
}

type ActivityResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewActivityResponse(a *model.Activity) ActivityResponse {
	return ActivityResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Date:        a.Date,
		CreatedAt:   a.CreatedAt,
	}
}
