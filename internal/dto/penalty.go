package dto

import (
	"time"

	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/google/uuid"
)

type CreatePenaltyRequest struct {
	UserID      uuid.UUID  `json:"userId" binding:"required"`
	Category    string     `json:"category" binding:"required,max=100"`
	Reason      string     `json:"reason" binding:"required,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	Amount      int        `json:"amount" binding:"gte=0"`
	Status      string     `json:"status" binding:"required,max=50"`
	Date        *time.Time `json:"date"`
}

type UpdatePenaltyRequest struct {
	ID          uuid.UUID `json:"id" binding:"required"`
	UserID      uuid.UUID `json:"userId" binding:"required"`
	Category    string    `json:"category" binding:"required,max=100"`
	Reason      string    `json:"reason" binding:"required,max=200"`
	Description string    `json:"description" binding:"max=2000"`
	Amount      int       `json:"amount" binding:"gte=0"`
	Status      string    `json:"status" binding:"required,max=50"`
	Date        time.Time `json:"date" binding:"required"`
}

type PenaltyResponse struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uuid.UUID     `json:"userId"`
	Category    string        `json:"category"`
	Reason      string        `json:"reason"`
	Description string        `json:"description,omitempty"`
	Amount      int           `json:"amount"`
	Status      string        `json:"status"`
	Date        time.Time     `json:"date"`
	CreatedAt   time.Time     `json:"createdAt"`
	User        *UserResponse `json:"user,omitempty"`
}

func NewPenaltyResponse(p *model.Penalty) PenaltyResponse {
	return PenaltyResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Category:    p.Category,
		Reason:      p.Reason,
		Description: p.Description,
		Amount:      p.Amount,
		Status:      p.Status,
		Date:        p.Date,
		CreatedAt:   p.CreatedAt,
		User:        ownerSummary(&p.User),
	}
}
