package dto

import (
	"time"

	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/google/uuid"
)

type CreateLogRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
	Action string    `json:"action" binding:"required,max=200"`
	Result string    `json:"result" binding:"max=1000"`
}

type UpdateLogRequest struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	UserID uuid.UUID `json:"userId" binding:"required"`
	Action string    `json:"action" binding:"required,max=200"`
	Result string    `json:"result" binding:"max=1000"`
}

type LogResponse struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"userId"`
	Action    string        `json:"action"`
	Result    string        `json:"result,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	User      *UserResponse `json:"user,omitempty"`
}

func NewLogResponse(l *model.AuditLog) LogResponse {
	return LogResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Action:    l.Action,
		Result:    l.Result,
		CreatedAt: l.CreatedAt,
		User:      ownerSummary(&l.User),
	}
}
