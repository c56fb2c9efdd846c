package dto

import (
	"time"

	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}

// ownerSummary is nil when the association was not loaded.
func ownerSummary(u *model.User) *UserResponse {
	if u == nil || u.ID == uuid.Nil {
		return nil
	}
	r := NewUserResponse(u)
	return &r
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=6,max=100"`
	Role     string `json:"role" binding:"required,oneof=EMPLOYEE JURY"`
}

type UpdateUserRequest struct {
	ID       uuid.UUID `json:"id" binding:"required"`
	Name     string    `json:"name" binding:"required,min=1,max=200"`
	Email    string    `json:"email" binding:"required,email,max=200"`
	Password string    `json:"password" binding:"omitempty,min=6,max=100"`
	Role     string    `json:"role" binding:"required,oneof=EMPLOYEE JURY"`
}

type AppointJuryRequest struct {
	UserIDs []uuid.UUID `json:"userIds" binding:"required"`
}
