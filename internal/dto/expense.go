package dto

import (
	"time"

	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// money is rendered as a JSON number
	decimal.MarshalJSONWithoutQuotes = true
}

type CreateExpenseRequest struct {
	UserID          uuid.UUID       `json:"userId" binding:"required"`
	TotalCollection decimal.Decimal `json:"totalCollection"`
	Bill            decimal.Decimal `json:"bill"`
	Arrears         decimal.Decimal `json:"arrears"`
	Notes           string          `json:"notes" binding:"max=2000"`
	Status          string          `json:"status" binding:"required,max=100"`
	Date            *time.Time      `json:"date"`
}

type UpdateExpenseRequest struct {
	ID              uuid.UUID       `json:"id" binding:"required"`
	UserID          uuid.UUID       `json:"userId" binding:"required"`
	TotalCollection decimal.Decimal `json:"totalCollection"`
	Bill            decimal.Decimal `json:"bill"`
	Arrears         decimal.Decimal `json:"arrears"`
	Notes           string          `json:"notes" binding:"max=2000"`
	Status          string          `json:"status" binding:"required,max=100"`
	Date            time.Time       `json:"date" binding:"required"`
}

type ExpenseResponse struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	TotalCollection decimal.Decimal `json:"totalCollection"`
	Bill            decimal.Decimal `json:"bill"`
	Arrears         decimal.Decimal `json:"arrears"`
	Notes           string          `json:"notes,omitempty"`
	Status          string          `json:"status"`
	Date            time.Time       `json:"date"`
	CreatedAt       time.Time       `json:"createdAt"`
	User            *UserResponse   `json:"user,omitempty"`
}

func NewExpenseResponse(e *model.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:              e.ID,
		UserID:          e.UserID,
		TotalCollection: e.TotalCollection,
		Bill:            e.Bill,
		Arrears:         e.Arrears,
		Notes:           e.Notes,
		Status:          e.Status,
		Date:            e.Date,
		CreatedAt:       e.CreatedAt,
		User:            ownerSummary(&e.User),
	}
}
