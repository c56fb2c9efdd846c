package service

import (
	"context"
	"time"

	"github.com/Payphone-Digital/jury/internal/dto"
	apperrors "github.com/Payphone-Digital/jury/internal/errors"
	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/Payphone-Digital/jury/internal/repository"
	ctxutil "github.com/Payphone-Digital/jury/pkg/context"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errExpenseNotFound = apperrors.NotFound("Expense")

type ExpenseService struct {
	expenses *repository.ExpenseRepository
	users    *repository.UserRepository
	notifier *Notifier
	now      func() time.Time
}

func NewExpenseService(expenses *repository.ExpenseRepository, users *repository.UserRepository, notifier *Notifier) *ExpenseService {
	return &ExpenseService{expenses: expenses, users: users, notifier: notifier, now: utcNow}
}

// checkAmounts rejects negative money values.
func checkAmounts(amounts map[string]decimal.Decimal) error {
	var details []string
	for _, field := range []string{"totalCollection", "bill", "arrears"} {
		if amounts[field].IsNegative() {
			details = append(details, field+" must be greater than or equal to 0")
		}
	}
	if len(details) > 0 {
		return apperrors.ErrInvalidInput.WithDetails(details)
	}
	return nil
}

func (s *ExpenseService) List(ctx context.Context, userID *uuid.UUID, q PageQuery) (dto.PagedResponse[dto.ExpenseResponse], error) {
	page, err := s.expenses.List(ctx, userID, q.PageSize, q.Offset())
	if err != nil {
		return dto.PagedResponse[dto.ExpenseResponse]{}, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return toPagedResponse(page, q, dto.NewExpenseResponse), nil
}

func (s *ExpenseService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ExpenseResponse, error) {
	expense, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, errExpenseNotFound)
	}
	resp := dto.NewExpenseResponse(expense)
	return &resp, nil
}

func (s *ExpenseService) Create(ctx context.Context, req *dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CreateExpense")

	if err := checkAmounts(map[string]decimal.Decimal{
		"totalCollection": req.TotalCollection,
		"bill":            req.Bill,
		"arrears":         req.Arrears,
	}); err != nil {
		return nil, err
	}
	owner, err := requireOwner(ctx, s.users, req.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expense := &model.Expense{
		UserID:          owner.ID,
		TotalCollection: req.TotalCollection,
		Bill:            req.Bill,
		Arrears:         req.Arrears,
		Notes:           req.Notes,
		Status:          req.Status,
		Date:            dateOrNow(req.Date, now),
		CreatedAt:       now,
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	expense.User = *owner

	logger.InfoWithContext(ctx, "Expense created").
		String("expense_id", expense.ID.String()).
		String("owner_id", owner.ID.String()).
		String("bill", expense.Bill.StringFixed(2)).
		Log()

	s.notifier.Notify(ctx, NotifyExpenseCreated, recipientOf(owner), map[string]any{
		"expenseId":       expense.ID,
		"totalCollection": expense.TotalCollection.StringFixed(2),
		"bill":            expense.Bill.StringFixed(2),
		"arrears":         expense.Arrears.StringFixed(2),
		"status":          expense.Status,
		"date":            expense.Date,
	})

	resp := dto.NewExpenseResponse(expense)
	return &resp, nil
}

func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateExpenseRequest) error {
	ctx = ctxutil.WithFunction(ctx, "service", "UpdateExpense")

	if req.ID != id {
		return apperrors.ErrIdentifierMismatch
	}
	if err := checkAmounts(map[string]decimal.Decimal{
		"totalCollection": req.TotalCollection,
		"bill":            req.Bill,
		"arrears":         req.Arrears,
	}); err != nil {
		return err
	}
	expense, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, errExpenseNotFound)
	}
	if _, err := requireOwner(ctx, s.users, req.UserID); err != nil {
		return err
	}

	expense.UserID = req.UserID
	expense.TotalCollection = req.TotalCollection
	expense.Bill = req.Bill
	expense.Arrears = req.Arrears
	expense.Notes = req.Notes
	expense.Status = req.Status
	expense.Date = req.Date.UTC()

	if err := s.expenses.Update(ctx, expense); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "service", "DeleteExpense")
	return mapRepoError(s.expenses.SoftDelete(ctx, id, s.now(), actor), errExpenseNotFound)
}

func (s *ExpenseService) Restore(ctx context.Context, id uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "service", "RestoreExpense")
	return mapRepoError(s.expenses.Restore(ctx, id), errExpenseNotFound)
}
