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
)

var errPenaltyNotFound = apperrors.NotFound("Penalty")

type PenaltyService struct {
	penalties *repository.PenaltyRepository
	users     *repository.UserRepository
	notifier  *Notifier
	now       func() time.Time
}

func NewPenaltyService(penalties *repository.PenaltyRepository, users *repository.UserRepository, notifier *Notifier) *PenaltyService {
	return &PenaltyService{penalties: penalties, users: users, notifier: notifier, now: utcNow}
}

func (s *PenaltyService) List(ctx context.Context, userID *uuid.UUID, q PageQuery) (dto.PagedResponse[dto.PenaltyResponse], error) {
	page, err := s.penalties.List(ctx, userID, q.PageSize, q.Offset())
	if err != nil {
		return dto.PagedResponse[dto.PenaltyResponse]{}, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return toPagedResponse(page, q, dto.NewPenaltyResponse), nil
}

func (s *PenaltyService) GetByID(ctx context.Context, id uuid.UUID) (*dto.PenaltyResponse, error) {
	penalty, err := s.penalties.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, errPenaltyNotFound)
	}
	resp := dto.NewPenaltyResponse(penalty)
	return &resp, nil
}

// Create records a penalty and notifies its owner once it is stored.
func (s *PenaltyService) Create(ctx context.Context, req *dto.CreatePenaltyRequest) (*dto.PenaltyResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CreatePenalty")

	owner, err := requireOwner(ctx, s.users, req.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	penalty := &model.Penalty{
		UserID:      owner.ID,
		Category:    req.Category,
		Reason:      req.Reason,
		Description: req.Description,
		Amount:      req.Amount,
		Status:      req.Status,
		Date:        dateOrNow(req.Date, now),
		CreatedAt:   now,
	}
	if err := s.penalties.Create(ctx, penalty); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	penalty.User = *owner

	logger.InfoWithContext(ctx, "Penalty created").
		String("penalty_id", penalty.ID.String()).
		String("owner_id", owner.ID.String()).
		Int("amount", penalty.Amount).
		Log()

	s.notifier.Notify(ctx, NotifyPenaltyCreated, recipientOf(owner), map[string]any{
		"penaltyId": penalty.ID,
		"category":  penalty.Category,
		"reason":    penalty.Reason,
		"amount":    penalty.Amount,
		"status":    penalty.Status,
		"date":      penalty.Date,
	})

	resp := dto.NewPenaltyResponse(penalty)
	return &resp, nil
}

func (s *PenaltyService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePenaltyRequest) error {
	ctx = ctxutil.WithFunction(ctx, "service", "UpdatePenalty")

	if req.ID != id {
		return apperrors.ErrIdentifierMismatch
	}
	penalty, err := s.penalties.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, errPenaltyNotFound)
	}
	if _, err := requireOwner(ctx, s.users, req.UserID); err != nil {
		return err
	}

	penalty.UserID = req.UserID
	penalty.Category = req.Category
	penalty.Reason = req.Reason
	penalty.Description = req.Description
	penalty.Amount = req.Amount
	penalty.Status = req.Status
	penalty.Date = req.Date.UTC()

	if err := s.penalties.Update(ctx, penalty); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

func (s *PenaltyService) Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "service", "DeletePenalty")
	return mapRepoError(s.penalties.SoftDelete(ctx, id, s.now(), actor), errPenaltyNotFound)
}

func (s *PenaltyService) Restore(ctx context.Context, id uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "service", "RestorePenalty")
	return mapRepoError(s.penalties.Restore(ctx, id), errPenaltyNotFound)
}
