package service

import (
	"context"
	"time"

	"github.com/Payphone-Digital/jury/internal/dto"
	apperrors "github.com/Payphone-Digital/jury/internal/errors"
	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/Payphone-Digital/jury/internal/repository"
	ctxutil "github.com/Payphone-Digital/jury/pkg/context"
	"github.com/google/uuid"
)

var errLogNotFound = apperrors.NotFound("Log")

type AuditLogService struct {
	logs  *repository.AuditLogRepository
	users *repository.UserRepository
	now   func() time.Time
}

func NewAuditLogService(logs *repository.AuditLogRepository, users *repository.UserRepository) *AuditLogService {
	return &AuditLogService{logs: logs, users: users, now: utcNow}
}

func (s *AuditLogService) List(ctx context.Context, userID *uuid.UUID, q PageQuery) (dto.PagedResponse[dto.LogResponse], error) {
	page, err := s.logs.List(ctx, userID, q.PageSize, q.Offset())
	if err != nil {
		return dto.PagedResponse[dto.LogResponse]{}, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return toPagedResponse(page, q, dto.NewLogResponse), nil
}

func (s *AuditLogService) GetByID(ctx context.Context, id uuid.UUID) (*dto.LogResponse, error) {
	entry, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, errLogNotFound)
	}
	resp := dto.NewLogResponse(entry)
	return &resp, nil
}

func (s *AuditLogService) Create(ctx context.Context, req *dto.CreateLogRequest) (*dto.LogResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CreateLog")

	owner, err := requireOwner(ctx, s.users, req.UserID)
	if err != nil {
		return nil, err
	}

	entry := &model.AuditLog{
		UserID:    owner.ID,
		Action:    req.Action,
		Result:    req.Result,
		CreatedAt: s.now(),
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	entry.User = *owner

	resp := dto.NewLogResponse(entry)
	return &resp, nil
}

func (s *AuditLogService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateLogRequest) error {
	ctx = ctxutil.WithFunction(ctx, "service", "UpdateLog")

	if req.ID != id {
		return apperrors.ErrIdentifierMismatch
	}
	entry, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, errLogNotFound)
	}
	if _, err := requireOwner(ctx, s.users, req.UserID); err != nil {
		return err
	}

	entry.UserID = req.UserID
	entry.Action = req.Action
	entry.Result = req.Result
	if err := s.logs.Update(ctx, entry); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

func (s *AuditLogService) Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "service", "DeleteLog")
	return mapRepoError(s.logs.SoftDelete(ctx, id, s.now(), actor), errLogNotFound)
}

func (s *AuditLogService) Restore(ctx context.Context, id uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "service", "RestoreLog")
	return mapRepoError(s.logs.Restore(ctx, id), errLogNotFound)
}
