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

var errActivityNotFound = apperrors.NotFound("Activity")

type ActivityService struct {
	activities *repository.ActivityRepository
	now        func() time.Time
}

func NewActivityService(activities *repository.ActivityRepository) *ActivityService {
	return &ActivityService{activities: activities, now: utcNow}
}

func (s *ActivityService) List(ctx context.Context, q PageQuery) (dto.PagedResponse[dto.ActivityResponse], error) {
	page, err := s.activities.List(ctx, q.PageSize, q.Offset())
	if err != nil {
		return dto.PagedResponse[dto.ActivityResponse]{}, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return toPagedResponse(page, q, dto.NewActivityResponse), nil
}

func (s *ActivityService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ActivityResponse, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, errActivityNotFound)
	}
	resp := dto.NewActivityResponse(activity)
	return &resp, nil
}

func (s *ActivityService) Create(ctx context.Context, req *dto.CreateActivityRequest) (*dto.ActivityResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CreateActivity")

	now := s.now()
	activity := &model.Activity{
		Name:        req.Name,
		Description: req.Description,
		Date:        dateOrNow(req.Date, now),
		CreatedAt:   now,
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	resp := dto.NewActivityResponse(activity)
	return &resp, nil
}

func (s *ActivityService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateActivityRequest) error {
	ctx = ctxutil.WithFunction(ctx, "service", "UpdateActivity")

	if req.ID != id {
		return apperrors.ErrIdentifierMismatch
	}
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, errActivityNotFound)
	}

	activity.Name = req.Name
	activity.Description = req.Description
	activity.Date = req.Date.UTC()
	if err := s.activities.Update(ctx, activity); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

func (s *ActivityService) Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "service", "DeleteActivity")
	return mapRepoError(s.activities.SoftDelete(ctx, id, s.now(), actor), errActivityNotFound)
}

func (s *ActivityService) Restore(ctx context.Context, id uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "service", "RestoreActivity")
	return mapRepoError(s.activities.Restore(ctx, id), errActivityNotFound)
}
