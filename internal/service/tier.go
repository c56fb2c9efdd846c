package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Payphone-Digital/jury/internal/dto"
	apperrors "github.com/Payphone-Digital/jury/internal/errors"
	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/Payphone-Digital/jury/internal/repository"
	ctxutil "github.com/Payphone-Digital/jury/pkg/context"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var errTierNotFound = apperrors.NotFound("Tier")

type TierService struct {
	tiers *repository.TierRepository
	now   func() time.Time
}

func NewTierService(tiers *repository.TierRepository) *TierService {
	return &TierService{tiers: tiers, now: utcNow}
}

func parseCosts(raw string) (datatypes.JSON, error) {
	raw = strings.TrimSpace(raw)
	if !json.Valid([]byte(raw)) {
		return nil, apperrors.ErrInvalidInput.WithDetails([]string{"costsJson must be valid JSON"})
	}
	return datatypes.JSON(raw), nil
}

func (s *TierService) checkName(ctx context.Context, name string, excludeID uuid.UUID) error {
	taken, err := s.tiers.NameExists(ctx, name, excludeID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if taken {
		return apperrors.ErrTierNameExists
	}
	return nil
}

func (s *TierService) List(ctx context.Context, q PageQuery) (dto.PagedResponse[dto.TierResponse], error) {
	page, err := s.tiers.List(ctx, q.PageSize, q.Offset())
	if err != nil {
		return dto.PagedResponse[dto.TierResponse]{}, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return toPagedResponse(page, q, dto.NewTierResponse), nil
}

func (s *TierService) GetByID(ctx context.Context, id uuid.UUID) (*dto.TierResponse, error) {
	tier, err := s.tiers.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, errTierNotFound)
	}
	resp := dto.NewTierResponse(tier)
	return &resp, nil
}

func (s *TierService) Create(ctx context.Context, req *dto.CreateTierRequest) (*dto.TierResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CreateTier")

	costs, err := parseCosts(req.CostsJSON)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := s.checkName(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	tier := &model.Tier{Name: name, Description: req.Description, Costs: costs}
	if err := s.tiers.Create(ctx, tier); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Tier created").
		String("tier_id", tier.ID.String()).
		String("name", tier.Name).
		Log()
	resp := dto.NewTierResponse(tier)
	return &resp, nil
}

func (s *TierService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateTierRequest) error {
	ctx = ctxutil.WithFunction(ctx, "service", "UpdateTier")

	if req.ID != id {
		return apperrors.ErrIdentifierMismatch
	}
	costs, err := parseCosts(req.CostsJSON)
	if err != nil {
		return err
	}
	tier, err := s.tiers.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, errTierNotFound)
	}
	name := strings.TrimSpace(req.Name)
	if err := s.checkName(ctx, name, id); err != nil {
		return err
	}

	tier.Name = name
	tier.Description = req.Description
	tier.Costs = costs
	if err := s.tiers.Update(ctx, tier); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

func (s *TierService) Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "service", "DeleteTier")
	return mapRepoError(s.tiers.SoftDelete(ctx, id, s.now(), actor), errTierNotFound)
}

func (s *TierService) Restore(ctx context.Context, id uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "service", "RestoreTier")
	return mapRepoError(s.tiers.Restore(ctx, id), errTierNotFound)
}
