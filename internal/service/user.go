package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Payphone-Digital/jury/internal/constants"
	"github.com/Payphone-Digital/jury/internal/dto"
	apperrors "github.com/Payphone-Digital/jury/internal/errors"
	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/Payphone-Digital/jury/internal/repository"
	ctxutil "github.com/Payphone-Digital/jury/pkg/context"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/google/uuid"
)

const (
	MinJurySize = constants.MinJuryMembers
	MaxJurySize = constants.MaxJuryMembers
)

type UserService struct {
	users  *repository.UserRepository
	hasher *PasswordHasher
	now    func() time.Time
}

func NewUserService(users *repository.UserRepository, hasher *PasswordHasher) *UserService {
	return &UserService{users: users, hasher: hasher, now: utcNow}
}

func (s *UserService) List(ctx context.Context, q PageQuery) (dto.PagedResponse[dto.UserResponse], error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ListUsers")

	page, err := s.users.List(ctx, q.PageSize, q.Offset())
	if err != nil {
		return dto.PagedResponse[dto.UserResponse]{}, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return toPagedResponse(page, q, dto.NewUserResponse), nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrUserNotFound)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *UserService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CreateUser")

	role, ok := model.ParseRole(req.Role)
	if !ok {
		return nil, apperrors.ErrInvalidInput.WithDetails([]string{"role must be EMPLOYEE or JURY"})
	}

	user, err := createUser(ctx, s.users, s.hasher, req.Name, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User created").
		String("user_id", user.ID.String()).
		String("role", role.String()).
		Log()
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Update replaces name, email and role. The password changes only when
// one is supplied.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) error {
	ctx = ctxutil.WithFunction(ctx, "service", "UpdateUser")

	if req.ID != id {
		return apperrors.ErrIdentifierMismatch
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		return apperrors.ErrInvalidInput.WithDetails([]string{"role must be EMPLOYEE or JURY"})
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, apperrors.ErrUserNotFound)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := s.users.EmailExists(ctx, email, id)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if taken {
		return apperrors.ErrEmailExists
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Email = email
	user.Role = role

	withPassword := req.Password != ""
	if withPassword {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user, withPassword); err != nil {
		return mapRepoError(err, apperrors.ErrUserNotFound)
	}

	logger.InfoWithContext(ctx, "User updated").
		String("user_id", id.String()).
		Bool("password_changed", withPassword).
		Log()
	return nil
}

// Delete soft-deletes the user and everything the user owns.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "service", "DeleteUser")

	result, err := s.users.SoftDeleteCascade(ctx, id, s.now(), actor)
	if err != nil {
		return mapRepoError(err, apperrors.ErrUserNotFound)
	}

	logger.InfoWithContext(ctx, "User deleted with dependents").
		String("user_id", id.String()).
		Int64("expenses", result.Expenses).
		Int64("penalties", result.Penalties).
		Int64("logs", result.Logs).
		Log()
	return nil
}

// Restore brings the user back. Dependents stay deleted.
func (s *UserService) Restore(ctx context.Context, id uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "service", "RestoreUser")

	if err := s.users.Restore(ctx, id); err != nil {
		return mapRepoError(err, apperrors.ErrUserNotFound)
	}
	logger.InfoWithContext(ctx, "User restored").String("user_id", id.String()).Log()
	return nil
}

// AppointJury makes exactly ids the jury. Input is rejected before any
// write, checking size, then duplicates, then existence.
func (s *UserService) AppointJury(ctx context.Context, ids []uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "service", "AppointJury")

	if len(ids) < MinJurySize || len(ids) > MaxJurySize {
		return apperrors.ErrInvalidJuryCount
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	var duplicates []uuid.UUID
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			duplicates = append(duplicates, id)
			continue
		}
		seen[id] = struct{}{}
	}
	if len(duplicates) > 0 {
		return apperrors.ErrDuplicateUserIDs.WithDetails(duplicates)
	}

	existing, err := s.users.FindExistingIDs(ctx, ids)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if missing := missingIDs(ids, existing); len(missing) > 0 {
		logger.WarnWithContext(ctx, "Jury appointment names unknown users").
			Int("missing", len(missing)).
			Log()
		return apperrors.ErrUsersNotFound.WithDetails(missing)
	}

	if err := s.users.AppointJury(ctx, ids); err != nil {
		if errors.Is(err, repository.ErrJuryPromotion) {
			// a user was deleted between the check and the transaction
			return apperrors.ErrUsersNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

func missingIDs(want, have []uuid.UUID) []uuid.UUID {
	found := make(map[uuid.UUID]struct{}, len(have))
	for _, id := range have {
		found[id] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range want {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
