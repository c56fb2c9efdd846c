package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Payphone-Digital/jury/internal/model"
	ctxutil "github.com/Payphone-Digital/jury/pkg/context"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CascadeResult counts the dependents flagged by a user delete.
type CascadeResult struct {
	Expenses  int64
	Penalties int64
	Logs      int64
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "CreateUser")

	user.Email = strings.ToLower(user.Email)
	start := time.Now()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "User created").
		String("user_id", user.ID.String()).
		Duration(time.Since(start)).
		Log()
	return nil
}

// GetByID returns a live user.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetUserByID")

	var user model.User
	err := r.db.WithContext(ctx).Scopes(live).Where("id = ?", id).First(&user).Error
	if err != nil {
		if !IsNotFound(err) {
			logger.ErrorWithContext(ctx, "Failed to get user by ID").
				String("user_id", id.String()).
				Err(err).
				Log()
		}
		return nil, err
	}
	return &user, nil
}

// FindAny returns the user whether or not it is deleted.
func (r *UserRepository) FindAny(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return findAny[model.User](ctx, r.db, id)
}

// GetByEmail finds a live user, ignoring case.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetByEmail")

	var user model.User
	err := r.db.WithContext(ctx).
		Scopes(live).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if !IsNotFound(err) {
			logger.ErrorWithContext(ctx, "Failed to get user by email").
				Err(err).
				Log()
		}
		return nil, err
	}
	return &user, nil
}

// EmailExists checks every row, deleted ones included, except excludeID.
func (r *UserRepository) EmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "EmailExists")

	query := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email)))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to check email").
			Err(err).
			Log()
		return false, err
	}
	return count > 0, nil
}

// FindExistingIDs returns the subset of ids that belong to live users.
func (r *UserRepository) FindExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var found []uuid.UUID
	if len(ids) == 0 {
		return found, nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Scopes(live).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	return found, err
}

// List pages through live users ordered by name.
func (r *UserRepository) List(ctx context.Context, limit, offset int) (Page[model.User], error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "ListUsers")

	start := time.Now()
	page, err := paginate[model.User](r.db.WithContext(ctx).Model(&model.User{}).Scopes(live), limit, offset, "name ASC, id ASC")
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list users").
			Int("limit", limit).
			Int("offset", offset).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return page, err
	}

	logger.DebugWithContext(ctx, "Users listed").
		Int64("total", page.Total).
		Int("returned_count", len(page.Items)).
		Duration(time.Since(start)).
		Log()
	return page, nil
}

// ListActive returns every live user.
func (r *UserRepository) ListActive(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Scopes(live).Order("name ASC").Find(&users).Error
	return users, err
}

// Update writes the editable columns of a live user. The password hash
// is only written when withPassword is set.
func (r *UserRepository) Update(ctx context.Context, user *model.User, withPassword bool) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "UpdateUser")

	columns := []string{"name", "email", "role"}
	if withPassword {
		columns = append(columns, "password_hash")
	}
	user.Email = strings.ToLower(user.Email)

	err := r.db.WithContext(ctx).
		Model(user).
		Scopes(live).
		Select(columns).
		Updates(user).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to update user").
			String("user_id", user.ID.String()).
			Err(err).
			Log()
	}
	return err
}

// SoftDeleteCascade flags the user and all of its live expenses,
// penalties and logs with the same timestamp and actor, in one
// transaction.
func (r *UserRepository) SoftDeleteCascade(ctx context.Context, id uuid.UUID, at time.Time, by *uuid.UUID) (CascadeResult, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "SoftDeleteCascade")

	var result CascadeResult
	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := softDelete[model.User](ctx, tx, id, at, by); err != nil {
			return err
		}

		dependents := []struct {
			model any
			count *int64
		}{
			{&model.Expense{}, &result.Expenses},
			{&model.Penalty{}, &result.Penalties},
			{&model.AuditLog{}, &result.Logs},
		}
		for _, d := range dependents {
			res := tx.Model(d.model).
				Where("user_id = ?", id).
				Scopes(live).
				Updates(model.SoftDeleteColumns(at, by))
			if res.Error != nil {
				return res.Error
			}
			*d.count = res.RowsAffected
		}
		return nil
	})
	if err != nil {
		if !IsNotFound(err) {
			logger.ErrorWithContext(ctx, "Failed to delete user").
				String("user_id", id.String()).
				Duration(time.Since(start)).
				Err(err).
				Log()
		}
		return CascadeResult{}, err
	}

	logger.InfoWithContext(ctx, "User deleted with dependents").
		String("user_id", id.String()).
		Int64("expenses", result.Expenses).
		Int64("penalties", result.Penalties).
		Int64("logs", result.Logs).
		Duration(time.Since(start)).
		Log()
	return result, nil
}

// Restore brings back the user only. Dependents stay deleted.
func (r *UserRepository) Restore(ctx context.Context, id uuid.UUID) error {
	return restore[model.User](ctx, r.db, id)
}

// AppointJury demotes every JURY user and promotes ids, in one
// transaction. ids must already be validated as live users.
func (r *UserRepository) AppointJury(ctx context.Context, ids []uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "AppointJury")

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).
			Where("role = ?", model.RoleJury).
			Update("role", model.RoleEmployee).Error; err != nil {
			return err
		}

		res := tx.Model(&model.User{}).
			Where("id IN ?", ids).
			Scopes(live).
			Update("role", model.RoleJury)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(ids)) {
			return ErrJuryPromotion
		}
		return nil
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to appoint jury").
			Int("requested", len(ids)).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Jury appointed").
		Int("members", len(ids)).
		Duration(time.Since(start)).
		Log()
	return nil
}
