package service

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/Payphone-Digital/jury/internal/errors"
	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/Payphone-Digital/jury/internal/repository"
	"github.com/google/uuid"
)

// mapRepoError turns repository outcomes into domain errors. notFound
// names the resource in the 404 message.
func mapRepoError(err error, notFound *apperrors.DomainError) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsDomainError(err):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrNotDeleted):
		return apperrors.ErrNotDeleted
	default:
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// requireOwner loads the live user a record is attached to.
func requireOwner(ctx context.Context, users *repository.UserRepository, id uuid.UUID) (*model.User, error) {
	owner, err := users.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrOwnerNotFound)
	}
	return owner, nil
}

// dateOrNow defaults a missing date to now.
func dateOrNow(d *time.Time, now time.Time) time.Time {
	if d == nil || d.IsZero() {
		return now
	}
	return d.UTC()
}
