package database

import (
	"context"
	"errors"
	"strings"

	"github.com/Payphone-Digital/jury/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultAdmin defines the bootstrap jury account.
type DefaultAdmin struct {
	Name     string
	Email    string
	Password string
}

// SeedAdmin creates the bootstrap JURY user unless its email is taken.
// Without it a fresh database has nobody able to call jury-only routes.
func SeedAdmin(ctx context.Context, db *gorm.DB, admin DefaultAdmin, cost int) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))

	var existing model.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), cost)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Create(&model.User{
		Name:         admin.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         model.RoleJury,
	}).Error
}
