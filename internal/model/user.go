package model

import "time"

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleJury     Role = "JURY"
)

// ParseRole accepts the exact upper-case role names only.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleEmployee, RoleJury:
		return Role(s), true
	default:
		return "", false
	}
}

func (r Role) String() string { return string(r) }

type User struct {
	Base
	Name         string    `gorm:"column:name;size:200;not null"`
	Email        string    `gorm:"column:email;size:320;not null;uniqueIndex:idx_users_email"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         Role      `gorm:"column:role;size:20;not null;default:'EMPLOYEE';index"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	SoftDelete
}

func (User) TableName() string { return "users" }
