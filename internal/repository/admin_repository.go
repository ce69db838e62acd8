package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// AdminUserModel is the GORM model for the admin_users table.
type AdminUserModel struct {
	Username     string `gorm:"type:varchar(64);primaryKey"`
	PasswordHash string `gorm:"type:char(64);not null"`
}

// TableName sets the table name.
func (AdminUserModel) TableName() string { return "admin_users" }

// GormAdminUsers implements admin.UserRepository using GORM.
type GormAdminUsers struct {
	db *gorm.DB
}

// NewGormAdminUsers creates a new GormAdminUsers.
func NewGormAdminUsers(db *gorm.DB) *GormAdminUsers {
	return &GormAdminUsers{db: db}
}

// PasswordHash returns the stored hash for username.
func (r *GormAdminUsers) PasswordHash(ctx context.Context, username string) (string, bool, error) {
	var model AdminUserModel
	err := r.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return model.PasswordHash, true, nil
}
