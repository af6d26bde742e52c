package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"workcafe/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

// Create registers a new account holding only the password digest. The
// first account on an empty table becomes the administrator.
func (r *UserRepository) Create(ctx context.Context, username, email, digest string) (*model.User, error) {
	user := &model.User{
		Username: strings.TrimSpace(username),
		Email:    normalizeEmail(email),
		Password: digest,
		Role:     model.Member,
	}
	if user.Username == "" || user.Email == "" || digest == "" {
		return nil, &ValidationError{Fields: map[string]string{"form": "Username, email and password are required."}}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&model.User{}).Where("email = ?", user.Email).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrDuplicate
		}

		var total int64
		if err := tx.Model(&model.User{}).Count(&total).Error; err != nil {
			return err
		}
		if total == 0 {
			user.Role = model.Admin
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, wrapWrite("create user", err)
	}
	return user, nil
}

func (r *UserRepository) SetRole(ctx context.Context, email string, role model.UserRole) error {
	user, err := r.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
