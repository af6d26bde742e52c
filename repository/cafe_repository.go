package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"workcafe/model"

	"gorm.io/gorm"
)

// CafeRepository is the only owner of cafe records.
type CafeRepository struct {
	db *gorm.DB
}

func NewCafeRepository(db *gorm.DB) *CafeRepository {
	return &CafeRepository{db: db}
}

func (r *CafeRepository) List(ctx context.Context) ([]model.Cafe, error) {
	var cafes []model.Cafe
	if err := r.db.WithContext(ctx).Order("id").Find(&cafes).Error; err != nil {
		return nil, fmt.Errorf("list cafes: %w", err)
	}
	return cafes, nil
}

func (r *CafeRepository) Get(ctx context.Context, id uint) (*model.Cafe, error) {
	var cafe model.Cafe
	if err := r.db.WithContext(ctx).First(&cafe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get cafe %d: %w", id, err)
	}
	return &cafe, nil
}

func (r *CafeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Cafe{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count cafes: %w", err)
	}
	return n, nil
}

// Create validates and inserts cafe, filling in its ID.
func (r *CafeRepository) Create(ctx context.Context, cafe *model.Cafe) error {
	cafe.ID = 0
	cafe.Name = strings.TrimSpace(cafe.Name)
	if err := ValidateStruct(&cafe.CafeFields); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(tx, cafe.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicate
		}
		return tx.Create(cafe).Error
	})
	return wrapWrite("create cafe", err)
}

// Update overwrites every mutable field of the cafe with the given id.
func (r *CafeRepository) Update(ctx context.Context, id uint, fields model.CafeFields) (*model.Cafe, error) {
	fields.Name = strings.TrimSpace(fields.Name)
	if err := ValidateStruct(&fields); err != nil {
		return nil, err
	}

	var cafe model.Cafe
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cafe, id).Error; err != nil {
			return err
		}
		taken, err := nameTaken(tx, fields.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicate
		}

		cafe.CafeFields = fields
		return tx.Save(&cafe).Error
	})
	if err != nil {
		return nil, wrapWrite(fmt.Sprintf("update cafe %d", id), err)
	}
	return &cafe, nil
}

// Delete removes the cafe permanently. A missing id is ErrNotFound.
func (r *CafeRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Cafe{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete cafe %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func nameTaken(tx *gorm.DB, name string, exceptID uint) (bool, error) {
	var n int64
	q := tx.Model(&model.Cafe{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// wrapWrite maps store errors onto the repository's error kinds.
func wrapWrite(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDuplicate), errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
