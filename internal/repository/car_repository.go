package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"carrental/internal/model"
)

type CarRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) *CarRepository {
	return &CarRepository{db: db}
}

func (r *CarRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Car{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count cars failed: %w", err)
	}
	return count, nil
}

// CreateBatch inserts all cars in one transaction. A primary key clash means
// another writer got there first and is reported as ErrDuplicate.
func (r *CarRepository) CreateBatch(ctx context.Context, cars []model.Car) error {
	if len(cars) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&cars).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create cars failed: %w", err)
	}
	return nil
}

func (r *CarRepository) List(ctx context.Context) ([]model.Car, error) {
	var cars []model.Car
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&cars).Error; err != nil {
		return nil, fmt.Errorf("list cars failed: %w", err)
	}
	return cars, nil
}

func (r *CarRepository) GetByID(ctx context.Context, id uint) (*model.Car, error) {
	var car model.Car
	if err := r.db.WithContext(ctx).First(&car, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query car by id failed: %w", err)
	}
	return &car, nil
}

func (r *CarRepository) SetAvailability(ctx context.Context, id uint, available bool) error {
	result := r.db.WithContext(ctx).Model(&model.Car{}).Where("id = ?", id).Update("available", available)
	if result.Error != nil {
		return fmt.Errorf("update car availability failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// MySQL reports zero affected rows when the value is unchanged.
		car, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if car == nil {
			return ErrCarNotFound
		}
	}
	return nil
}
