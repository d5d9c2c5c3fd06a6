package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"carrental/internal/model"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// overlapping matches bookings of carID whose inclusive range intersects [start, end].
func overlapping(carID uint, start, end time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("car_id = ? AND start_date <= ? AND end_date >= ?", carID, end, start)
	}
}

func (r *BookingRepository) CountOverlapping(ctx context.Context, carID uint, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Scopes(overlapping(carID, start, end)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count overlapping bookings failed: %w", err)
	}
	return count, nil
}

// CreateIfAvailable inserts the booking only if the car exists, is in service
// and has no overlapping booking. The car row stays locked for the whole
// transaction, so two requests for the same car are serialized.
func (r *BookingRepository) CreateIfAvailable(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var car model.Car
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&car, booking.CarID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCarNotFound
			}
			return fmt.Errorf("lock car failed: %w", err)
		}
		if !car.Available {
			return ErrCarUnavailable
		}

		var overlaps int64
		err = tx.Model(&model.Booking{}).
			Scopes(overlapping(booking.CarID, booking.StartDate, booking.EndDate)).
			Count(&overlaps).Error
		if err != nil {
			return fmt.Errorf("count overlapping bookings failed: %w", err)
		}
		if overlaps > 0 {
			return ErrBookingOverlap
		}

		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("create booking failed: %w", err)
		}
		return nil
	})
}

func (r *BookingRepository) List(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := r.db.WithContext(ctx).Order("booking_date DESC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	return bookings, nil
}
