package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"carrental/internal/model"
)

type BookingEventRepository struct {
	db *gorm.DB
}

func NewBookingEventRepository(db *gorm.DB) *BookingEventRepository {
	return &BookingEventRepository{db: db}
}

func (r *BookingEventRepository) Create(ctx context.Context, event *model.BookingEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create booking event failed: %w", err)
	}
	return nil
}

func (r *BookingEventRepository) ListByBookingID(ctx context.Context, bookingID string) ([]model.BookingEvent, error) {
	var events []model.BookingEvent
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("occurred_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list booking events failed: %w", err)
	}
	return events, nil
}
