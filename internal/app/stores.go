package app

import (
	"context"
	"time"

	"carrental/internal/model"
)

// The repository package provides the gorm implementations; memstore provides
// in-memory ones with the same semantics.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
}

type CarStore interface {
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, cars []model.Car) error
	List(ctx context.Context) ([]model.Car, error)
	GetByID(ctx context.Context, id uint) (*model.Car, error)
	SetAvailability(ctx context.Context, id uint, available bool) error
}

type BookingStore interface {
	CountOverlapping(ctx context.Context, carID uint, start, end time.Time) (int64, error)
	CreateIfAvailable(ctx context.Context, booking *model.Booking) error
	List(ctx context.Context) ([]model.Booking, error)
}

type BookingEventStore interface {
	Create(ctx context.Context, event *model.BookingEvent) error
	ListByBookingID(ctx context.Context, bookingID string) ([]model.BookingEvent, error)
}

type CarCache interface {
	GetCars(ctx context.Context) ([]model.Car, bool, error)
	SetCars(ctx context.Context, cars []model.Car) error
	Invalidate(ctx context.Context) error
}

type SeedLocker interface {
	Acquire(ctx context.Context) (release func(), ok bool, err error)
}

type BookingEventPublisher interface {
	Publish(ctx context.Context, event model.BookingEvent) error
}
