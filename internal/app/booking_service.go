package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"carrental/internal/model"
	"carrental/internal/repository"
)

const publishTimeout = 3 * time.Second

type BookingService struct {
	cars      CarStore
	bookings  BookingStore
	events    BookingEventStore
	publisher BookingEventPublisher
	now       func() time.Time
	newID     func() string
}

type CreateBookingInput struct {
	CarID        int64
	CustomerName string
	MobileNumber string
	StartDate    string
	EndDate      string
	EstimatedKm  float64
	TotalAmount  float64
	Status       string
}

// NewBookingService accepts a nil publisher, in which case no booking events
// are emitted.
func NewBookingService(
	cars CarStore,
	bookings BookingStore,
	events BookingEventStore,
	publisher BookingEventPublisher,
) *BookingService {
	return &BookingService{
		cars:      cars,
		bookings:  bookings,
		events:    events,
		publisher: publisher,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// IsAvailable fails closed: a missing or out-of-service car is never available.
// Every stored booking blocks its range, whatever its status.
func (s *BookingService) IsAvailable(ctx context.Context, carID uint, start, end time.Time) (bool, error) {
	if end.Before(start) {
		return false, ErrInvalidDateRange
	}
	if carID == 0 {
		return false, nil
	}

	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		return false, err
	}
	if car == nil || !car.Available {
		return false, nil
	}

	overlaps, err := s.bookings.CountOverlapping(ctx, carID, start, end)
	if err != nil {
		return false, err
	}
	return overlaps == 0, nil
}

// CheckAvailability is IsAvailable over raw request dates.
func (s *BookingService) CheckAvailability(ctx context.Context, carID uint, startRaw, endRaw string) (bool, error) {
	start, end, err := parseDateRange(startRaw, endRaw)
	if err != nil {
		return false, err
	}
	return s.IsAvailable(ctx, carID, start, end)
}

// CreateBooking stores the booking only if the car is free for the whole range;
// the check and the insert run in one storage transaction. The car's
// availability flag is left alone.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*model.Booking, error) {
	customerName := strings.TrimSpace(input.CustomerName)
	mobileNumber := strings.TrimSpace(input.MobileNumber)
	if input.CarID <= 0 || customerName == "" || mobileNumber == "" {
		return nil, ErrBookingFields
	}
	if input.EstimatedKm < 0 || input.TotalAmount < 0 {
		return nil, ErrNegativeAmount
	}
	start, end, err := parseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	carID := uint(input.CarID)

	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, ErrCarNotFound
	}

	totalAmount := input.TotalAmount
	if totalAmount == 0 {
		totalAmount = input.EstimatedKm * car.PricePerKm
	}
	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status == "" {
		status = model.BookingStatusConfirmed
	}

	booking := &model.Booking{
		ID:           s.newID(),
		CarID:        carID,
		CustomerName: customerName,
		MobileNumber: mobileNumber,
		StartDate:    start,
		EndDate:      end,
		EstimatedKm:  input.EstimatedKm,
		TotalAmount:  totalAmount,
		Status:       status,
		BookingDate:  s.now().UTC(),
	}

	if err := s.bookings.CreateIfAvailable(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrCarNotFound):
			return nil, ErrCarNotFound
		case errors.Is(err, repository.ErrCarUnavailable), errors.Is(err, repository.ErrBookingOverlap):
			return nil, ErrCarUnavailable
		default:
			return nil, err
		}
	}

	s.publishCreated(ctx, booking)
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context) ([]model.Booking, error) {
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return bookings, nil
}

func (s *BookingService) ListEvents(ctx context.Context, bookingID string) ([]model.BookingEvent, error) {
	bookingID = strings.TrimSpace(bookingID)
	if _, err := uuid.Parse(bookingID); err != nil {
		return nil, ErrInvalidBookingID
	}
	events, err := s.events.ListByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.BookingEvent{}
	}
	return events, nil
}

// publishCreated is best effort: the booking is already committed.
func (s *BookingService) publishCreated(ctx context.Context, booking *model.Booking) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(booking)
	if err != nil {
		slog.Error("marshal booking event failed", "booking_id", booking.ID, "error", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := model.BookingEvent{
		BookingID:  booking.ID,
		CarID:      booking.CarID,
		Type:       model.BookingEventCreated,
		Payload:    string(payload),
		OccurredAt: booking.BookingDate,
	}
	if err := s.publisher.Publish(pubCtx, event); err != nil {
		slog.Error("publish booking event failed", "booking_id", booking.ID, "error", err)
	}
}
