package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"carrental/internal/app/memstore"
	"carrental/internal/model"
)

type bookingFixture struct {
	svc       *BookingService
	cars      *memstore.CarStore
	bookings  *memstore.BookingStore
	events    *memstore.BookingEventStore
	publisher *memstore.Publisher
}

func newBookingFixture() *bookingFixture {
	cars := memstore.NewCarStore(initialCars()...)
	bookings := memstore.NewBookingStore(cars)
	events := memstore.NewBookingEventStore()
	publisher := &memstore.Publisher{}
	return &bookingFixture{
		svc:       NewBookingService(cars, bookings, events, publisher),
		cars:      cars,
		bookings:  bookings,
		events:    events,
		publisher: publisher,
	}
}

func bookingInput(carID int64, start, end string) CreateBookingInput {
	return CreateBookingInput{
		CarID:        carID,
		CustomerName: "Alice",
		MobileNumber: "9999999999",
		StartDate:    start,
		EndDate:      end,
		EstimatedKm:  100,
	}
}

func TestCreateBookingDefaults(t *testing.T) {
	f := newBookingFixture()

	booking, err := f.svc.CreateBooking(context.Background(), bookingInput(1, "2024-01-10", "2024-01-15"))
	if err != nil {
		t.Fatalf("CreateBooking() unexpected error: %v", err)
	}
	if booking.ID == "" {
		t.Error("booking id not assigned")
	}
	if booking.Status != model.BookingStatusConfirmed {
		t.Errorf("Status = %q, want confirmed", booking.Status)
	}
	// car 1 costs 12 per km
	if booking.TotalAmount != 1200 {
		t.Errorf("TotalAmount = %v, want 1200", booking.TotalAmount)
	}
	if booking.BookingDate.IsZero() {
		t.Error("BookingDate not set")
	}
}

func TestCreateBookingKeepsExplicitAmountAndStatus(t *testing.T) {
	f := newBookingFixture()
	input := bookingInput(2, "2024-02-01", "2024-02-03")
	input.TotalAmount = 999
	input.Status = "Pending"

	booking, err := f.svc.CreateBooking(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateBooking() unexpected error: %v", err)
	}
	if booking.TotalAmount != 999 || booking.Status != model.BookingStatusPending {
		t.Errorf("booking = %+v", booking)
	}
}

func TestAvailabilityAfterBooking(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture()

	if _, err := f.svc.CreateBooking(ctx, bookingInput(1, "2024-01-10", "2024-01-15")); err != nil {
		t.Fatalf("CreateBooking() unexpected error: %v", err)
	}

	tests := []struct {
		start, end string
		want       bool
	}{
		{"2024-01-12", "2024-01-20", false},
		{"2024-01-01", "2024-01-10", false},
		{"2024-01-15", "2024-01-18", false},
		{"2024-01-16", "2024-01-20", true},
		{"2024-01-01", "2024-01-09", true},
	}
	for _, tt := range tests {
		t.Run(tt.start+"_"+tt.end, func(t *testing.T) {
			got, err := f.svc.CheckAvailability(ctx, 1, tt.start, tt.end)
			if err != nil {
				t.Fatalf("CheckAvailability() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CheckAvailability() = %v, want %v", got, tt.want)
			}
		})
	}

	other, err := f.svc.CheckAvailability(ctx, 2, "2024-01-12", "2024-01-20")
	if err != nil || !other {
		t.Errorf("other car availability = %v, %v; want true", other, err)
	}

	car, _ := f.cars.GetByID(ctx, 1)
	if !car.Available {
		t.Error("booking must not change the car's availability flag")
	}
}

func TestOverlappingBookingRejected(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture()

	if _, err := f.svc.CreateBooking(ctx, bookingInput(1, "2024-01-10", "2024-01-15")); err != nil {
		t.Fatalf("CreateBooking() unexpected error: %v", err)
	}
	_, err := f.svc.CreateBooking(ctx, bookingInput(1, "2024-01-15", "2024-01-16"))
	if !errors.Is(err, ErrCarUnavailable) {
		t.Fatalf("CreateBooking() error = %v, want %v", err, ErrCarUnavailable)
	}
	if _, err := f.svc.CreateBooking(ctx, bookingInput(1, "2024-01-16", "2024-01-20")); err != nil {
		t.Fatalf("adjacent CreateBooking() unexpected error: %v", err)
	}
}

func TestCancelledBookingStillBlocks(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture()
	input := bookingInput(3, "2024-03-01", "2024-03-05")
	input.Status = model.BookingStatusCancelled
	if _, err := f.svc.CreateBooking(ctx, input); err != nil {
		t.Fatalf("CreateBooking() unexpected error: %v", err)
	}

	ok, err := f.svc.CheckAvailability(ctx, 3, "2024-03-02", "2024-03-03")
	if err != nil || ok {
		t.Fatalf("CheckAvailability() = %v, %v; want false", ok, err)
	}
}

func TestAvailabilityFailsClosed(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture()
	if err := f.cars.SetAvailability(ctx, 4, false); err != nil {
		t.Fatalf("SetAvailability() unexpected error: %v", err)
	}

	for _, carID := range []uint{0, 4, 404} {
		ok, err := f.svc.CheckAvailability(ctx, carID, "2024-05-01", "2024-05-02")
		if err != nil {
			t.Fatalf("CheckAvailability(%d) unexpected error: %v", carID, err)
		}
		if ok {
			t.Errorf("CheckAvailability(%d) = true, want false", carID)
		}
	}

	if _, err := f.svc.CreateBooking(ctx, bookingInput(4, "2024-05-01", "2024-05-02")); !errors.Is(err, ErrCarUnavailable) {
		t.Errorf("booking out-of-service car error = %v, want %v", err, ErrCarUnavailable)
	}
	if _, err := f.svc.CreateBooking(ctx, bookingInput(404, "2024-05-01", "2024-05-02")); !errors.Is(err, ErrCarNotFound) {
		t.Errorf("booking unknown car error = %v, want %v", err, ErrCarNotFound)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture()

	missingName := bookingInput(1, "2024-01-10", "2024-01-15")
	missingName.CustomerName = "  "
	negative := bookingInput(1, "2024-01-10", "2024-01-15")
	negative.EstimatedKm = -1

	tests := []struct {
		name  string
		input CreateBookingInput
		want  error
	}{
		{"missing car", bookingInput(0, "2024-01-10", "2024-01-15"), ErrBookingFields},
		{"missing name", missingName, ErrBookingFields},
		{"negative km", negative, ErrNegativeAmount},
		{"missing dates", bookingInput(1, "", "2024-01-15"), ErrDatesRequired},
		{"bad date", bookingInput(1, "10/01/2024", "2024-01-15"), ErrInvalidDate},
		{"reversed", bookingInput(1, "2024-01-15", "2024-01-10"), ErrInvalidDateRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.CreateBooking(ctx, tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("CreateBooking() error = %v, want %v", err, tt.want)
			}
		})
	}

	bookings, _ := f.svc.ListBookings(ctx)
	if len(bookings) != 0 {
		t.Fatalf("invalid input stored %d bookings", len(bookings))
	}
}

func TestListBookingsNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture()
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	f.svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	var ids []string
	for i, start := range []string{"2024-07-01", "2024-07-10", "2024-07-20"} {
		b, err := f.svc.CreateBooking(ctx, bookingInput(int64(i+1), start, start))
		if err != nil {
			t.Fatalf("CreateBooking() unexpected error: %v", err)
		}
		ids = append(ids, b.ID)
	}

	bookings, err := f.svc.ListBookings(ctx)
	if err != nil {
		t.Fatalf("ListBookings() unexpected error: %v", err)
	}
	if len(bookings) != 3 {
		t.Fatalf("ListBookings() returned %d bookings", len(bookings))
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if bookings[i].ID != want {
			t.Errorf("bookings[%d].ID = %s, want %s", i, bookings[i].ID, want)
		}
	}
}

func TestListBookingsEmpty(t *testing.T) {
	f := newBookingFixture()
	bookings, err := f.svc.ListBookings(context.Background())
	if err != nil {
		t.Fatalf("ListBookings() unexpected error: %v", err)
	}
	if bookings == nil || len(bookings) != 0 {
		t.Fatalf("ListBookings() = %#v, want empty slice", bookings)
	}
}

func TestConcurrentOverlappingBookings(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture()

	const attempts = 20
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		rejected  atomic.Int32
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			input := bookingInput(2, "2024-08-01", "2024-08-10")
			input.CustomerName = fmt.Sprintf("customer-%d", i)
			_, err := f.svc.CreateBooking(ctx, input)
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, ErrCarUnavailable):
				rejected.Add(1)
			default:
				t.Errorf("CreateBooking() unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if succeeded.Load() != 1 || rejected.Load() != attempts-1 {
		t.Fatalf("succeeded=%d rejected=%d, want 1 and %d", succeeded.Load(), rejected.Load(), attempts-1)
	}
}

func TestCreateBookingPublishesEvent(t *testing.T) {
	f := newBookingFixture()
	booking, err := f.svc.CreateBooking(context.Background(), bookingInput(1, "2024-09-01", "2024-09-02"))
	if err != nil {
		t.Fatalf("CreateBooking() unexpected error: %v", err)
	}

	events := f.publisher.Events()
	if len(events) != 1 {
		t.Fatalf("published %d events, want 1", len(events))
	}
	if events[0].BookingID != booking.ID || events[0].Type != model.BookingEventCreated || events[0].CarID != 1 {
		t.Errorf("event = %+v", events[0])
	}
}

func TestCreateBookingSurvivesPublishFailure(t *testing.T) {
	f := newBookingFixture()
	f.publisher.Err = errors.New("broker down")

	if _, err := f.svc.CreateBooking(context.Background(), bookingInput(1, "2024-09-01", "2024-09-02")); err != nil {
		t.Fatalf("CreateBooking() error = %v, want nil", err)
	}
	bookings, _ := f.svc.ListBookings(context.Background())
	if len(bookings) != 1 {
		t.Fatalf("booking not stored after publish failure")
	}
}

func TestListEvents(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture()

	if _, err := f.svc.ListEvents(ctx, "not-a-uuid"); !errors.Is(err, ErrInvalidBookingID) {
		t.Fatalf("ListEvents() error = %v, want %v", err, ErrInvalidBookingID)
	}

	booking, err := f.svc.CreateBooking(ctx, bookingInput(1, "2024-09-01", "2024-09-02"))
	if err != nil {
		t.Fatalf("CreateBooking() unexpected error: %v", err)
	}
	event := f.publisher.Events()[0]
	if err := f.events.Create(ctx, &event); err != nil {
		t.Fatalf("Create event: %v", err)
	}

	events, err := f.svc.ListEvents(ctx, booking.ID)
	if err != nil {
		t.Fatalf("ListEvents() unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].BookingID != booking.ID {
		t.Fatalf("ListEvents() = %+v", events)
	}
}
