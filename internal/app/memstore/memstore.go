// Package memstore holds in-memory stores with the same semantics as the gorm
// repositories: unique usernames and emails, explicit car ids, and atomic
// overlap-checked booking inserts. Tests and local tooling use it.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"carrental/internal/model"
	"carrental/internal/repository"
)

type UserStore struct {
	mu     sync.Mutex
	nextID uint
	users  []model.User
}

func NewUserStore() *UserStore {
	return &UserStore{}
}

func (s *UserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	s.nextID++
	now := time.Now().UTC()
	user.ID = s.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users = append(s.users, *user)
	return nil
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return s.find(func(u model.User) bool { return u.Username == username }), nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return s.find(func(u model.User) bool { return u.Email == email }), nil
}

func (s *UserStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	return s.find(func(u model.User) bool { return u.ID == id }), nil
}

func (s *UserStore) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].LastLogin = &at
			return nil
		}
	}
	return nil
}

func (s *UserStore) find(match func(model.User) bool) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			found := u
			return &found
		}
	}
	return nil
}

type CarStore struct {
	mu   sync.Mutex
	cars map[uint]model.Car
}

func NewCarStore(cars ...model.Car) *CarStore {
	s := &CarStore{cars: make(map[uint]model.Car)}
	for _, c := range cars {
		s.cars[c.ID] = c
	}
	return s
}

func (s *CarStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.cars)), nil
}

func (s *CarStore) CreateBatch(_ context.Context, cars []model.Car) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cars {
		if _, exists := s.cars[c.ID]; exists {
			return repository.ErrDuplicate
		}
	}
	for _, c := range cars {
		s.cars[c.ID] = c
	}
	return nil
}

func (s *CarStore) List(_ context.Context) ([]model.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cars := make([]model.Car, 0, len(s.cars))
	for _, c := range s.cars {
		cars = append(cars, c)
	}
	sort.Slice(cars, func(i, j int) bool { return cars[i].ID < cars[j].ID })
	return cars, nil
}

func (s *CarStore) GetByID(_ context.Context, id uint) (*model.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cars[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *CarStore) SetAvailability(_ context.Context, id uint, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cars[id]
	if !ok {
		return repository.ErrCarNotFound
	}
	c.Available = available
	s.cars[id] = c
	return nil
}

// BookingStore shares the CarStore so CreateIfAvailable can see the car's
// service flag under the same critical section as the overlap check.
type BookingStore struct {
	mu       sync.Mutex
	cars     *CarStore
	bookings []model.Booking
}

func NewBookingStore(cars *CarStore) *BookingStore {
	return &BookingStore{cars: cars}
}

func (s *BookingStore) CountOverlapping(_ context.Context, carID uint, start, end time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countOverlapping(carID, start, end), nil
}

func (s *BookingStore) countOverlapping(carID uint, start, end time.Time) int64 {
	var n int64
	for _, b := range s.bookings {
		if b.CarID == carID && !b.StartDate.After(end) && !b.EndDate.Before(start) {
			n++
		}
	}
	return n
}

func (s *BookingStore) CreateIfAvailable(ctx context.Context, booking *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	car, _ := s.cars.GetByID(ctx, booking.CarID)
	if car == nil {
		return repository.ErrCarNotFound
	}
	if !car.Available {
		return repository.ErrCarUnavailable
	}
	if s.countOverlapping(booking.CarID, booking.StartDate, booking.EndDate) > 0 {
		return repository.ErrBookingOverlap
	}
	s.bookings = append(s.bookings, *booking)
	return nil
}

func (s *BookingStore) List(_ context.Context) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bookings := make([]model.Booking, len(s.bookings))
	copy(bookings, s.bookings)
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].BookingDate.After(bookings[j].BookingDate)
	})
	return bookings, nil
}

type BookingEventStore struct {
	mu     sync.Mutex
	nextID uint
	events []model.BookingEvent
}

func NewBookingEventStore() *BookingEventStore {
	return &BookingEventStore{}
}

func (s *BookingEventStore) Create(_ context.Context, event *model.BookingEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	event.ID = s.nextID
	event.CreatedAt = time.Now().UTC()
	s.events = append(s.events, *event)
	return nil
}

func (s *BookingEventStore) ListByBookingID(_ context.Context, bookingID string) ([]model.BookingEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var events []model.BookingEvent
	for _, e := range s.events {
		if e.BookingID == bookingID {
			events = append(events, e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].OccurredAt.Before(events[j].OccurredAt)
	})
	return events, nil
}

// Publisher records published events and can be told to fail.
type Publisher struct {
	mu     sync.Mutex
	Err    error
	events []model.BookingEvent
}

func (p *Publisher) Publish(_ context.Context, event model.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *Publisher) Events() []model.BookingEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.BookingEvent, len(p.events))
	copy(out, p.events)
	return out
}
