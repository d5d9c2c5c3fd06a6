package model

import "time"

const BookingEventCreated = "booking.created"

// BookingEvent is the append-only audit row written by the booking event worker.
// It doubles as the message body published to the broker.
type BookingEvent struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	BookingID  string    `gorm:"size:36;not null;index" json:"bookingId"`
	CarID      uint      `gorm:"not null;index" json:"carId"`
	Type       string    `gorm:"size:32;not null" json:"type"`
	Payload    string    `gorm:"type:text" json:"payload"`
	OccurredAt time.Time `gorm:"not null" json:"occurredAt"`
	CreatedAt  time.Time `json:"-"`
}
