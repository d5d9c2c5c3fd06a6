package model

import "time"

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusPending   = "pending"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	CarID        uint      `gorm:"not null;index:idx_bookings_car_range,priority:1" json:"carId"`
	CustomerName string    `gorm:"size:128;not null" json:"customerName"`
	MobileNumber string    `gorm:"size:32;not null" json:"mobileNumber"`
	StartDate    time.Time `gorm:"not null;index:idx_bookings_car_range,priority:2" json:"startDate"`
	EndDate      time.Time `gorm:"not null;index:idx_bookings_car_range,priority:3" json:"endDate"`
	EstimatedKm  float64   `json:"estimatedKm"`
	TotalAmount  float64   `json:"totalAmount"`
	Status       string    `gorm:"size:16;not null;index" json:"status"`
	BookingDate  time.Time `gorm:"not null;index" json:"bookingDate"`
}
