package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carrental/internal/app"
	"carrental/internal/transport/http/response"
)

type BookingHandler struct {
	bookings *app.BookingService
}

type CreateBookingRequest struct {
	CarID        int64   `json:"carId"`
	CustomerName string  `json:"customerName"`
	MobileNumber string  `json:"mobileNumber"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	EstimatedKm  float64 `json:"estimatedKm"`
	TotalAmount  float64 `json:"totalAmount"`
	Status       string  `json:"status"`
}

func NewBookingHandler(bookings *app.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.MsgBadPayload)
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), app.CreateBookingInput{
		CarID:        req.CarID,
		CustomerName: req.CustomerName,
		MobileNumber: req.MobileNumber,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		EstimatedKm:  req.EstimatedKm,
		TotalAmount:  req.TotalAmount,
		Status:       req.Status,
	})
	if err != nil {
		writeError(c, err, http.StatusConflict, "Error creating booking")
		return
	}

	response.OK(c, http.StatusOK, "", gin.H{"bookingId": booking.ID})
}

func (h *BookingHandler) List(c *gin.Context) {
	bookings, err := h.bookings.ListBookings(c.Request.Context())
	if err != nil {
		writeError(c, err, http.StatusConflict, "Error loading bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) Events(c *gin.Context) {
	events, err := h.bookings.ListEvents(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		writeError(c, err, http.StatusConflict, "Error loading booking events")
		return
	}
	c.JSON(http.StatusOK, events)
}
