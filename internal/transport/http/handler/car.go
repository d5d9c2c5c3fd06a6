package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carrental/internal/app"
	"carrental/internal/transport/http/response"
)

type CarHandler struct {
	catalog  *app.CatalogService
	bookings *app.BookingService
}

type SetAvailabilityRequest struct {
	Available *bool `json:"available"`
}

func NewCarHandler(catalog *app.CatalogService, bookings *app.BookingService) *CarHandler {
	return &CarHandler{catalog: catalog, bookings: bookings}
}

func (h *CarHandler) List(c *gin.Context) {
	cars, err := h.catalog.ListCars(c.Request.Context())
	if err != nil {
		writeError(c, err, http.StatusConflict, "Error loading cars")
		return
	}
	c.JSON(http.StatusOK, cars)
}

// Availability answers {available:false} for ids that are not numbers.
func (h *CarHandler) Availability(c *gin.Context) {
	carID, ok := parseCarID(c.Param("carId"))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"available": false})
		return
	}

	available, err := h.bookings.CheckAvailability(
		c.Request.Context(),
		carID,
		c.Query("startDate"),
		c.Query("endDate"),
	)
	if err != nil {
		writeError(c, err, http.StatusConflict, "Error checking availability")
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

func (h *CarHandler) SetAvailability(c *gin.Context) {
	carID, ok := parseCarID(c.Param("carId"))
	if !ok {
		response.Error(c, http.StatusNotFound, app.ErrCarNotFound.Message)
		return
	}

	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Available == nil {
		response.Error(c, http.StatusBadRequest, response.MsgBadPayload)
		return
	}

	if err := h.catalog.SetAvailability(c.Request.Context(), carID, *req.Available); err != nil {
		writeError(c, err, http.StatusConflict, "Error updating car")
		return
	}
	response.OK(c, http.StatusOK, "", nil)
}

func parseCarID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
