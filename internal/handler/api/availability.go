package api

import (
	"errors"
	"net/http"
	"strconv"

	resdto "turnos-core/internal/handler/dto/response"
	"turnos-core/internal/infra"
	"turnos-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availabilityQueries queries.AvailabilityQueries
}

func NewAvailabilityHandler(availabilityQueries queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityQueries: availabilityQueries,
	}
}

// @Summary Get available slots
// @Description List bookable start times for a service on a given date
// @Tags availability
// @Produce json
// @Param businessID path string true "Business ID"
// @Param service_id query string true "Service ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param employee_id query string false "Preferred employee ID"
// @Param step query int false "Slot grid in minutes"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /businesses/{businessID}/availability [get]
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	businessID, err := uuid.Parse(c.Param("businessID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid business ID format"})
		return
	}

	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "service_id query parameter is required"})
		return
	}

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	q := queries.AvailabilityQuery{
		BusinessID: businessID,
		ServiceID:  serviceID,
		Date:       date,
	}

	if raw := c.Query("employee_id"); raw != "" {
		employeeID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee ID format"})
			return
		}
		q.EmployeeID = &employeeID
	}

	if raw := c.Query("step"); raw != "" {
		step, err := strconv.Atoi(raw)
		if err != nil || step <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid step value"})
			return
		}
		q.StepMinutes = step
	}

	day, err := h.availabilityQueries.GetDaySlots(c.Request.Context(), q)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		case errors.Is(err, queries.ErrResourceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		case errors.Is(err, queries.ErrServiceMismatch):
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		case errors.Is(err, queries.ErrEmployeeNotEligible):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Employee cannot perform this service"})
		case errors.Is(err, queries.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		case errors.Is(err, queries.ErrInvalidStep):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid step value"})
		case infra.IsKind(err, infra.KindTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Storage timed out"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.AvailabilityResponse{Date: day.Date, Slots: day.Slots})
}
