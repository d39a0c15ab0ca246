package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	BusinessID  uuid.UUID  `json:"business_id" binding:"required"`
	ServiceID   uuid.UUID  `json:"service_id" binding:"required"`
	EmployeeID  *uuid.UUID `json:"employee_id"`
	StartsAt    time.Time  `json:"starts_at" binding:"required"`
	ClientName  string     `json:"client_name" binding:"required,max=200"`
	ClientEmail string     `json:"client_email" binding:"required,email"`
	ClientPhone string     `json:"client_phone" binding:"max=40"`
	Note        string     `json:"note" binding:"max=1000"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING CONFIRMED COMPLETED CANCELLED NO_SHOW"`
}
