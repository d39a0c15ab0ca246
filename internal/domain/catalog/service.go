// Package catalog holds the bookable configuration a business manages:
// resources (the business itself and its employees) and services.
package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxDurationMinutes bounds service length to a sane working day.
const MaxDurationMinutes = 480

var (
	ErrInvalidDuration = errors.New("service duration out of range")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrInvalidCurrency = errors.New("currency must be a 3-letter code")
)

type Service struct {
	id              uuid.UUID
	businessID      uuid.UUID
	name            string
	durationMinutes int
	priceCents      int64
	currency        string
	// Employees allowed to perform this service; empty means any
	// employee / the business default.
	eligibleEmployees []uuid.UUID
}

func NewService(
	id, businessID uuid.UUID,
	name string,
	durationMinutes int,
	priceCents int64,
	currency string,
	eligibleEmployees []uuid.UUID,
) (*Service, error) {
	if durationMinutes <= 0 || durationMinutes > MaxDurationMinutes {
		return nil, ErrInvalidDuration
	}
	if priceCents < 0 {
		return nil, ErrNegativePrice
	}
	if len(currency) != 3 {
		return nil, ErrInvalidCurrency
	}

	return &Service{
		id:                id,
		businessID:        businessID,
		name:              name,
		durationMinutes:   durationMinutes,
		priceCents:        priceCents,
		currency:          currency,
		eligibleEmployees: eligibleEmployees,
	}, nil
}

func (s *Service) ID() uuid.UUID         { return s.id }
func (s *Service) BusinessID() uuid.UUID { return s.businessID }
func (s *Service) Name() string          { return s.name }
func (s *Service) DurationMinutes() int  { return s.durationMinutes }
func (s *Service) PriceCents() int64     { return s.priceCents }
func (s *Service) Currency() string      { return s.currency }

func (s *Service) Duration() time.Duration {
	return time.Duration(s.durationMinutes) * time.Minute
}

func (s *Service) CanBePerformedBy(employeeID uuid.UUID) bool {
	if len(s.eligibleEmployees) == 0 {
		return true
	}
	for _, id := range s.eligibleEmployees {
		if id == employeeID {
			return true
		}
	}
	return false
}
