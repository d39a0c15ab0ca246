package booking

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidTimeSlot   = errors.New("invalid time slot")
	ErrInvalidClientInfo = errors.New("invalid client info")
)

// TimeSlot is a half-open [start, end) instant range. End-exclusive
// semantics let back-to-back bookings share a boundary without conflict.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{start: start, end: end}, nil
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && other.start.Before(ts.end)
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ClientInfo identifies the person the booking is for. Bookings from the
// public page carry no account, just contact details.
type ClientInfo struct {
	name  string
	email string
	phone string
}

func NewClientInfo(name, email, phone string) (ClientInfo, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)

	if name == "" {
		return ClientInfo{}, ErrInvalidClientInfo
	}
	if !emailRe.MatchString(email) {
		return ClientInfo{}, ErrInvalidClientInfo
	}
	return ClientInfo{name: name, email: email, phone: phone}, nil
}

func (c ClientInfo) Name() string  { return c.name }
func (c ClientInfo) Email() string { return c.email }
func (c ClientInfo) Phone() string { return c.phone }
