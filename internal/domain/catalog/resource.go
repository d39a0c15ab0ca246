package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidResourceKind = errors.New("invalid resource kind")
	ErrInvalidTimezone     = errors.New("invalid timezone")
)

type ResourceKind string

const (
	KindBusiness ResourceKind = "business"
	KindEmployee ResourceKind = "employee"
)

// Resource is anything whose time can be booked: the business as a whole
// or one of its employees. Employees reference their business resource
// through businessID; a business resource references itself.
type Resource struct {
	id          uuid.UUID
	businessID  uuid.UUID
	kind        ResourceKind
	name        string
	location    *time.Location
	autoConfirm bool
}

func NewResource(id, businessID uuid.UUID, kind ResourceKind, name, timezone string, autoConfirm bool) (*Resource, error) {
	if kind != KindBusiness && kind != KindEmployee {
		return nil, ErrInvalidResourceKind
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, ErrInvalidTimezone
	}

	return &Resource{
		id:          id,
		businessID:  businessID,
		kind:        kind,
		name:        name,
		location:    loc,
		autoConfirm: autoConfirm,
	}, nil
}

func (r *Resource) ID() uuid.UUID            { return r.id }
func (r *Resource) BusinessID() uuid.UUID    { return r.businessID }
func (r *Resource) Kind() ResourceKind       { return r.kind }
func (r *Resource) Name() string             { return r.name }
func (r *Resource) Location() *time.Location { return r.location }
func (r *Resource) AutoConfirm() bool        { return r.autoConfirm }
