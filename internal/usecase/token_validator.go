package usecase

import (
	"turnos-core/internal/pkg/errs"
	"turnos-core/internal/pkg/jwt"

	"github.com/google/uuid"
)

var ErrInvalidToken = errs.New("invalid or expired token")

const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// TokenValidator checks staff tokens issued by the identity collaborator.
type TokenValidator interface {
	ValidateToken(token string) (userID, businessID uuid.UUID, role string, err error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{jwtService: jwtService}
}

func (v *tokenValidatorImpl) ValidateToken(token string) (uuid.UUID, uuid.UUID, string, error) {
	claims, err := v.jwtService.ValidateToken(token)
	if err != nil {
		return uuid.Nil, uuid.Nil, "", errs.Mark(err, ErrInvalidToken)
	}
	return claims.UserID, claims.BusinessID, claims.Role, nil
}
