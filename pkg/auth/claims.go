package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/storelane/storelane-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	Role   enums.UserRole
}

// AccessTokenClaims represents the typed JWT issued to clients. The user id
// travels in the registered sub claim.
type AccessTokenClaims struct {
	Email string         `json:"email"`
	Role  enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim back into a user id.
func (c *AccessTokenClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
