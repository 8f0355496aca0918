package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/busline-io/busline-backend/pkg/enums"
)

// AccessTokenClaims is the typed shape of the JWT minted by the external
// credential issuer. The services only read it; they never mint tokens in
// production paths.
type AccessTokenClaims struct {
	UserID uuid.UUID      `json:"user_id"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
