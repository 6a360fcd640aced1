package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/scyware/assettrack-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT. Token
// issuance itself belongs to the identity service; this package exists so the
// API can verify tokens and so tests and the seeder can mint them.
type AccessTokenPayload struct {
	UserID          uuid.UUID
	Name            string
	Email           string
	Role            enums.UserRole
	AssignedStoreID *uuid.UUID
}

// AccessTokenClaims represents the typed JWT attached to every request.
type AccessTokenClaims struct {
	UserID          uuid.UUID      `json:"user_id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Role            enums.UserRole `json:"role"`
	AssignedStoreID *uuid.UUID     `json:"assigned_store_id,omitempty"`
	jwt.RegisteredClaims
}
