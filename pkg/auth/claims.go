package auth

import (
	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Method enums.SignInMethod
	// JTI doubles as the refresh session key. Empty means a fresh id is minted.
	JTI string
}

// AccessTokenClaims represents the typed JWT issued to shoppers.
type AccessTokenClaims struct {
	UserID uuid.UUID          `json:"user_id"`
	Method enums.SignInMethod `json:"method"`
	jwt.RegisteredClaims
}
