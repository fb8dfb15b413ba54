package identity

import (
	"github.com/angelmondragon/smokehouse-backend/internal/users"
	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterRequest captures the payload for a new password account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"omitempty,max=120"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest carries the ID token obtained by the client from Google.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// RefreshRequest exchanges a (possibly expired) access token plus its refresh token for a new pair.
type RefreshRequest struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Credentials is the method-agnostic sign-in input.
type Credentials struct {
	Email    string
	Password string
	IDToken  string
}

// SessionResponse contains the tokens and user produced by a successful sign-in.
type SessionResponse struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	User         *users.UserDTO `json:"user"`
}

// Adjustment is one signed change applied to a balance and recorded in the ledger.
type Adjustment struct {
	Type   enums.PointsEventType
	Amount decimal.Decimal
}

// BalanceUpdate is published to balance subscribers after every change.
type BalanceUpdate struct {
	UserID  uuid.UUID       `json:"userId"`
	Balance decimal.Decimal `json:"balance"`
}
