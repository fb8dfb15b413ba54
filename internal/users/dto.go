package users

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/smokehouse-backend/pkg/db/models"
	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID          `json:"id"`
	Email       string             `json:"email"`
	Name        string             `json:"name"`
	PhotoURL    string             `json:"photoUrl,omitempty"`
	Provider    enums.SignInMethod `json:"provider"`
	Balance     decimal.Decimal    `json:"balance"`
	LastLoginAt *time.Time         `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	Name         string
	PhotoURL     string
	PasswordHash *string
	Provider     enums.SignInMethod
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		PhotoURL:    u.PhotoURL,
		Provider:    u.Provider,
		Balance:     u.Balance,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// ToModel builds a new user with a fresh id and a zero balance.
func (c CreateUserDTO) ToModel() *models.User {
	provider := c.Provider
	if provider == "" {
		provider = enums.SignInMethodPassword
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = displayNameFromEmail(c.Email)
	}

	return &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(c.Email)),
		Name:         name,
		PhotoURL:     strings.TrimSpace(c.PhotoURL),
		PasswordHash: c.PasswordHash,
		Provider:     provider,
		Balance:      decimal.Zero,
	}
}

func displayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}
