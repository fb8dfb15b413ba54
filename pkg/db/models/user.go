package models

import (
	"time"

	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a shopper account. Federated accounts carry no password hash.
type User struct {
	ID           uuid.UUID          `gorm:"column:id;type:text;primaryKey"`
	Email        string             `gorm:"column:email;type:text;not null;uniqueIndex:users_email_key"`
	Name         string             `gorm:"column:name;not null"`
	PhotoURL     string             `gorm:"column:photo_url;not null"`
	PasswordHash *string            `gorm:"column:password_hash"`
	Provider     enums.SignInMethod `gorm:"column:provider;type:text;not null"`
	Balance      decimal.Decimal    `gorm:"column:balance;type:numeric(12,2);not null;default:0"`
	LastLoginAt  *time.Time         `gorm:"column:last_login_at"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
