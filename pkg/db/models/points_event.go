package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
)

// PointsEvent records an immutable loyalty balance adjustment tied to an order reference.
type PointsEvent struct {
	ID        uuid.UUID             `gorm:"column:id;type:text;primaryKey"`
	UserID    uuid.UUID             `gorm:"column:user_id;type:text;not null"`
	OrderRef  string                `gorm:"column:order_ref;not null"`
	Type      enums.PointsEventType `gorm:"column:type;type:text;not null"`
	Amount    decimal.Decimal       `gorm:"column:amount;type:numeric(12,2);not null"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (PointsEvent) TableName() string { return "points_events" }
