package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a shopper's rating and comment on a catalog product.
type Review struct {
	ID        uuid.UUID `gorm:"column:id;type:text;primaryKey"`
	ProductID string    `gorm:"column:product_id;not null;index:idx_reviews_product_created,priority:1"`
	UserID    uuid.UUID `gorm:"column:user_id;type:text;not null"`
	UserName  string    `gorm:"column:user_name;not null"`
	UserPhoto string    `gorm:"column:user_photo;not null"`
	Text      string    `gorm:"column:text;not null"`
	Rating    int       `gorm:"column:rating;not null;default:5"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:idx_reviews_product_created,priority:2"`
}
