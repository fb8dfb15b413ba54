package reviews

import (
	"time"

	"github.com/angelmondragon/smokehouse-backend/pkg/db/models"
	"github.com/google/uuid"
)

// AppendInput is the body of a new review.
type AppendInput struct {
	Text   string `json:"text" validate:"required,max=2000"`
	Rating int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

// ReviewDTO is a review as shown on the product page.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID string    `json:"productId"`
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName"`
	UserPhoto string    `json:"userPhoto,omitempty"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary is the review list of one product with its average rating.
type Summary struct {
	ProductID string      `json:"productId"`
	Reviews   []ReviewDTO `json:"reviews"`
	Average   float64     `json:"average"`
	Count     int         `json:"count"`
}

func fromModel(m models.Review) ReviewDTO {
	return ReviewDTO{
		ID:        m.ID,
		ProductID: m.ProductID,
		UserID:    m.UserID,
		UserName:  m.UserName,
		UserPhoto: m.UserPhoto,
		Text:      m.Text,
		Rating:    m.Rating,
		CreatedAt: m.CreatedAt,
	}
}
