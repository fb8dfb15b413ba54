package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/angelmondragon/smokehouse-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
	"github.com/angelmondragon/smokehouse-backend/pkg/observer"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultRating = 5
	maxTextRunes  = 2000
)

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service manages product reviews and their live subscribers.
type Service interface {
	Append(ctx context.Context, productID string, userID uuid.UUID, input AppendInput) (*ReviewDTO, error)
	List(ctx context.Context, productID string) (*Summary, error)
	Subscribe(productID string, cb func(Summary)) func()
}

type service struct {
	repo  Repository
	users userFinder
	hub   *observer.Hub[Summary]
	logg  *logger.Logger
	now   func() time.Time
}

// ServiceParams wires the reviews service.
type ServiceParams struct {
	Repo   Repository
	Users  userFinder
	Logger *logger.Logger
	Now    func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:  params.Repo,
		users: params.Users,
		hub:   observer.NewHub[Summary](),
		logg:  params.Logger,
		now:   now,
	}, nil
}

func (s *service) Append(ctx context.Context, productID string, userID uuid.UUID, input AppendInput) (*ReviewDTO, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to leave a review")
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review text required").
			WithDetails(map[string]string{"text": "is required"})
	}
	if utf8.RuneCountInString(text) > maxTextRunes {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "review text exceeds %d characters", maxTextRunes)
	}
	rating := input.Rating
	if rating == 0 {
		rating = defaultRating
	}
	if rating < 1 || rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5").
			WithDetails(map[string]string{"rating": "must be between 1 and 5"})
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load review author")
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    user.ID,
		UserName:  user.Name,
		UserPhoto: user.PhotoURL,
		Text:      text,
		Rating:    rating,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create review")
	}
	dto := fromModel(*review)

	if s.hub.Subscribers(productID) > 0 {
		summary, err := s.List(ctx, productID)
		if err != nil {
			s.logg.Error(s.logg.WithField(ctx, "product_id", productID), "reviews.publish_failed", err)
		} else {
			s.hub.Publish(productID, *summary)
		}
	}
	return &dto, nil
}

func (s *service) List(ctx context.Context, productID string) (*Summary, error) {
	productID = strings.TrimSpace(productID)
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	summary := &Summary{
		ProductID: productID,
		Reviews:   make([]ReviewDTO, 0, len(rows)),
		Count:     len(rows),
	}
	total := 0
	for _, row := range rows {
		summary.Reviews = append(summary.Reviews, fromModel(row))
		total += row.Rating
	}
	summary.Average = averageRating(total, len(rows))
	return summary, nil
}

func (s *service) Subscribe(productID string, cb func(Summary)) func() {
	return s.hub.Subscribe(strings.TrimSpace(productID), cb)
}

// averageRating rounds to one decimal place. An empty list averages to zero.
func averageRating(total, count int) float64 {
	if count == 0 {
		return 0
	}
	return math.Round(float64(total)/float64(count)*10) / 10
}
