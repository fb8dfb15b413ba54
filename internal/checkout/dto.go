package checkout

import (
	"strings"
	"time"

	"github.com/angelmondragon/smokehouse-backend/internal/cart"
	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// OrderInput is the buyer form submitted at checkout.
type OrderInput struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	MiddleName string `json:"middleName"`
	Phone      string `json:"phone" validate:"required,max=32"`
	Email      string `json:"email" validate:"omitempty,email"`
	Telegram   string `json:"telegram" validate:"max=64"`
	CityName   string `json:"cityName" validate:"required"`
	CityRef    string `json:"cityRef"`
	Department string `json:"department" validate:"required"`
	Payment    string `json:"payment" validate:"required,oneof=cod card"`
	Comment    string `json:"comment" validate:"max=1000"`
	UsePoints  bool   `json:"usePoints"`
}

func (in OrderInput) normalized() OrderInput {
	out := in
	for _, field := range []*string{
		&out.FirstName, &out.LastName, &out.MiddleName, &out.Phone, &out.Email,
		&out.Telegram, &out.CityName, &out.CityRef, &out.Department, &out.Payment, &out.Comment,
	} {
		*field = strings.TrimSpace(*field)
	}
	return out
}

// Totals are the money and points figures of one order.
type Totals struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	Final           decimal.Decimal `json:"final"`
	PointsToEarn    int             `json:"pointsToEarn"`
	PotentialPoints int             `json:"potentialPoints"`
	UsePoints       bool            `json:"usePoints"`
}

// Order is the ephemeral snapshot handed to notification sinks. It is never stored.
type Order struct {
	Ref        string              `json:"orderRef"`
	PlacedAt   time.Time           `json:"placedAt"`
	VisitorID  string              `json:"visitorId"`
	UserID     string              `json:"userId,omitempty"`
	FirstName  string              `json:"firstName"`
	LastName   string              `json:"lastName"`
	MiddleName string              `json:"middleName,omitempty"`
	Phone      string              `json:"phone"`
	Email      string              `json:"email,omitempty"`
	Telegram   string              `json:"telegram,omitempty"`
	CityName   string              `json:"cityName"`
	Department string              `json:"department"`
	Payment    enums.PaymentMethod `json:"payment"`
	Comment    string              `json:"comment,omitempty"`
	Lines      []cart.Line         `json:"lines"`
	Totals     Totals              `json:"totals"`
}

// Receipt is returned to the buyer after a successful submission.
type Receipt struct {
	OrderRef        string           `json:"orderRef"`
	Totals          Totals           `json:"totals"`
	Notified        bool             `json:"notified"`
	BalanceAdjusted bool             `json:"balanceAdjusted"`
	Balance         *decimal.Decimal `json:"balance,omitempty"`
}
