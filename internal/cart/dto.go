package cart

import "github.com/shopspring/decimal"

// AddLineInput is the request body for adding a product to the cart.
type AddLineInput struct {
	ProductID string   `json:"productId" validate:"required"`
	Quantity  int      `json:"quantity" validate:"omitempty,min=1"`
	AddonIDs  []string `json:"addons" validate:"omitempty,dive,required"`
}

// View is the cart as returned to clients.
type View struct {
	Lines           []Line          `json:"lines"`
	Total           decimal.Decimal `json:"total"`
	PotentialPoints int             `json:"potentialPoints"`
	Count           int             `json:"count"`
}

func viewOf(store *Store) *View {
	return &View{
		Lines:           store.Snapshot(),
		Total:           store.Total(),
		PotentialPoints: store.PotentialPoints(),
		Count:           store.Count(),
	}
}
