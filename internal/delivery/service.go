package delivery

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/smokehouse-backend/pkg/errors"
	"github.com/angelmondragon/smokehouse-backend/pkg/novaposhta"
)

const minCityQueryRunes = 3

// Option is one entry of an autocomplete list.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type directory interface {
	SearchSettlements(ctx context.Context, cityName string) ([]novaposhta.Settlement, error)
	Warehouses(ctx context.Context, cityRef string) ([]novaposhta.Warehouse, error)
}

type Service interface {
	SearchCities(ctx context.Context, query string) ([]Option, error)
	Warehouses(ctx context.Context, cityRef string) ([]Option, error)
}

type service struct {
	np directory
}

func NewService(client directory) Service {
	return &service{np: client}
}

// SearchCities returns settlements whose name starts with query. Queries
// shorter than three characters return nothing without calling out.
func (s *service) SearchCities(ctx context.Context, query string) ([]Option, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minCityQueryRunes {
		return []Option{}, nil
	}
	if s == nil || s.np == nil {
		return nil, errors.New(errors.CodeDependency, "delivery directory unavailable")
	}

	settlements, err := s.np.SearchSettlements(ctx, query)
	if err != nil {
		return nil, err
	}
	options := make([]Option, 0, len(settlements))
	for _, item := range settlements {
		options = append(options, Option{Label: item.Present, Value: item.DeliveryCity})
	}
	return options, nil
}

func (s *service) Warehouses(ctx context.Context, cityRef string) ([]Option, error) {
	cityRef = strings.TrimSpace(cityRef)
	if cityRef == "" {
		return []Option{}, nil
	}
	if s == nil || s.np == nil {
		return nil, errors.New(errors.CodeDependency, "delivery directory unavailable")
	}

	warehouses, err := s.np.Warehouses(ctx, cityRef)
	if err != nil {
		return nil, err
	}
	options := make([]Option, 0, len(warehouses))
	for _, item := range warehouses {
		options = append(options, Option{Label: item.Description, Value: item.Description})
	}
	return options, nil
}
