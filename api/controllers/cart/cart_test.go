package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/smokehouse-backend/api/middleware"
	cartsvc "github.com/angelmondragon/smokehouse-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
)

type stubCartService struct {
	view      *cartsvc.View
	err       error
	lastInput cartsvc.AddLineInput
	lastKey   string
	lastOp    string
	visitor   string
}

func (s *stubCartService) Get(ctx context.Context, visitorID string) (*cartsvc.View, error) {
	s.visitor = visitorID
	return s.view, s.err
}

func (s *stubCartService) Add(ctx context.Context, visitorID string, input cartsvc.AddLineInput) (*cartsvc.View, error) {
	s.visitor = visitorID
	s.lastInput = input
	return s.view, s.err
}

func (s *stubCartService) Increase(ctx context.Context, visitorID, key string) (*cartsvc.View, error) {
	s.lastOp, s.lastKey, s.visitor = "increase", key, visitorID
	return s.view, s.err
}

func (s *stubCartService) Decrease(ctx context.Context, visitorID, key string) (*cartsvc.View, error) {
	s.lastOp, s.lastKey, s.visitor = "decrease", key, visitorID
	return s.view, s.err
}

func (s *stubCartService) Remove(ctx context.Context, visitorID, key string) (*cartsvc.View, error) {
	s.lastOp, s.lastKey, s.visitor = "remove", key, visitorID
	return s.view, s.err
}

func (s *stubCartService) Clear(ctx context.Context, visitorID string) error {
	s.lastOp, s.visitor = "clear", visitorID
	return s.err
}

func sampleView() *cartsvc.View {
	return &cartsvc.View{
		Lines: []cartsvc.Line{{
			Key:       "liq-1+ice",
			ProductID: "liq-1",
			Name:      "Elf Liq (Mango)",
			UnitPrice: decimal.NewFromInt(130),
			Quantity:  2,
		}},
		Total:           decimal.NewFromInt(260),
		PotentialPoints: 10,
		Count:           2,
	}
}

func newCartRouter(svc cartsvc.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Visitor(nil))
	r.Get("/cart", CartFetch(svc, nil))
	r.Delete("/cart", CartClear(svc, nil))
	r.Post("/cart/lines", CartAddLine(svc, nil))
	r.Post("/cart/lines/{key}/increase", CartIncrease(svc, nil))
	r.Post("/cart/lines/{key}/decrease", CartDecrease(svc, nil))
	r.Delete("/cart/lines/{key}", CartRemoveLine(svc, nil))
	return r
}

func TestCartFetchUsesVisitorID(t *testing.T) {
	svc := &stubCartService{view: sampleView()}
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(middleware.VisitorIDHeader, "visitor-1")
	resp := httptest.NewRecorder()
	newCartRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.visitor != "visitor-1" {
		t.Fatalf("expected visitor-1 got %q", svc.visitor)
	}

	var envelope struct {
		Data struct {
			Total string `json:"total"`
			Count int    `json:"count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != "260" || envelope.Data.Count != 2 {
		t.Fatalf("unexpected cart payload %+v", envelope.Data)
	}
}

func TestCartAddLineDecodesBody(t *testing.T) {
	svc := &stubCartService{view: sampleView()}
	body := `{"productId":"liq-1","quantity":2,"addons":["ice"]}`
	req := httptest.NewRequest(http.MethodPost, "/cart/lines", strings.NewReader(body))
	req.Header.Set(middleware.VisitorIDHeader, "visitor-1")
	resp := httptest.NewRecorder()
	newCartRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastInput.ProductID != "liq-1" || svc.lastInput.Quantity != 2 || len(svc.lastInput.AddonIDs) != 1 {
		t.Fatalf("unexpected input %+v", svc.lastInput)
	}
}

func TestCartAddLineRejectsMissingProduct(t *testing.T) {
	svc := &stubCartService{view: sampleView()}
	req := httptest.NewRequest(http.MethodPost, "/cart/lines", strings.NewReader(`{"quantity":1}`))
	resp := httptest.NewRecorder()
	newCartRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.lastInput.ProductID != "" {
		t.Fatal("service should not be called")
	}
}

func TestCartLineActionsPassKey(t *testing.T) {
	cases := []struct {
		method string
		path   string
		op     string
	}{
		{http.MethodPost, "/cart/lines/liq-1+ice/increase", "increase"},
		{http.MethodPost, "/cart/lines/liq-1+ice/decrease", "decrease"},
		{http.MethodDelete, "/cart/lines/liq-1+ice", "remove"},
	}
	for _, tc := range cases {
		t.Run(tc.op, func(t *testing.T) {
			svc := &stubCartService{view: sampleView()}
			resp := httptest.NewRecorder()
			newCartRouter(svc).ServeHTTP(resp, httptest.NewRequest(tc.method, tc.path, nil))

			if resp.Code != http.StatusOK {
				t.Fatalf("expected 200 got %d", resp.Code)
			}
			if svc.lastOp != tc.op || svc.lastKey != "liq-1+ice" {
				t.Fatalf("unexpected call %s(%s)", svc.lastOp, svc.lastKey)
			}
		})
	}
}

func TestCartIncreaseCapacityConflict(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.Newf(pkgerrors.CodeConflict, "На складі всього %d шт.", 2)}
	resp := httptest.NewRecorder()
	newCartRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/cart/lines/liq-1/increase", nil))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "На складі всього 2 шт." {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestCartClearReturnsEmptyView(t *testing.T) {
	svc := &stubCartService{}
	resp := httptest.NewRecorder()
	newCartRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/cart", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastOp != "clear" || svc.visitor == "" {
		t.Fatalf("expected clear for minted visitor, got %s/%q", svc.lastOp, svc.visitor)
	}
}
