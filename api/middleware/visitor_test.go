package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestVisitorKeepsValidHeader(t *testing.T) {
	var captured string
	handler := Visitor(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = VisitorIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(VisitorIDHeader, "visitor_abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured != "visitor_abc-123" {
		t.Fatalf("expected visitor id to be kept, got %q", captured)
	}
	if got := rec.Header().Get(VisitorIDHeader); got != "visitor_abc-123" {
		t.Fatalf("expected header echo, got %q", got)
	}
}

func TestVisitorMintsIDForMissingOrInvalidHeader(t *testing.T) {
	cases := map[string]string{
		"missing":  "",
		"too long": strings.Repeat("a", maxClientIDLen+1),
		"bad rune": "visitor id",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			var captured string
			handler := Visitor(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured = VisitorIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set(VisitorIDHeader, header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if _, err := uuid.Parse(captured); err != nil {
				t.Fatalf("expected minted uuid, got %q", captured)
			}
			if rec.Header().Get(VisitorIDHeader) != captured {
				t.Fatalf("expected minted id echoed, got %q", rec.Header().Get(VisitorIDHeader))
			}
		})
	}
}
