package novaposhta

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func stubClient(t *testing.T, respBody string, inspect func(map[string]any)) *Client {
	t.Helper()
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", req.Method)
		}
		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		var payload map[string]any
		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		if inspect != nil {
			inspect(payload)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})
	return NewClient("np-key", WithBaseURL("http://np.test/json/"), WithHTTPClient(&http.Client{Transport: rt}))
}

func TestSearchSettlements(t *testing.T) {
	respBody := `{"success":true,"data":[{"TotalCount":2,"Addresses":[{"Present":"м. Київ, Київська обл.","DeliveryCity":"ref-kyiv"},{"Present":"с. Київець","DeliveryCity":"ref-2"}]}]}`
	client := stubClient(t, respBody, func(payload map[string]any) {
		if payload["apiKey"] != "np-key" || payload["modelName"] != "Address" || payload["calledMethod"] != "searchSettlements" {
			t.Fatalf("unexpected envelope %+v", payload)
		}
		props := payload["methodProperties"].(map[string]any)
		if props["CityName"] != "Київ" || props["Limit"] != "50" || props["Page"] != "1" {
			t.Fatalf("unexpected props %+v", props)
		}
	})

	got, err := client.SearchSettlements(context.Background(), "Київ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 || got[0].DeliveryCity != "ref-kyiv" || got[0].Present != "м. Київ, Київська обл." {
		t.Fatalf("unexpected settlements %+v", got)
	}
}

func TestSearchSettlementsEmptyData(t *testing.T) {
	client := stubClient(t, `{"success":true,"data":[]}`, nil)
	got, err := client.SearchSettlements(context.Background(), "Zzz")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no settlements, got %+v", got)
	}
}

func TestWarehouses(t *testing.T) {
	respBody := `{"success":true,"data":[{"Ref":"w1","Description":"Відділення №1"},{"Ref":"w2","Description":"Поштомат №2"}]}`
	client := stubClient(t, respBody, func(payload map[string]any) {
		props := payload["methodProperties"].(map[string]any)
		if payload["calledMethod"] != "getWarehouses" || props["CityRef"] != "ref-kyiv" || props["Limit"] != "500" || props["Language"] != "UA" {
			t.Fatalf("unexpected request %+v", payload)
		}
	})

	got, err := client.Warehouses(context.Background(), "ref-kyiv")
	if err != nil {
		t.Fatalf("warehouses: %v", err)
	}
	if len(got) != 2 || got[1].Description != "Поштомат №2" {
		t.Fatalf("unexpected warehouses %+v", got)
	}
}

func TestUnsuccessfulResponseIsDependencyError(t *testing.T) {
	client := stubClient(t, `{"success":false,"data":[],"errors":["API key expired"]}`, nil)
	_, err := client.Warehouses(context.Background(), "ref")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !strings.Contains(errors.Unwrap(err).Error(), "API key expired") {
		t.Fatalf("expected provider error in cause, got %v", err)
	}
}

func TestNonOKStatusIsDependencyError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("upstream down")),
			Header:     http.Header{},
		}, nil
	})
	client := NewClient("", WithHTTPClient(&http.Client{Transport: rt}))
	_, err := client.SearchSettlements(context.Background(), "Львів")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
