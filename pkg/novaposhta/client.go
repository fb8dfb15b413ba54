package novaposhta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://api.novaposhta.ua/v2.0/json/"
	modelAddress               = "Address"
	methodSearchSettlements    = "searchSettlements"
	methodGetWarehouses        = "getWarehouses"
	settlementsLimit           = "50"
	warehousesLimit            = "500"
	warehousesLanguage         = "UA"
	requestBodyReadLimit int64 = 1024
)

// Client wraps the Nova Poshta JSON API used for delivery lookups.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds a Nova Poshta client. The address lookups used here work
// without a key, so an empty apiKey is accepted.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

type request struct {
	APIKey           string         `json:"apiKey"`
	ModelName        string         `json:"modelName"`
	CalledMethod     string         `json:"calledMethod"`
	MethodProperties map[string]any `json:"methodProperties"`
}

type response[T any] struct {
	Success bool     `json:"success"`
	Data    []T      `json:"data"`
	Errors  []string `json:"errors"`
}

// Settlement is one city suggestion.
type Settlement struct {
	Present         string `json:"Present"`
	DeliveryCity    string `json:"DeliveryCity"`
	Ref             string `json:"Ref"`
	MainDescription string `json:"MainDescription"`
}

// Warehouse is one delivery branch or parcel locker.
type Warehouse struct {
	Ref         string `json:"Ref"`
	Description string `json:"Description"`
	Number      string `json:"Number"`
}

// SearchSettlements returns settlements matching cityName.
func (c *Client) SearchSettlements(ctx context.Context, cityName string) ([]Settlement, error) {
	var resp response[struct {
		Addresses []Settlement `json:"Addresses"`
	}]
	if err := c.call(ctx, methodSearchSettlements, map[string]any{
		"CityName": cityName,
		"Limit":    settlementsLimit,
		"Page":     "1",
	}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, apiError(methodSearchSettlements, resp.Errors)
	}
	if len(resp.Data) == 0 {
		return []Settlement{}, nil
	}
	return resp.Data[0].Addresses, nil
}

// Warehouses lists the branches of the city identified by cityRef.
func (c *Client) Warehouses(ctx context.Context, cityRef string) ([]Warehouse, error) {
	var resp response[Warehouse]
	if err := c.call(ctx, methodGetWarehouses, map[string]any{
		"CityRef":  cityRef,
		"Limit":    warehousesLimit,
		"Language": warehousesLanguage,
	}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, apiError(methodGetWarehouses, resp.Errors)
	}
	if resp.Data == nil {
		return []Warehouse{}, nil
	}
	return resp.Data, nil
}

func (c *Client) call(ctx context.Context, method string, props map[string]any, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "nova poshta client not configured")
	}
	payload, err := json.Marshal(request{
		APIKey:           c.apiKey,
		ModelName:        modelAddress,
		CalledMethod:     method,
		MethodProperties: props,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal nova poshta request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build nova poshta request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute nova poshta request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "nova poshta request failed")
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode nova poshta response")
	}
	return nil
}

func apiError(method string, errs []string) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("%s: %s", method, strings.Join(errs, "; ")), "nova poshta rejected request")
}
