package telegram

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

func TestSendMarkdown(t *testing.T) {
	var capturedURL string
	var payload map[string]string

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		if req.Header.Get("Content-Type") != "application/json" {
			t.Fatalf("missing content type")
		}
		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"ok":true,"result":{"message_id":1}}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("123:abc", WithBaseURL("http://tg.test/"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.SendMarkdown(context.Background(), "-100", "*hi*"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if capturedURL != "http://tg.test/bot123:abc/sendMessage" {
		t.Fatalf("unexpected url %q", capturedURL)
	}
	if payload["chat_id"] != "-100" || payload["text"] != "*hi*" || payload["parse_mode"] != "Markdown" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestSendMarkdownAPIError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadRequest,
			Body:       io.NopCloser(strings.NewReader(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)),
			Header:     http.Header{},
		}, nil
	})
	client, _ := NewClient("tok", WithHTTPClient(&http.Client{Transport: rt}))

	err := client.SendMarkdown(context.Background(), "1", "x")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !strings.Contains(errors.Unwrap(err).Error(), "chat not found") {
		t.Fatalf("expected description in cause, got %v", err)
	}
}

func TestSendMarkdownRedactsTokenOnTransportError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("dial " + req.URL.String() + ": refused")
	})
	client, _ := NewClient("secret-token", WithHTTPClient(&http.Client{Transport: rt}))

	err := client.SendMarkdown(context.Background(), "1", "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(err.Error(), "secret-token") || strings.Contains(errors.Unwrap(err).Error(), "secret-token") {
		t.Fatalf("token leaked in error: %v", errors.Unwrap(err))
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for empty token")
	}
}
