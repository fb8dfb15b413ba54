package sheets

import (
	"context"
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

func TestParseStripsBOMAndSkipsBlankRows(t *testing.T) {
	doc := "\ufeffid, name ,price\n1,Elf Bar,\"1 200,50\"\n,,\n2,Chaser\n"
	rows, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Get("id") != "1" {
		t.Fatalf("BOM should not leak into the first header, got %+v", rows[0])
	}
	if rows[0].Raw("price") != "1 200,50" {
		t.Fatalf("unexpected price cell %q", rows[0].Raw("price"))
	}
	if rows[1].Get("price") != "" || rows[1].Get("name") != "Chaser" {
		t.Fatalf("short row should be padded, got %+v", rows[1])
	}
}

func TestRowGetFallsThroughAliases(t *testing.T) {
	row := Row{"group_id": " ", "GroupId": "g-7"}
	if got := row.Get("group_id", "GroupId", "Group ID"); got != "g-7" {
		t.Fatalf("expected alias fallback, got %q", got)
	}
}

func TestFetchDownloadsCSV(t *testing.T) {
	var gotURL string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("id,image\nb1,https://img/1.png\n")),
			Header:     http.Header{},
		}, nil
	})
	client := NewClient(0, WithHTTPClient(&http.Client{Transport: rt}))

	rows, err := client.Fetch(context.Background(), "http://sheets.test/pub?output=csv")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotURL != "http://sheets.test/pub?output=csv" {
		t.Fatalf("unexpected url %q", gotURL)
	}
	if len(rows) != 1 || rows[0].Get("image") != "https://img/1.png" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestFetchNon200IsDependencyError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("gone")),
			Header:     http.Header{},
		}, nil
	})
	client := NewClient(0, WithHTTPClient(&http.Client{Transport: rt}))

	_, err := client.Fetch(context.Background(), "http://sheets.test/missing")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if _, err := client.Fetch(context.Background(), ""); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error for empty url, got %v", err)
	}
}
