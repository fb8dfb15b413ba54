package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type flushRecorder struct {
	*httptest.ResponseRecorder
	flushed chan struct{}
}

func newFlushRecorder() *flushRecorder {
	return &flushRecorder{ResponseRecorder: httptest.NewRecorder(), flushed: make(chan struct{}, 16)}
}

func (f *flushRecorder) Flush() {
	f.ResponseRecorder.Flush()
	f.flushed <- struct{}{}
}

func (f *flushRecorder) waitFlushes(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-f.flushed:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for flush %d", i+1)
		}
	}
}

// serveStream runs handler until it has flushed after frames, then
// disconnects the client and returns the body.
func serveStream(t *testing.T, handler http.Handler, req *http.Request, frames int, afterFirst func()) string {
	t.Helper()
	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	rec := newFlushRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(rec, req.WithContext(ctx))
	}()

	rec.waitFlushes(t, 1)
	if afterFirst != nil {
		afterFirst()
	}
	rec.waitFlushes(t, frames-1)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after disconnect")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}
	return rec.Body.String()
}

func eventCount(body, event string) int {
	return strings.Count(body, "event: "+event+"\n")
}
