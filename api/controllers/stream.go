package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/angelmondragon/smokehouse-backend/api/responses"
	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
)

const (
	streamBuffer    = 8
	streamHeartbeat = 25 * time.Second
)

// streamUpdates serves a server-sent event stream: the initial snapshot
// first, then every published update until the client disconnects. Updates
// that arrive while the client is slow are dropped rather than queued.
func streamUpdates[T any](w http.ResponseWriter, r *http.Request, logg *logger.Logger, event string, initial any, subscribe func(cb func(T)) func()) {
	if _, ok := w.(http.Flusher); !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	updates := make(chan T, streamBuffer)
	unsubscribe := subscribe(func(v T) {
		select {
		case updates <- v:
		default:
		}
	})
	defer unsubscribe()

	ctx := r.Context()
	if err := responses.WriteEvent(w, event, initial); err != nil {
		logStreamClosed(ctx, logg, event, err)
		return
	}

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case v := <-updates:
			if err := responses.WriteEvent(w, event, v); err != nil {
				logStreamClosed(ctx, logg, event, err)
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				logStreamClosed(ctx, logg, event, err)
				return
			}
			w.(http.Flusher).Flush()
		}
	}
}

func logStreamClosed(ctx context.Context, logg *logger.Logger, event string, err error) {
	if logg == nil {
		return
	}
	logg.Warn(logg.WithFields(ctx, map[string]any{"event": event, "error": err.Error()}), "stream.write_failed")
}
