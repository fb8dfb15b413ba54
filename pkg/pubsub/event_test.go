package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
)

type stubResult struct {
	id  string
	err error
}

func (r stubResult) Get(context.Context) (string, error) {
	return r.id, r.err
}

type stubPublisher struct {
	msgs   []*pubsub.Message
	result publishResult
}

func (p *stubPublisher) Publish(_ context.Context, msg *pubsub.Message) publishResult {
	p.msgs = append(p.msgs, msg)
	return p.result
}

func TestPublishJSONWrapsEnvelope(t *testing.T) {
	stub := &stubPublisher{result: stubResult{id: "msg-1"}}
	pub := newEventPublisher(stub)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pub.now = func() time.Time { return fixed }

	id, err := pub.PublishJSON(context.Background(), "order.placed", "SH-1", map[string]int{"total": 5})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if id != "msg-1" {
		t.Fatalf("unexpected id %q", id)
	}
	if len(stub.msgs) != 1 {
		t.Fatalf("expected one message")
	}
	msg := stub.msgs[0]
	if msg.Attributes["event_type"] != "order.placed" || msg.Attributes["aggregate_id"] != "SH-1" {
		t.Fatalf("unexpected attributes %+v", msg.Attributes)
	}

	var env Envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.EventID == "" || env.EventID != msg.Attributes["event_id"] {
		t.Fatalf("event id mismatch %q vs %q", env.EventID, msg.Attributes["event_id"])
	}
	if !env.OccurredAt.Equal(fixed) || string(env.Data) != `{"total":5}` {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestPublishJSONPropagatesFailures(t *testing.T) {
	pub := newEventPublisher(&stubPublisher{result: stubResult{err: errors.New("deadline")}})
	if _, err := pub.PublishJSON(context.Background(), "order.placed", "x", struct{}{}); err == nil {
		t.Fatal("expected publish error")
	}

	pub = newEventPublisher(&stubPublisher{})
	if _, err := pub.PublishJSON(context.Background(), "order.placed", "x", struct{}{}); err == nil {
		t.Fatal("expected error for nil result")
	}

	var nilPub *EventPublisher
	if _, err := nilPub.PublishJSON(context.Background(), "order.placed", "x", nil); err == nil {
		t.Fatal("expected error for unconfigured publisher")
	}
	if NewEventPublisher(nil) != nil {
		t.Fatal("expected nil wrapper for nil publisher")
	}
}

func TestTopicResourceName(t *testing.T) {
	if got := topicResourceName("proj", "orders"); got != "projects/proj/topics/orders" {
		t.Fatalf("unexpected %q", got)
	}
	if got := topicResourceName("", "projects/p/topics/t"); got != "projects/p/topics/t" {
		t.Fatalf("unexpected %q", got)
	}
	if topicResourceName("", "orders") != "" {
		t.Fatal("expected empty name without project")
	}
}
