package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/role"
	"go.player.tech/internal/queue"
)

type recorder struct {
	name   string
	events []common.DomainEvent
	err    error
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Handle(_ context.Context, e common.DomainEvent) error {
	r.events = append(r.events, e)
	return r.err
}

func roleUpdated() *events.Updated[*role.Role] {
	ctx := common.NewExecutionContext("tester")
	return events.NewUpdated(ctx,
		&role.Role{ID: "r1", Name: "Viewer"},
		&role.Role{ID: "r1", Name: "Viewer", AllPermissions: true})
}

// === Dispatcher ===

func TestDispatcherContinuesAfterHandlerFailure(t *testing.T) {
	failing := &recorder{name: "failing", err: errors.New("boom")}
	ok := &recorder{name: "ok"}
	d := NewDispatcher(nil, failing)
	d.Subscribe(ok)

	err := d.DispatchErr(context.Background(), roleUpdated(), roleUpdated())

	if err == nil {
		t.Error("expected the handler failure to be reported")
	}
	if len(failing.events) != 2 || len(ok.events) != 2 {
		t.Errorf("every handler should see every event: failing=%d ok=%d", len(failing.events), len(ok.events))
	}
}

func TestMultiDispatch(t *testing.T) {
	a, b := &recorder{name: "a"}, &recorder{name: "b"}
	Multi{NewDispatcher(nil, a), NewDispatcher(nil, b)}.Dispatch(context.Background(), roleUpdated())

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Errorf("expected one event each, got %d and %d", len(a.events), len(b.events))
	}
}

func TestHandlerFunc(t *testing.T) {
	called := false
	h := NewHandlerFunc("fn", func(context.Context, common.DomainEvent) error {
		called = true
		return nil
	})
	if h.Name() != "fn" || h.Handle(context.Background(), roleUpdated()) != nil || !called {
		t.Error("HandlerFunc did not delegate")
	}
}

// === Wire ===

func TestSubject(t *testing.T) {
	if got := Subject("player.events", roleUpdated()); got != "player.events.role.updated" {
		t.Errorf("Subject() = %q", got)
	}
}

type fakePublisher struct {
	subject string
	data    []byte
	dedupID string
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, subject string, data []byte, id string) error {
	f.subject, f.data, f.dedupID = subject, data, id
	return f.err
}

type fakeMessage struct {
	data     []byte
	acked    bool
	nakDelay time.Duration
}

func (m *fakeMessage) ID() string                         { return "m1" }
func (m *fakeMessage) Data() []byte                       { return m.data }
func (m *fakeMessage) Subject() string                    { return "player.events.role.updated" }
func (m *fakeMessage) Deliveries() int                    { return 1 }
func (m *fakeMessage) Ack() error                         { m.acked = true; return nil }
func (m *fakeMessage) NakWithDelay(d time.Duration) error { m.nakDelay = d; return nil }

var _ queue.Message = (*fakeMessage)(nil)

func TestPublishSubscribeRoundTrip(t *testing.T) {
	pub := &fakePublisher{}
	event := roleUpdated()

	if err := NewPublisher(pub, "", nil).Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if pub.subject != "player.events.role.updated" || pub.dedupID != event.EventID() {
		t.Fatalf("unexpected publish %s / %s", pub.subject, pub.dedupID)
	}

	rec := &recorder{name: "rec"}
	sub := NewSubscriber(nil, NewDispatcher(nil, rec), nil)
	msg := &fakeMessage{data: pub.data}

	if err := sub.HandleMessage(msg); err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}
	if !msg.acked {
		t.Error("message should be acked")
	}
	if len(rec.events) != 1 {
		t.Fatalf("expected 1 decoded event, got %d", len(rec.events))
	}

	decoded, ok := rec.events[0].(*events.Updated[*role.Role])
	if !ok {
		t.Fatalf("decoded event has type %T", rec.events[0])
	}
	if decoded.EventID() != event.EventID() || !decoded.HasChanged("AllPermissions") || decoded.Entity.ID != "r1" {
		t.Errorf("decoded event lost data: %+v", decoded)
	}
	if decoded.Previous == nil || decoded.Previous.AllPermissions {
		t.Errorf("previous state lost: %+v", decoded.Previous)
	}
}

func TestSubscriberDropsMalformed(t *testing.T) {
	sub := NewSubscriber(nil, NewDispatcher(nil), nil)

	for _, data := range []string{"not json", `{"id":"e1","type":"player:spaceship:created","data":"{}"}`} {
		msg := &fakeMessage{data: []byte(data)}
		if err := sub.HandleMessage(msg); err != nil {
			t.Errorf("HandleMessage(%q) = %v", data, err)
		}
		if !msg.acked {
			t.Errorf("malformed message %q should be acked", data)
		}
	}
}

func TestSubscriberRedeliversOnHandlerFailure(t *testing.T) {
	pub := &fakePublisher{}
	NewPublisher(pub, "", nil).Publish(context.Background(), roleUpdated())

	sub := NewSubscriber(nil, NewDispatcher(nil, &recorder{name: "failing", err: errors.New("redis down")}), nil)
	msg := &fakeMessage{data: pub.data}

	if err := sub.HandleMessage(msg); err == nil {
		t.Error("expected handler error")
	}
	if msg.acked || msg.nakDelay == 0 {
		t.Errorf("message should be nak'd with delay, acked=%v delay=%v", msg.acked, msg.nakDelay)
	}
}

func TestPublisherDispatchLogsFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("no broker")}
	// Dispatch never fails the caller
	NewPublisher(pub, "custom", nil).Dispatch(context.Background(), roleUpdated())
	if pub.subject != "custom.role.updated" {
		t.Errorf("unexpected subject %q", pub.subject)
	}
}
