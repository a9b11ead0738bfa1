package ws

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/riskibarqy/sportdata-hub/internal/platform/logging"
	"github.com/riskibarqy/sportdata-hub/internal/usecase"
)

type fakeLive struct{}

func (fakeLive) Handles(action string) bool {
	return action == usecase.LiveActionSportList || action == usecase.LiveActionLiveMatch
}

func (fakeLive) Query(_ context.Context, q usecase.LiveQuery) (usecase.SportData, error) {
	switch q.Action {
	case usecase.LiveActionSportList:
		return usecase.SportData{Found: true, Data: []string{"cricket", "football"}}, nil
	case usecase.LiveActionLiveMatch:
		if q.EventID == "" {
			return usecase.SportData{}, &usecase.ValidationError{Message: "eventId is required", Fields: map[string]string{"eventId": "eventId is required"}}
		}
		return usecase.SportData{Found: false}, nil
	}
	return usecase.SportData{}, usecase.ErrUnknownAction
}

type fakeSheets struct{}

func (fakeSheets) GetSheet(_ context.Context, matchID string) (any, error) {
	if matchID != "match-1" {
		return nil, fmt.Errorf("%w: match %s not found", usecase.ErrNotFound, matchID)
	}
	return map[string]any{"matchId": matchID, "version": 1}, nil
}

type countingRecorder struct {
	mu        sync.Mutex
	connected int
	messages  map[string]int
}

func (r *countingRecorder) WSConnected(delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connected += delta
}

func (r *countingRecorder) ObserveWSMessage(action string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[fmt.Sprintf("%s/%t", action, ok)]++
}

func (r *countingRecorder) connections() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connected
}

type decodedReply struct {
	Message string `json:"message"`
	Body    *struct {
		ActionType string `json:"actionType"`
		Data       any    `json:"data"`
	} `json:"body"`
	Status bool `json:"status"`
}

func newTestHub(t *testing.T) (*Hub, *countingRecorder, string) {
	t.Helper()
	recorder := &countingRecorder{messages: map[string]int{}}
	hub, err := NewHub(HubConfig{
		Live:     fakeLive{},
		Sheets:   fakeSheets{},
		Recorder: recorder,
		Logger:   logging.NewNop(),
		PoolSize: 4,
	})
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}
	server := httptest.NewServer(hub)
	t.Cleanup(func() {
		server.Close()
		hub.Close()
	})
	return hub, recorder, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, payload string) decodedReply {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("write: %v", err)
	}
	return readReply(t, conn)
}

func readReply(t *testing.T, conn *websocket.Conn) decodedReply {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var out decodedReply
	if err := sonic.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode reply %s: %v", raw, err)
	}
	return out
}

func TestHub_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, _, url := newTestHub(t)
	conn := dial(t, url)

	got := roundTrip(t, conn, `{"action":`)
	if got.Status || got.Message != msgInvalidJSON || got.Body != nil {
		t.Fatalf("unexpected reply: %+v", got)
	}
}

func TestHub_UnknownAction(t *testing.T) {
	t.Parallel()

	_, _, url := newTestHub(t)
	conn := dial(t, url)

	got := roundTrip(t, conn, `{"action":"teleport"}`)
	if got.Status || got.Message != msgUnknownAction {
		t.Fatalf("unexpected reply: %+v", got)
	}
}

func TestHub_LiveQueries(t *testing.T) {
	t.Parallel()

	_, _, url := newTestHub(t)
	conn := dial(t, url)

	got := roundTrip(t, conn, `{"action":"sportList"}`)
	if !got.Status || got.Body == nil || got.Body.ActionType != usecase.LiveActionSportList {
		t.Fatalf("unexpected reply: %+v", got)
	}
	if items, ok := got.Body.Data.([]any); !ok || len(items) != 2 {
		t.Fatalf("unexpected data: %v", got.Body.Data)
	}

	got = roundTrip(t, conn, `{"action":"liveMatch"}`)
	if got.Status || got.Message != "eventId is required" {
		t.Fatalf("missing eventId must fail: %+v", got)
	}

	got = roundTrip(t, conn, `{"action":"liveMatch","eventId":"404"}`)
	if !got.Status || got.Message != msgNoData || got.Body == nil || got.Body.Data != nil {
		t.Fatalf("absence must be a successful null reply: %+v", got)
	}
}

func TestHub_SubscribeReceivesMatchUpdates(t *testing.T) {
	t.Parallel()

	hub, _, url := newTestHub(t)
	conn := dial(t, url)

	got := roundTrip(t, conn, `{"action":"subscribe","matchId":"match-1"}`)
	if !got.Status || got.Body == nil || got.Body.ActionType != ActionSubscribe {
		t.Fatalf("unexpected subscribe reply: %+v", got)
	}
	if hub.RoomSize("match-1") != 1 {
		t.Fatalf("client not in room")
	}

	hub.PublishMatchUpdate(t.Context(), "match-1", map[string]any{"version": 2})
	update := readReply(t, conn)
	if !update.Status || update.Body == nil || update.Body.ActionType != ActionMatchUpdate {
		t.Fatalf("unexpected update: %+v", update)
	}

	got = roundTrip(t, conn, `{"action":"unsubscribe","matchId":"match-1"}`)
	if !got.Status || hub.RoomSize("match-1") != 0 {
		t.Fatalf("unsubscribe failed: %+v", got)
	}
}

func TestHub_SubscribeUnknownMatch(t *testing.T) {
	t.Parallel()

	hub, _, url := newTestHub(t)
	conn := dial(t, url)

	got := roundTrip(t, conn, `{"action":"subscribe","matchId":"missing"}`)
	if got.Status {
		t.Fatalf("subscribe to missing match must fail: %+v", got)
	}
	if hub.RoomSize("missing") != 0 {
		t.Fatalf("client must not join a missing match room")
	}
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	t.Parallel()

	hub, recorder, url := newTestHub(t)
	conn := dial(t, url)
	roundTrip(t, conn, `{"action":"subscribe","matchId":"match-1"}`)
	if recorder.connections() != 1 {
		t.Fatalf("connections=%d", recorder.connections())
	}

	_ = conn.Close()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if recorder.connections() == 0 && hub.RoomSize("match-1") == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("client not unregistered: connections=%d room=%d", recorder.connections(), hub.RoomSize("match-1"))
}

func TestClient_FullBufferIsDropped(t *testing.T) {
	t.Parallel()

	hub, err := NewHub(HubConfig{Logger: logging.NewNop(), SendBuffer: 1})
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}
	defer hub.Close()

	c := &client{hub: hub, ctx: t.Context(), send: make(chan []byte, 1), rooms: map[string]struct{}{}}
	hub.register(c)
	hub.join("match-1", c)

	hub.PublishMatchUpdate(t.Context(), "match-1", 1)
	hub.PublishMatchUpdate(t.Context(), "match-1", 2)

	if hub.RoomSize("match-1") != 0 {
		t.Fatalf("slow client must be removed from its room")
	}
	if c.enqueue([]byte("x")) {
		t.Fatalf("dropped client must not accept messages")
	}
}
