package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/sportdata-hub/internal/platform/logging"
	"github.com/riskibarqy/sportdata-hub/internal/usecase"
)

const (
	defaultPoolSize   = 64
	defaultSendBuffer = 32
)

// LiveQuerier answers the read-only websocket actions.
type LiveQuerier interface {
	Handles(action string) bool
	Query(ctx context.Context, q usecase.LiveQuery) (usecase.SportData, error)
}

// SheetReader returns the current scoring document of a custom match.
type SheetReader interface {
	GetSheet(ctx context.Context, matchID string) (any, error)
}

type Recorder interface {
	WSConnected(delta int)
	ObserveWSMessage(action string, ok bool)
}

type HubConfig struct {
	Live           LiveQuerier
	Sheets         SheetReader
	Recorder       Recorder
	Logger         *logging.Logger
	PoolSize       int
	SendBuffer     int
	AllowedOrigins []string
}

// Hub owns every websocket connection of this instance and the match rooms
// they subscribe to. Match updates fan out only to local connections.
type Hub struct {
	live       LiveQuerier
	sheets     SheetReader
	recorder   Recorder
	logger     *logging.Logger
	pool       *ants.Pool
	sendBuffer int
	upgrader   websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
	rooms   map[string]map[*client]struct{}
}

func NewHub(cfg HubConfig) (*Hub, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}
	sendBuffer := cfg.SendBuffer
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("create websocket worker pool: %w", err)
	}

	h := &Hub{
		live:       cfg.Live,
		sheets:     cfg.Sheets,
		recorder:   cfg.Recorder,
		logger:     logger,
		pool:       pool,
		sendBuffer: sendBuffer,
		clients:    make(map[*client]struct{}),
		rooms:      make(map[string]map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
	}
	return h, nil
}

func originChecker(allowed []string) func(r *http.Request) bool {
	allowSet := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		if origin != "" {
			allowSet[origin] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if len(allowSet) == 0 {
			return true
		}
		_, ok := allowSet[origin]
		return ok
	}
}

// ServeHTTP upgrades the request and runs the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	c := &client{
		hub:   h,
		conn:  conn,
		ctx:   ctx,
		send:  make(chan []byte, h.sendBuffer),
		rooms: make(map[string]struct{}),
	}
	h.register(c)

	go c.writePump()
	c.readPump()
}

// Close releases the dispatch pool and disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.unregister(c)
	}
	h.pool.Release()
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	if h.recorder != nil {
		h.recorder.WSConnected(1)
	}
}

// unregister removes c from the hub and its rooms. Repeated calls are no-ops.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for _, matchID := range c.roomList() {
		h.removeFromRoomLocked(matchID, c)
	}
	h.mu.Unlock()

	c.close()
	if h.recorder != nil {
		h.recorder.WSConnected(-1)
	}
}

func (h *Hub) removeFromRoomLocked(matchID string, c *client) {
	members, ok := h.rooms[matchID]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, matchID)
	}
}

func (h *Hub) join(matchID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	members, ok := h.rooms[matchID]
	if !ok {
		members = make(map[*client]struct{})
		h.rooms[matchID] = members
	}
	members[c] = struct{}{}
	c.joinRoom(matchID)
}

func (h *Hub) leave(matchID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoomLocked(matchID, c)
	c.leaveRoom(matchID)
}

// RoomSize reports how many connections follow matchID.
func (h *Hub) RoomSize(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[matchID])
}

// send delivers msg to c, dropping the client when its buffer is full.
func (h *Hub) send(c *client, msg []byte) {
	if c.enqueue(msg) {
		return
	}
	h.logger.WarnContext(c.ctx, "websocket client too slow, disconnecting")
	h.unregister(c)
}

func (h *Hub) reply(c *client, r reply) {
	payload, err := encodeReply(r)
	if err != nil {
		h.logger.ErrorContext(c.ctx, "encode websocket reply failed", "error", err)
		return
	}
	h.send(c, payload)
}

// PublishMatchUpdate pushes the new scoring document of matchID to its room.
func (h *Hub) PublishMatchUpdate(ctx context.Context, matchID string, sheet any) {
	h.mu.RLock()
	members := make([]*client, 0, len(h.rooms[matchID]))
	for c := range h.rooms[matchID] {
		members = append(members, c)
	}
	h.mu.RUnlock()
	if len(members) == 0 {
		return
	}

	payload, err := encodeReply(okReply(ActionMatchUpdate, msgMatchUpdated, sheet))
	if err != nil {
		h.logger.ErrorContext(ctx, "encode match update failed", "match_id", matchID, "error", err)
		return
	}
	for _, c := range members {
		h.send(c, payload)
	}
}

// submit dispatches one inbound frame on the worker pool.
func (h *Hub) submit(c *client, raw []byte) {
	if err := h.pool.Submit(func() { h.dispatch(c, raw) }); err != nil {
		h.logger.ErrorContext(c.ctx, "websocket dispatch rejected", "error", err)
		h.reply(c, errorReply("", msgServerBusy))
	}
}

func (h *Hub) dispatch(c *client, raw []byte) {
	ctx := c.ctx
	f, err := decodeFrame(raw)
	if err != nil {
		h.observe("invalid", false)
		h.reply(c, errorReply("", msgInvalidJSON))
		return
	}

	action := strings.TrimSpace(f.Action)
	switch {
	case action == ActionSubscribe:
		h.subscribe(ctx, c, f)
	case action == ActionUnsubscribe:
		h.unsubscribe(c, f)
	case h.live != nil && h.live.Handles(action):
		h.query(ctx, c, action, f)
	default:
		h.observe("unknown", false)
		h.reply(c, errorReply(action, msgUnknownAction))
	}
}

func (h *Hub) query(ctx context.Context, c *client, action string, f frame) {
	result, err := h.live.Query(ctx, usecase.LiveQuery{Action: action, Sport: f.Sport, EventID: f.EventID})
	if err != nil {
		h.observe(action, false)
		h.reply(c, h.failure(ctx, action, err))
		return
	}
	h.observe(action, true)
	if !result.Found {
		h.reply(c, okReply(action, msgNoData, nil))
		return
	}
	h.reply(c, okReply(action, msgFetched, result.Data))
}

func (h *Hub) subscribe(ctx context.Context, c *client, f frame) {
	matchID := strings.TrimSpace(f.MatchID)
	if matchID == "" {
		h.observe(ActionSubscribe, false)
		h.reply(c, errorReply(ActionSubscribe, "matchId is required"))
		return
	}
	if h.sheets == nil {
		h.observe(ActionSubscribe, false)
		h.reply(c, errorReply(ActionSubscribe, msgInternalError))
		return
	}

	sheet, err := h.sheets.GetSheet(ctx, matchID)
	if err != nil {
		h.observe(ActionSubscribe, false)
		h.reply(c, h.failure(ctx, ActionSubscribe, err))
		return
	}
	h.join(matchID, c)
	h.observe(ActionSubscribe, true)
	h.reply(c, okReply(ActionSubscribe, msgSubscribed, sheet))
}

func (h *Hub) unsubscribe(c *client, f frame) {
	matchID := strings.TrimSpace(f.MatchID)
	if matchID == "" {
		h.observe(ActionUnsubscribe, false)
		h.reply(c, errorReply(ActionUnsubscribe, "matchId is required"))
		return
	}
	h.leave(matchID, c)
	h.observe(ActionUnsubscribe, true)
	h.reply(c, okReply(ActionUnsubscribe, msgUnsubscribed, nil))
}

// failure turns a usecase error into a reply. Client errors keep their
// message; anything else is logged and hidden.
func (h *Hub) failure(ctx context.Context, action string, err error) reply {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		return errorReply(action, verr.Message)
	case errors.Is(err, usecase.ErrUnknownAction):
		return errorReply(action, msgUnknownAction)
	case errors.Is(err, usecase.ErrNotFound), errors.Is(err, usecase.ErrInvalidInput):
		return errorReply(action, strings.TrimSpace(err.Error()))
	case errors.Is(err, usecase.ErrUpstreamNotFound):
		return okReply(action, msgNoData, nil)
	default:
		h.logger.ErrorContext(ctx, "websocket action failed", "action", action, "error", err)
		return errorReply(action, msgInternalError)
	}
}

func (h *Hub) observe(action string, ok bool) {
	if h.recorder != nil {
		h.recorder.ObserveWSMessage(action, ok)
	}
}
