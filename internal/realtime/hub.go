package realtime

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/service"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/utils"
	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// Hub keeps the authenticated websocket clients and fans events out to them.
type Hub struct {
	upgrader  websocket.Upgrader
	jwtSecret string
	users     service.UserService

	mu      sync.RWMutex
	clients map[string]*client

	idMu    sync.Mutex
	entropy *ulid.MonotonicEntropy

	detailsMu      sync.RWMutex
	requestDetails func(ctx context.Context) error

	// per-client allowance for request-details messages
	requestRate  rate.Limit
	requestBurst int
}

var _ service.Publisher = (*Hub)(nil)

func CreateHub(jwtSecret string, users service.UserService) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		jwtSecret:    jwtSecret,
		users:        users,
		clients:      map[string]*client{},
		entropy:      ulid.Monotonic(rand.Reader, 0),
		requestRate:  rate.Every(time.Second),
		requestBurst: 3,
	}
}

// OnRequestDetails registers the handler for the request-details message.
func (h *Hub) OnRequestDetails(handler func(ctx context.Context) error) {
	h.detailsMu.Lock()
	defer h.detailsMu.Unlock()
	h.requestDetails = handler
}

// ServeHTTP authenticates the handshake and upgrades the connection. Invalid
// credentials are answered with 401 before any upgrade happens.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := log.With().Str("remote_addr", r.RemoteAddr).Logger()
	r = r.WithContext(logger.WithContext(r.Context()))

	profile, err := h.authenticate(r)
	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Str("component", "Handshake").Msg("websocket rejected")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("component", "Handshake").Msg("")
		return
	}

	c := &client{
		hub:         h,
		id:          h.newID(),
		userID:      profile.Sub,
		remoteAddr:  r.RemoteAddr,
		connectedAt: time.Now(),
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		limiter:     rate.NewLimiter(h.requestRate, h.requestBurst),
	}
	h.register(c)

	log.Info().Str("component", "Hub").Str("client_id", c.id).Str("user_id", c.userID).Msg("client connected")

	go c.writePump()
	go c.readPump()
}

func (h *Hub) authenticate(r *http.Request) (profile domain.Profile, err error) {
	token := r.Header.Get("Authorization")
	if token == "" {
		token = r.URL.Query().Get("token")
	}

	claims, err := utils.ParseJWTToken(token, h.jwtSecret)
	if err != nil {
		return profile, err
	}

	return h.users.Authenticate(r.Context(), claims)
}

func (h *Hub) newID() string {
	h.idMu.Lock()
	defer h.idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), h.entropy).String()
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	if ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()

	if ok {
		log.Info().Str("component", "Hub").Str("client_id", c.id).Str("user_id", c.userID).Msg("client disconnected")
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast encodes the event once and queues it for every client. Clients
// whose queue is full are dropped.
func (h *Hub) Broadcast(event string, data interface{}) {
	frame, err := json.Marshal(dto.RealtimeEvent{Event: event, Data: data})
	if err != nil {
		log.Error().Err(err).Str("component", "Broadcast").Str("event", event).Msg("")
		return
	}

	var slow []*client
	h.mu.RLock()
	for _, c := range h.clients {
		select {
		case c.send <- frame:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.Warn().Str("component", "Broadcast").Str("client_id", c.id).Msg("send buffer full, dropping client")
		h.unregister(c)
	}
}

func (h *Hub) Connections() []dto.ConnectionInfo {
	h.mu.RLock()
	connections := make([]dto.ConnectionInfo, 0, len(h.clients))
	for _, c := range h.clients {
		connections = append(connections, dto.ConnectionInfo{
			ID:          c.id,
			UserID:      c.userID,
			RemoteAddr:  c.remoteAddr,
			ConnectedAt: c.connectedAt,
		})
	}
	h.mu.RUnlock()

	sort.Slice(connections, func(i, j int) bool {
		return connections[i].ID < connections[j].ID
	})
	return connections
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.unregister(c)
	}
}

func (h *Hub) handleMessage(c *client, raw []byte) {
	msg := dto.RealtimeMessage{}
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Debug().Err(err).Str("component", "ReadMessage").Str("client_id", c.id).Msg("malformed message")
		return
	}

	switch msg.Event {
	case dto.MessageRequestDetails:
		if !c.limiter.Allow() {
			return
		}

		h.detailsMu.RLock()
		handler := h.requestDetails
		h.detailsMu.RUnlock()
		if handler == nil {
			return
		}

		logger := log.With().Str("client_id", c.id).Str("user_id", c.userID).Logger()
		if err := handler(logger.WithContext(context.Background())); err != nil {
			log.Error().Err(err).Str("component", "RequestDetails").Str("client_id", c.id).Msg("")
		}
	}
}
