package ws

import (
	"context"
	"log/slog"

	"github.com/mport/typeduel/internal/model"
)

type inboundMessage struct {
	connID   model.ConnectionID
	envelope Envelope
}

// Hub owns the set of live connections and serializes all event handling on
// its Run goroutine. Client read pumps, the upgrade handler and the
// matchmaking sweeper all communicate with it only through channels, so the
// clients map is never touched concurrently.
type Hub struct {
	dispatcher *Dispatcher
	logger     *slog.Logger

	clients    map[model.ConnectionID]*Client
	register   chan *Client
	unregister chan *Client
	incoming   chan inboundMessage
	outbound   chan []Directive
}

// NewHub creates a new connection hub
func NewHub(dispatcher *Dispatcher, logger *slog.Logger) *Hub {
	return &Hub{
		dispatcher: dispatcher,
		logger:     logger.With(slog.String("component", "hub")),
		clients:    make(map[model.ConnectionID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan inboundMessage),
		outbound:   make(chan []Directive, 16),
	}
}

// Run processes hub events until the context is cancelled. Must run on
// exactly one goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, client := range h.clients {
				close(client.send)
				client.conn.Close()
			}
			// Closing the connections errors the read pumps out; absorb
			// their unregistrations so none is left blocked on a channel
			// nobody reads
			for len(h.clients) > 0 {
				select {
				case client := <-h.unregister:
					delete(h.clients, client.connID)
				case <-h.incoming:
				}
			}
			h.logger.Info("hub stopped")
			return

		case client := <-h.register:
			h.clients[client.connID] = client
			h.logger.Info("connection opened", slog.String("conn_id", string(client.connID)))

		case client := <-h.unregister:
			if _, ok := h.clients[client.connID]; ok {
				delete(h.clients, client.connID)
				close(client.send)
				h.deliver(h.dispatcher.HandleDisconnect(client.connID))
				h.logger.Info("connection closed", slog.String("conn_id", string(client.connID)))
			}

		case msg := <-h.incoming:
			h.deliver(h.dispatcher.Dispatch(msg.connID, msg.envelope))

		case directives := <-h.outbound:
			h.deliver(directives)
		}
	}
}

// AnnounceMatch queues match announcements for a sweep-formed pairing.
// Safe to call from other goroutines.
func (h *Hub) AnnounceMatch(match model.Match) {
	h.outbound <- MatchDirectives(match)
}

// deliver sends each directive to its target connection. A directive for a
// connection that has gone away is dropped; a full send buffer means the
// client has stalled and it gets disconnected.
func (h *Hub) deliver(directives []Directive) {
	for _, directive := range directives {
		client, ok := h.clients[directive.To]
		if !ok {
			continue
		}
		select {
		case client.send <- directive.Envelope:
		default:
			h.logger.Warn("send buffer full, dropping connection",
				slog.String("conn_id", string(directive.To)))
			delete(h.clients, directive.To)
			close(client.send)
			h.deliver(h.dispatcher.HandleDisconnect(directive.To))
		}
	}
}
