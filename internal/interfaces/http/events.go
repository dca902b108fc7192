package httpinterface

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/hashlock-network/swapd/internal/core/ports"

	log "github.com/sirupsen/logrus"
)

type eventEnvelope struct {
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

type eventClient struct {
	conn  *websocket.Conn
	topic string
	lock  sync.Mutex
}

func (c *eventClient) send(envelope eventEnvelope) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.conn.WriteJSON(envelope)
}

func (c *eventClient) wantsTopic(topic string) bool {
	return c.topic == ports.UnspecifiedTopic ||
		c.topic == ports.AnyTopic ||
		c.topic == topic
}

// EventHub streams published events to connected websocket clients. It is
// wired as one of the swap service publishers, alongside the webhook one.
type EventHub struct {
	upgrader websocket.Upgrader

	lock    sync.Mutex
	clients map[*eventClient]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{
		upgrader: websocket.Upgrader{},
		clients:  make(map[*eventClient]struct{}),
	}
}

func (h *EventHub) Publish(topic string, message string) error {
	envelope := eventEnvelope{Topic: topic, Data: json.RawMessage(message)}

	for _, client := range h.listClients() {
		if !client.wantsTopic(topic) {
			continue
		}
		if err := client.send(envelope); err != nil {
			h.removeClient(client)
		}
	}
	return nil
}

func (h *EventHub) Close() {
	for _, client := range h.listClients() {
		//nolint
		client.conn.Close()
		h.removeClient(client)
	}
}

// handleEvents upgrades the request and keeps the connection registered
// until the client goes away. An optional topic query param narrows the
// streamed events, default is all of them.
func (h *EventHub) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("failed to upgrade event stream request")
		return
	}

	client := &eventClient{conn: conn, topic: r.URL.Query().Get("topic")}
	h.addClient(client)

	go func() {
		defer func() {
			h.removeClient(client)
			//nolint
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *EventHub) addClient(client *eventClient) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.clients[client] = struct{}{}
}

func (h *EventHub) removeClient(client *eventClient) {
	h.lock.Lock()
	defer h.lock.Unlock()
	delete(h.clients, client)
}

func (h *EventHub) listClients() []*eventClient {
	h.lock.Lock()
	defer h.lock.Unlock()

	clients := make([]*eventClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	return clients
}
