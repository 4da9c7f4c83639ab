package websocket

import (
	"log"
	"sync"

	"github.com/CUknot/dorm_backend/models"
	"github.com/goccy/go-json"
)

// Hub tracks connected clients by user and pushes sleepover events to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// userID -> clients of that user
	users map[uint]map[*Client]bool

	mux sync.RWMutex

	// Unregister requests from clients
	unregister chan *Client
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		users:      make(map[uint]map[*Client]bool),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for client := range h.unregister {
		h.remove(client)
	}
}

func (h *Hub) add(client *Client) {
	h.mux.Lock()
	defer h.mux.Unlock()

	h.clients[client] = true
	if _, ok := h.users[client.userID]; !ok {
		h.users[client.userID] = make(map[*Client]bool)
	}
	h.users[client.userID][client] = true
}

func (h *Hub) remove(client *Client) {
	h.mux.Lock()
	defer h.mux.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)

	delete(h.users[client.userID], client)
	// Clean up users without connections
	if len(h.users[client.userID]) == 0 {
		delete(h.users, client.userID)
	}
}

// deliver sends message to each client, dropping clients whose buffer is full
func (h *Hub) deliver(clients []*Client, message []byte) {
	h.mux.Lock()
	defer h.mux.Unlock()

	for _, client := range clients {
		if !h.clients[client] {
			continue
		}
		select {
		case client.send <- message:
		default:
			h.removeLocked(client)
		}
	}
}

func (h *Hub) userClients(userID uint) []*Client {
	h.mux.RLock()
	defer h.mux.RUnlock()

	clients := make([]*Client, 0, len(h.users[userID]))
	for client := range h.users[userID] {
		clients = append(clients, client)
	}
	return clients
}

func (h *Hub) adminClients() []*Client {
	h.mux.RLock()
	defer h.mux.RUnlock()

	var clients []*Client
	for client := range h.clients {
		if client.role == models.RoleAdmin {
			clients = append(clients, client)
		}
	}
	return clients
}

func encode(msgType string, payload interface{}) []byte {
	msgBytes, err := json.Marshal(Message{Type: msgType, Payload: payload})
	if err != nil {
		log.Printf("error marshaling message: %v", err)
		return nil
	}
	return msgBytes
}

// NotifyUser sends a message to every connection of a user
func (h *Hub) NotifyUser(userID uint, msgType string, payload interface{}) {
	if msg := encode(msgType, payload); msg != nil {
		h.deliver(h.userClients(userID), msg)
	}
}

// NotifyAdmins sends a message to every connected admin
func (h *Hub) NotifyAdmins(msgType string, payload interface{}) {
	if msg := encode(msgType, payload); msg != nil {
		h.deliver(h.adminClients(), msg)
	}
}

// Global hub instance
var hub *Hub

// InitHub initializes the global hub
func InitHub() {
	hub = NewHub()
	go hub.Run()
}

// NotifyUser pushes to a user through the global hub
func NotifyUser(userID uint, msgType string, payload interface{}) {
	hub.NotifyUser(userID, msgType, payload)
}

// NotifyAdmins pushes to all admins through the global hub
func NotifyAdmins(msgType string, payload interface{}) {
	hub.NotifyAdmins(msgType, payload)
}
