package websocket

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/arjun/party-games-website/internal/domain"
)

// RoomProvider loads the current room document for state sync on subscribe.
type RoomProvider interface {
	GetRoom(ctx context.Context, idOrCode string) (*domain.Room, error)
}

// Hub fans committed room changes out to subscribers. Subscriptions are
// keyed by room short code; each subscriber receives updates in commit
// order for that room, with no cross-room ordering.
type Hub struct {
	rooms      map[string]map[*Client]bool
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	subscribe  chan *subscribeRequest
	broadcast  chan *roomBroadcast
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	provider   RoomProvider
	mu         sync.RWMutex
}

type subscribeRequest struct {
	Client   *Client
	RoomCode string
}

type roomBroadcast struct {
	RoomCode string
	Message  *Message
}

func NewHub(provider RoomProvider) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscribe:  make(chan *subscribeRequest),
		broadcast:  make(chan *roomBroadcast, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		provider:   provider,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.rooms = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					h.removeSubscriber(client)
					client.Close()
				}
			}
			h.mu.Unlock()

		case req := <-h.subscribe:
			h.handleSubscribe(req)

		case b := <-h.broadcast:
			h.deliver(b)
		}
	}
}

// Register hands a freshly upgraded connection to the hub loop.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Stop tears down all subscriptions and blocks until Run() has exited.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

// BroadcastRoom pushes the latest room snapshot to every subscriber of the
// room. Called by the HTTP layer after each successful mutation.
func (h *Hub) BroadcastRoom(room *domain.Room) {
	msg, err := NewMessage(MessageTypeRoomUpdate, NewRoomSnapshot(room))
	if err != nil {
		log.Printf("ERROR [hub] failed to build room update: %v", err)
		return
	}

	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}

	select {
	case h.broadcast <- &roomBroadcast{RoomCode: room.ShortCode, Message: msg}:
	case <-h.done:
	}
}

// BroadcastRoomClosed tells subscribers the room is gone so clients return
// to a safe default view instead of sitting on stale state.
func (h *Hub) BroadcastRoomClosed(roomCode string) {
	msg, err := NewMessage(MessageTypeRoomClosed, map[string]string{"roomCode": roomCode})
	if err != nil {
		return
	}

	select {
	case h.broadcast <- &roomBroadcast{RoomCode: roomCode, Message: msg}:
	case <-h.done:
	}
}

func (h *Hub) handleSubscribe(req *subscribeRequest) {
	code := strings.ToUpper(req.RoomCode)

	room, err := h.provider.GetRoom(context.Background(), code)
	if err != nil {
		req.Client.sendError("ROOM_NOT_FOUND", "Room does not exist")
		return
	}

	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.removeSubscriber(req.Client)
	if h.rooms[code] == nil {
		h.rooms[code] = make(map[*Client]bool)
	}
	h.rooms[code][req.Client] = true
	req.Client.roomCode = code
	h.mu.Unlock()

	msg, err := NewMessage(MessageTypeStateSync, NewRoomSnapshot(room))
	if err != nil {
		log.Printf("ERROR [hub] failed to build state sync: %v", err)
		return
	}
	select {
	case req.Client.send <- mustMarshal(msg):
	default:
	}
}

// SyncState replays the current document to one client on request.
func (h *Hub) SyncState(client *Client) {
	if client.roomCode == "" {
		client.sendError("NOT_SUBSCRIBED", "Join a room first")
		return
	}

	room, err := h.provider.GetRoom(context.Background(), client.roomCode)
	if err != nil {
		client.sendError("ROOM_NOT_FOUND", "Room does not exist")
		return
	}

	msg, err := NewMessage(MessageTypeStateSync, NewRoomSnapshot(room))
	if err != nil {
		return
	}
	select {
	case client.send <- mustMarshal(msg):
	default:
	}
}

func (h *Hub) deliver(b *roomBroadcast) {
	data := mustMarshal(b.Message)

	h.mu.RLock()
	subscribers := h.rooms[strings.ToUpper(b.RoomCode)]
	for client := range subscribers {
		select {
		case client.send <- data:
		default:
			// Slow consumer: drop the update, the next sync catches it up.
		}
	}
	h.mu.RUnlock()
}

// removeSubscriber must be called with h.mu held.
func (h *Hub) removeSubscriber(client *Client) {
	if client.roomCode == "" {
		return
	}
	if subs, ok := h.rooms[client.roomCode]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.rooms, client.roomCode)
		}
	}
	client.roomCode = ""
}
