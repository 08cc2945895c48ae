package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/arjun/party-games-website/internal/api/middleware"
	"github.com/arjun/party-games-website/internal/domain"
	"github.com/arjun/party-games-website/internal/service"
	"github.com/arjun/party-games-website/internal/websocket"
	"github.com/go-chi/chi/v5"
)

type RoomHandler struct {
	roomService *service.RoomService
	hub         *websocket.Hub
}

func NewRoomHandler(roomService *service.RoomService, hub *websocket.Hub) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		hub:         hub,
	}
}

type CreateRoomRequest struct {
	GameMode string `json:"gameMode"`
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	mode := domain.GameModeClassic
	if req.GameMode == string(domain.GameModeElimination) {
		mode = domain.GameModeElimination
	}

	room, err := h.roomService.CreateRoom(r.Context(), service.CreateRoomInput{
		HostID:   userID,
		GameMode: mode,
	})
	if err != nil {
		http.Error(w, "Failed to create room", http.StatusInternalServerError)
		return
	}

	writeRoomResponse(w, room)
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	idOrCode := chi.URLParam(r, "idOrCode")

	room, err := h.roomService.GetRoom(r.Context(), idOrCode)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeRoomResponse(w, room)
}

func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	room, err := h.roomService.GetRoom(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	room, err = h.roomService.JoinRoom(r.Context(), room.ID, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.hub.BroadcastRoom(room)
	writeRoomResponse(w, room)
}

func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	room, err := h.roomService.GetRoom(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.roomService.LeaveRoom(r.Context(), room.ID, userID); err != nil {
		writeDomainError(w, err)
		return
	}

	// The room may have been deleted with its last member.
	updated, err := h.roomService.GetRoom(r.Context(), room.ID.String())
	if err != nil {
		h.hub.BroadcastRoomClosed(room.ShortCode)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.hub.BroadcastRoom(updated)
	w.WriteHeader(http.StatusNoContent)
}

func (h *RoomHandler) GetUserRooms(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	rooms, err := h.roomService.GetUserRooms(r.Context(), userID, limit, offset)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]*websocket.RoomSnapshot, 0, len(rooms))
	for _, room := range rooms {
		resp = append(resp, websocket.NewRoomSnapshot(room))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func writeRoomResponse(w http.ResponseWriter, room *domain.Room) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(websocket.NewRoomSnapshot(room))
}

// writeDomainError maps the game's error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		http.Error(w, "Room not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrNotHost):
		http.Error(w, "Only the host can perform this action", http.StatusForbidden)
	case errors.Is(err, domain.ErrRoomFull):
		http.Error(w, "Room is full", http.StatusConflict)
	case errors.Is(err, domain.ErrGameInProgress):
		http.Error(w, "Game already in progress", http.StatusConflict)
	case errors.Is(err, domain.ErrInsufficientPlayers):
		http.Error(w, "Not enough players", http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrRoundLimitReached):
		http.Error(w, "Round limit reached", http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidPhase):
		http.Error(w, "Invalid phase for this action", http.StatusConflict)
	case errors.Is(err, domain.ErrNotYourRole):
		http.Error(w, "Your role cannot perform this action", http.StatusForbidden)
	case errors.Is(err, domain.ErrNotInRoom):
		http.Error(w, "You are not in this room", http.StatusForbidden)
	case errors.Is(err, domain.ErrInvalidTarget):
		http.Error(w, "Invalid target player", http.StatusBadRequest)
	case errors.Is(err, domain.ErrPlayerDead):
		http.Error(w, "Eliminated players cannot act", http.StatusForbidden)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}
