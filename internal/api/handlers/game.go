package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/arjun/party-games-website/internal/api/middleware"
	"github.com/arjun/party-games-website/internal/domain"
	"github.com/arjun/party-games-website/internal/service"
	"github.com/arjun/party-games-website/internal/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type GameHandler struct {
	gameService *service.GameService
	roomService *service.RoomService
	hub         *websocket.Hub
}

func NewGameHandler(gameService *service.GameService, roomService *service.RoomService, hub *websocket.Hub) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		roomService: roomService,
		hub:         hub,
	}
}

type TargetRequest struct {
	TargetID string `json:"targetId"`
}

type ResolveRequest struct {
	IsCorrect bool `json:"isCorrect"`
}

type HistoryResponse struct {
	Records []*domain.RoundRecord `json:"records"`
}

// roomCommand runs a game command shared by most endpoints: resolve the room,
// apply fn, broadcast the new document, and write it back to the caller.
func (h *GameHandler) roomCommand(w http.ResponseWriter, r *http.Request, fn func(roomID, userID uuid.UUID) (*domain.Room, error)) {
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

	updated, err := fn(room.ID, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.hub.BroadcastRoom(updated)
	writeRoomResponse(w, updated)
}

func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.roomCommand(w, r, func(roomID, userID uuid.UUID) (*domain.Room, error) {
		return h.gameService.StartGame(r.Context(), roomID, userID)
	})
}

func (h *GameHandler) NextRound(w http.ResponseWriter, r *http.Request) {
	h.roomCommand(w, r, func(roomID, userID uuid.UUID) (*domain.Room, error) {
		return h.gameService.NextRound(r.Context(), roomID, userID)
	})
}

func (h *GameHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.roomCommand(w, r, func(roomID, userID uuid.UUID) (*domain.Room, error) {
		return h.gameService.CancelGame(r.Context(), roomID, userID)
	})
}

func (h *GameHandler) Claim(w http.ResponseWriter, r *http.Request) {
	h.roomCommand(w, r, func(roomID, userID uuid.UUID) (*domain.Room, error) {
		return h.gameService.ClaimRole(r.Context(), roomID, userID)
	})
}

func (h *GameHandler) Accuse(w http.ResponseWriter, r *http.Request) {
	target, ok := decodeTarget(w, r)
	if !ok {
		return
	}
	h.roomCommand(w, r, func(roomID, userID uuid.UUID) (*domain.Room, error) {
		return h.gameService.Accuse(r.Context(), roomID, userID, target)
	})
}

func (h *GameHandler) Kill(w http.ResponseWriter, r *http.Request) {
	target, ok := decodeTarget(w, r)
	if !ok {
		return
	}
	h.roomCommand(w, r, func(roomID, userID uuid.UUID) (*domain.Room, error) {
		return h.gameService.Kill(r.Context(), roomID, userID, target)
	})
}

func (h *GameHandler) Arrest(w http.ResponseWriter, r *http.Request) {
	target, ok := decodeTarget(w, r)
	if !ok {
		return
	}
	h.roomCommand(w, r, func(roomID, userID uuid.UUID) (*domain.Room, error) {
		return h.gameService.Arrest(r.Context(), roomID, userID, target)
	})
}

// Resolve is the server-mediated scoring command. Any authenticated caller
// may fire it; duplicates are silently absorbed by the resolution guard.
func (h *GameHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	room, err := h.roomService.GetRoom(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.gameService.UpdateScores(r.Context(), room.ID, req.IsCorrect); err != nil {
		writeDomainError(w, err)
		return
	}

	updated, err := h.roomService.GetRoom(r.Context(), room.ID.String())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.hub.BroadcastRoom(updated)
	writeRoomResponse(w, updated)
}

func (h *GameHandler) History(w http.ResponseWriter, r *http.Request) {
	room, err := h.roomService.GetRoom(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	records, err := h.gameService.GetHistory(r.Context(), room.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HistoryResponse{Records: records})
}

func decodeTarget(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var req TargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return uuid.Nil, false
	}
	target, err := uuid.Parse(req.TargetID)
	if err != nil {
		http.Error(w, "Invalid target ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return target, true
}
