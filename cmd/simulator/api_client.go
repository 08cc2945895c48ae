package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	IsGuest     bool   `json:"isGuest"`
}

type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Room struct {
	ID           string            `json:"id"`
	ShortCode    string            `json:"shortCode"`
	HostID       string            `json:"hostId"`
	GameMode     string            `json:"gameMode"`
	State        string            `json:"state"`
	Phase        string            `json:"phase"`
	Round        int               `json:"round"`
	Roles        map[string]string `json:"roles"`
	AccusedID    *string           `json:"accusedId"`
	ScoreUpdated bool              `json:"scoreUpdated"`
	LastResult   *string           `json:"lastResult"`
	Players      []RoomPlayer      `json:"players"`
}

type RoomPlayer struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	Role        string `json:"role"`
	Alive       bool   `json:"alive"`
	JoinOrder   int    `json:"joinOrder"`
}

// SignInGuest creates an anonymous session
func (c *APIClient) SignInGuest(baseName string) (*User, string, error) {
	displayName := fmt.Sprintf("%s_%d", baseName, time.Now().UnixNano()%100000)

	body := map[string]string{
		"displayName": displayName,
	}

	resp, err := c.post("/auth/guest", body, "")
	if err != nil {
		return nil, "", fmt.Errorf("guest sign-in request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("guest sign-in failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("failed to decode response: %w", err)
	}

	return &result.User, result.AccessToken, nil
}

// CreateRoom creates a new game room
func (c *APIClient) CreateRoom(token, gameMode string) (*Room, error) {
	body := map[string]string{
		"gameMode": gameMode,
	}

	resp, err := c.post("/rooms", body, token)
	if err != nil {
		return nil, fmt.Errorf("create room request failed: %w", err)
	}
	return decodeRoom(resp, "create room")
}

// GetRoom fetches room details by ID or short code
func (c *APIClient) GetRoom(token, idOrCode string) (*Room, error) {
	resp, err := c.get("/rooms/"+idOrCode, token)
	if err != nil {
		return nil, fmt.Errorf("get room request failed: %w", err)
	}
	return decodeRoom(resp, "get room")
}

// JoinRoom joins the authenticated user to a room
func (c *APIClient) JoinRoom(token, idOrCode string) (*Room, error) {
	resp, err := c.post("/rooms/"+idOrCode+"/join", nil, token)
	if err != nil {
		return nil, fmt.Errorf("join room request failed: %w", err)
	}
	return decodeRoom(resp, "join room")
}

// StartGame begins the first round (host only)
func (c *APIClient) StartGame(token, idOrCode string) (*Room, error) {
	resp, err := c.post("/rooms/"+idOrCode+"/start", nil, token)
	if err != nil {
		return nil, fmt.Errorf("start game request failed: %w", err)
	}
	return decodeRoom(resp, "start game")
}

// NextRound advances to the next round (host only)
func (c *APIClient) NextRound(token, idOrCode string) (*Room, error) {
	resp, err := c.post("/rooms/"+idOrCode+"/next", nil, token)
	if err != nil {
		return nil, fmt.Errorf("next round request failed: %w", err)
	}
	return decodeRoom(resp, "next round")
}

// ClaimRole is the mantri opening the guessing phase
func (c *APIClient) ClaimRole(token, idOrCode string) (*Room, error) {
	resp, err := c.post("/rooms/"+idOrCode+"/claim", nil, token)
	if err != nil {
		return nil, fmt.Errorf("claim role request failed: %w", err)
	}
	return decodeRoom(resp, "claim role")
}

// Accuse is the sipahi naming a suspected chor
func (c *APIClient) Accuse(token, idOrCode, targetID string) (*Room, error) {
	body := map[string]string{"targetId": targetID}

	resp, err := c.post("/rooms/"+idOrCode+"/accuse", body, token)
	if err != nil {
		return nil, fmt.Errorf("accuse request failed: %w", err)
	}
	return decodeRoom(resp, "accuse")
}

// Kill is the killer eliminating a player
func (c *APIClient) Kill(token, idOrCode, targetID string) (*Room, error) {
	body := map[string]string{"targetId": targetID}

	resp, err := c.post("/rooms/"+idOrCode+"/kill", body, token)
	if err != nil {
		return nil, fmt.Errorf("kill request failed: %w", err)
	}
	return decodeRoom(resp, "kill")
}

// Arrest is the detective accusing a player of being the killer
func (c *APIClient) Arrest(token, idOrCode, targetID string) (*Room, error) {
	body := map[string]string{"targetId": targetID}

	resp, err := c.post("/rooms/"+idOrCode+"/arrest", body, token)
	if err != nil {
		return nil, fmt.Errorf("arrest request failed: %w", err)
	}
	return decodeRoom(resp, "arrest")
}

func decodeRoom(resp *http.Response, op string) (*Room, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s failed (status %d): %s", op, resp.StatusCode, string(bodyBytes))
	}

	var room Room
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &room, nil
}

// HTTP helpers

func (c *APIClient) get(path, token string) (*http.Response, error) {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

func (c *APIClient) post(path string, body interface{}, token string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}
