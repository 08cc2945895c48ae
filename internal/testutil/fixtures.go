package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/arjun/party-games-website/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	displayName string
	password    string
	guest       bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		displayName: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password:    "testpassword123",
	}
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// AsGuest marks the user as an anonymous guest
func (b *UserBuilder) AsGuest() *UserBuilder {
	b.guest = true
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	user := &domain.User{
		ID:          uuid.New(),
		DisplayName: b.displayName,
		IsGuest:     b.guest,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if !b.guest {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		IsGuest     bool   `json:"isGuest"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate creates a user via API and returns the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	path := "/auth/register"
	reqBody := map[string]string{"displayName": b.displayName}
	if b.guest {
		path = "/auth/guest"
	} else {
		reqBody["password"] = b.password
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL(path), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to authenticate user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status code %d: %s", resp.StatusCode, raw)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode auth response: %v", err)
	}

	userID, err := uuid.Parse(authResp.User.ID)
	if err != nil {
		t.Fatalf("invalid user id in auth response: %v", err)
	}

	var user domain.User
	if err := ts.DB.DB.First(&user, "id = ?", userID).Error; err != nil {
		t.Fatalf("failed to load user: %v", err)
	}

	return &user, authResp.AccessToken
}

// RoomBuilder seeds a room and its members directly in the database
type RoomBuilder struct {
	mode    domain.GameMode
	players int
}

// NewRoomBuilder creates a new RoomBuilder with default values
func NewRoomBuilder() *RoomBuilder {
	return &RoomBuilder{
		mode:    domain.GameModeClassic,
		players: 4,
	}
}

// WithMode sets the game mode
func (b *RoomBuilder) WithMode(mode domain.GameMode) *RoomBuilder {
	b.mode = mode
	return b
}

// WithPlayers sets the member count (the first member is the host)
func (b *RoomBuilder) WithPlayers(n int) *RoomBuilder {
	b.players = n
	return b
}

// Build creates the room with its members and returns them in join order
func (b *RoomBuilder) Build(t *testing.T, db *gorm.DB) (*domain.Room, []*domain.User) {
	t.Helper()

	users := make([]*domain.User, b.players)
	for i := range users {
		users[i], _ = NewUserBuilder().AsGuest().Build(t, db)
	}

	room := &domain.Room{
		ID:        uuid.New(),
		ShortCode: strings.ToUpper(uuid.New().String()[:5]),
		HostID:    users[0].ID,
		GameMode:  b.mode,
		State:     domain.RoomStateLobby,
		Round:     0,
		CreatedAt: time.Now(),
	}
	if err := db.Create(room).Error; err != nil {
		t.Fatalf("failed to create room: %v", err)
	}

	for i, u := range users {
		player := &domain.RoomPlayer{
			ID:          uuid.New(),
			RoomID:      room.ID,
			UserID:      u.ID,
			DisplayName: u.DisplayName,
			Alive:       true,
			JoinOrder:   i,
			JoinedAt:    time.Now(),
		}
		if err := db.Create(player).Error; err != nil {
			t.Fatalf("failed to create room player: %v", err)
		}
	}

	return room, users
}

// AuthedJSON performs an authenticated JSON request against the test server
func AuthedJSON(t *testing.T, ts *TestServer, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader = bytes.NewReader([]byte("{}"))
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.APIURL(path), reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}
