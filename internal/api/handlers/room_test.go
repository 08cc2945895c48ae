package handlers_test

import (
	"net/http"
	"testing"

	"github.com/arjun/party-games-website/internal/testutil"
	"github.com/arjun/party-games-website/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)

	host, hostToken := testutil.NewUserBuilder().AsGuest().BuildAndAuthenticate(t, ts)
	players := make([]string, 0, 3)
	tokens := map[string]string{host.ID.String(): hostToken}
	for i := 0; i < 3; i++ {
		user, token := testutil.NewUserBuilder().AsGuest().BuildAndAuthenticate(t, ts)
		players = append(players, user.ID.String())
		tokens[user.ID.String()] = token
	}

	// Host creates a classic room.
	resp := testutil.AuthedJSON(t, ts, http.MethodPost, "/rooms", hostToken, map[string]string{
		"gameMode": "classic",
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var room websocket.RoomSnapshot
	testutil.AssertJSONResponse(t, resp, &room)
	assert.Equal(t, host.ID.String(), room.HostID)
	assert.Len(t, room.ShortCode, 5)
	require.Len(t, room.Players, 1)

	// The others join by short code.
	for _, id := range players {
		resp = testutil.AuthedJSON(t, ts, http.MethodPost, "/rooms/"+room.ShortCode+"/join", tokens[id], nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)
	}

	resp = testutil.AuthedJSON(t, ts, http.MethodGet, "/rooms/"+room.ShortCode, hostToken, nil)
	testutil.AssertJSONResponse(t, resp, &room)
	require.Len(t, room.Players, 4)

	// A non-host cannot start the game.
	resp = testutil.AuthedJSON(t, ts, http.MethodPost, "/rooms/"+room.ShortCode+"/start", tokens[players[0]], nil)
	testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "host")

	// The host can.
	resp = testutil.AuthedJSON(t, ts, http.MethodPost, "/rooms/"+room.ShortCode+"/start", hostToken, nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertJSONResponse(t, resp, &room)
	assert.Equal(t, "playing", string(room.State))
	assert.Equal(t, "roles_assigned", string(room.Phase))
	require.Len(t, room.Roles, 4)

	// Drive the round over HTTP with whichever members drew the roles.
	mantriToken := tokens[room.Roles["mantri"]]
	sipahiToken := tokens[room.Roles["sipahi"]]
	chorID := room.Roles["chor"]

	resp = testutil.AuthedJSON(t, ts, http.MethodPost, "/rooms/"+room.ShortCode+"/claim", mantriToken, nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = testutil.AuthedJSON(t, ts, http.MethodPost, "/rooms/"+room.ShortCode+"/accuse", sipahiToken, map[string]string{
		"targetId": chorID,
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertJSONResponse(t, resp, &room)
	assert.Equal(t, "round_result", string(room.Phase))
	assert.True(t, room.ScoreUpdated)
	require.NotNil(t, room.LastResult)
	assert.Equal(t, "chor_caught", string(*room.LastResult))

	// A stray resolve after the accusation changes nothing.
	resp = testutil.AuthedJSON(t, ts, http.MethodPost, "/rooms/"+room.ShortCode+"/resolve", hostToken, map[string]bool{
		"isCorrect": false,
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = testutil.AuthedJSON(t, ts, http.MethodGet, "/rooms/"+room.ShortCode+"/history", hostToken, nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var history struct {
		Records []struct {
			Round  int    `json:"round"`
			Result string `json:"result"`
		} `json:"records"`
	}
	testutil.AssertJSONResponse(t, resp, &history)
	require.Len(t, history.Records, 1)
	assert.Equal(t, "chor_caught", history.Records[0].Result)

	// Leaving as the host hands the room to the next member.
	resp = testutil.AuthedJSON(t, ts, http.MethodPost, "/rooms/"+room.ShortCode+"/leave", hostToken, nil)
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)

	resp = testutil.AuthedJSON(t, ts, http.MethodGet, "/rooms/"+room.ShortCode, tokens[players[0]], nil)
	testutil.AssertJSONResponse(t, resp, &room)
	assert.Len(t, room.Players, 3)
	assert.NotEqual(t, host.ID.String(), room.HostID)
}

func TestRoomAccessControl(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().AsGuest().BuildAndAuthenticate(t, ts)

	t.Run("unauthenticated requests are rejected", func(t *testing.T) {
		resp, err := http.Post(ts.APIURL("/rooms"), "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})

	t.Run("unknown room is a 404", func(t *testing.T) {
		resp := testutil.AuthedJSON(t, ts, http.MethodGet, "/rooms/ZZZZZ", token, nil)
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Room not found")
	})
}
