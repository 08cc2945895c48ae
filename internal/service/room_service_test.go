package service_test

import (
	"context"
	"testing"

	"github.com/arjun/party-games-website/internal/domain"
	"github.com/arjun/party-games-website/internal/repository/postgres"
	"github.com/arjun/party-games-website/internal/service"
	"github.com/arjun/party-games-website/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomService_CreateRoom(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	roomService := service.NewRoomService(repos, cfg)
	ctx := context.Background()

	host, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	room, err := roomService.CreateRoom(ctx, service.CreateRoomInput{
		HostID:   host.ID,
		GameMode: domain.GameModeClassic,
	})
	require.NoError(t, err)

	assert.Equal(t, host.ID, room.HostID)
	assert.Equal(t, domain.RoomStateLobby, room.State)
	assert.Equal(t, 0, room.Round)
	assert.Len(t, room.ShortCode, 5)
	require.Len(t, room.Players, 1)
	assert.Equal(t, host.ID, room.Players[0].UserID)
	assert.Equal(t, 0, room.Players[0].JoinOrder)
}

func TestRoomService_GetRoom(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	roomService := service.NewRoomService(repos, cfg)
	ctx := context.Background()

	room, _ := testutil.NewRoomBuilder().WithPlayers(2).Build(t, testDB.DB)

	t.Run("by id", func(t *testing.T) {
		found, err := roomService.GetRoom(ctx, room.ID.String())
		require.NoError(t, err)
		assert.Equal(t, room.ID, found.ID)
	})

	t.Run("by short code", func(t *testing.T) {
		found, err := roomService.GetRoom(ctx, room.ShortCode)
		require.NoError(t, err)
		assert.Equal(t, room.ID, found.ID)
	})

	t.Run("missing room", func(t *testing.T) {
		_, err := roomService.GetRoom(ctx, "ZZZZZ")
		assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	})
}

func TestRoomService_JoinRoom(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	roomService := service.NewRoomService(repos, cfg)
	gameService := service.NewGameService(repos, cfg)
	ctx := context.Background()

	t.Run("join is idempotent by user id", func(t *testing.T) {
		room, users := testutil.NewRoomBuilder().WithPlayers(2).Build(t, testDB.DB)

		// Give the member a score, then rejoin: nothing may reset.
		member := users[1]
		player, err := repos.RoomPlayer.GetByRoomAndUser(ctx, room.ID, member.ID)
		require.NoError(t, err)
		player.Score = 750
		require.NoError(t, repos.RoomPlayer.Update(ctx, player))

		updated, err := roomService.JoinRoom(ctx, room.ID, member.ID)
		require.NoError(t, err)

		assert.Len(t, updated.Players, 2)
		rejoined := updated.PlayerByUserID(member.ID)
		require.NotNil(t, rejoined)
		assert.Equal(t, 750, rejoined.Score)
		assert.Equal(t, 1, rejoined.JoinOrder)
	})

	t.Run("join orders are never reused", func(t *testing.T) {
		room, users := testutil.NewRoomBuilder().WithPlayers(3).Build(t, testDB.DB)

		// Orders 0,1,2; the middle member leaves. The next joiner must not
		// get order 2 again or ordering ties would be ambiguous.
		require.NoError(t, roomService.LeaveRoom(ctx, room.ID, users[1].ID))

		newcomer, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		updated, err := roomService.JoinRoom(ctx, room.ID, newcomer.ID)
		require.NoError(t, err)

		joined := updated.PlayerByUserID(newcomer.ID)
		require.NotNil(t, joined)
		assert.Equal(t, 3, joined.JoinOrder)

		seen := make(map[int]bool)
		for _, p := range updated.Players {
			assert.False(t, seen[p.JoinOrder], "duplicate join order %d", p.JoinOrder)
			seen[p.JoinOrder] = true
		}
	})

	t.Run("full room rejects new members", func(t *testing.T) {
		room, _ := testutil.NewRoomBuilder().WithPlayers(cfg.RoomCapacity).Build(t, testDB.DB)
		outsider, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

		_, err := roomService.JoinRoom(ctx, room.ID, outsider.ID)
		assert.ErrorIs(t, err, domain.ErrRoomFull)
	})

	t.Run("late join rejected, reconnect allowed", func(t *testing.T) {
		room, users := testutil.NewRoomBuilder().WithPlayers(4).Build(t, testDB.DB)
		_, err := gameService.StartGame(ctx, room.ID, users[0].ID)
		require.NoError(t, err)

		outsider, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		_, err = roomService.JoinRoom(ctx, room.ID, outsider.ID)
		assert.ErrorIs(t, err, domain.ErrGameInProgress)

		// An existing member reconnecting mid-game is always allowed back.
		updated, err := roomService.JoinRoom(ctx, room.ID, users[2].ID)
		require.NoError(t, err)
		assert.Len(t, updated.Players, 4)
	})

	t.Run("missing room", func(t *testing.T) {
		user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		room, _ := testutil.NewRoomBuilder().WithPlayers(1).Build(t, testDB.DB)
		require.NoError(t, roomService.LeaveRoom(ctx, room.ID, room.HostID))

		_, err := roomService.JoinRoom(ctx, room.ID, user.ID)
		assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	})
}

func TestRoomService_LeaveRoom(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	roomService := service.NewRoomService(repos, cfg)
	ctx := context.Background()

	t.Run("removal is keyed by id, not by value", func(t *testing.T) {
		room, users := testutil.NewRoomBuilder().WithPlayers(3).Build(t, testDB.DB)

		// Mutate the member's score after any caller could have snapshotted
		// it; the keyed delete must still find the row.
		player, err := repos.RoomPlayer.GetByRoomAndUser(ctx, room.ID, users[1].ID)
		require.NoError(t, err)
		player.Score = 1250
		require.NoError(t, repos.RoomPlayer.Update(ctx, player))

		require.NoError(t, roomService.LeaveRoom(ctx, room.ID, users[1].ID))

		updated, err := roomService.GetRoom(ctx, room.ID.String())
		require.NoError(t, err)
		assert.Len(t, updated.Players, 2)
		assert.Nil(t, updated.PlayerByUserID(users[1].ID))
	})

	t.Run("host leaving promotes the earliest remaining member", func(t *testing.T) {
		room, users := testutil.NewRoomBuilder().WithPlayers(3).Build(t, testDB.DB)

		require.NoError(t, roomService.LeaveRoom(ctx, room.ID, users[0].ID))

		updated, err := roomService.GetRoom(ctx, room.ID.String())
		require.NoError(t, err)
		assert.Equal(t, users[1].ID, updated.HostID)
	})

	t.Run("last member leaving deletes the room", func(t *testing.T) {
		room, users := testutil.NewRoomBuilder().WithPlayers(1).Build(t, testDB.DB)

		require.NoError(t, roomService.LeaveRoom(ctx, room.ID, users[0].ID))

		_, err := roomService.GetRoom(ctx, room.ID.String())
		assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	})

	t.Run("non-member cannot leave", func(t *testing.T) {
		room, _ := testutil.NewRoomBuilder().WithPlayers(2).Build(t, testDB.DB)
		outsider, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

		err := roomService.LeaveRoom(ctx, room.ID, outsider.ID)
		assert.ErrorIs(t, err, domain.ErrNotInRoom)
	})
}
