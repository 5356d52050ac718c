package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	client, mr := newTestClient(t)
	return NewRedisStore(client), mr
}

func TestRedisStore_SaveLoadDeleteRoom(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	roomData := &RoomData{
		Code:  "123456",
		State: "WAITING_FOR_PLAYERS",
		Players: []PlayerData{
			{ID: "p1", Name: "东", Seat: 0, Ready: true},
		},
		PlayerOrder: []string{"p1"},
		CreatedAt:   time.Now().Unix(),
	}

	require.NoError(t, store.SaveRoom(ctx, roomData.Code, roomData))
	assert.True(t, mr.Exists("room:123456"))
	assert.Equal(t, roomExpiration, mr.TTL("room:123456"))

	loaded, err := store.LoadRoom(ctx, roomData.Code)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, roomData, loaded)

	codes, err := store.GetAllRoomCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"123456"}, codes)

	require.NoError(t, store.DeleteRoom(ctx, roomData.Code))
	loaded, err = store.LoadRoom(ctx, roomData.Code)
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	assert.NoError(t, store.SaveRoom(ctx, "x", nil))
}

func TestRedisStore_GameState(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	snap := map[string]any{"phase": "PLAYING", "handNumber": 2}
	require.NoError(t, store.SaveGameState(ctx, "654321", snap))
	assert.True(t, mr.Exists("game:654321"))

	raw, err := store.LoadGameState(ctx, "654321")
	require.NoError(t, err)
	assert.JSONEq(t, `{"phase":"PLAYING","handNumber":2}`, string(raw))

	codes, err := store.ListGameStates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"654321"}, codes)

	require.NoError(t, store.DeleteGameState(ctx, "654321"))
	raw, err = store.LoadGameState(ctx, "654321")
	assert.NoError(t, err)
	assert.Nil(t, raw)
}

func TestRedisStore_MatchQueue(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		require.NoError(t, store.AddToMatchQueue(ctx, id))
	}
	n, err := store.GetMatchQueueLength(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	require.NoError(t, store.RemoveFromMatchQueue(ctx, "p2"))

	players, err := store.PopFromMatchQueue(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3", "p4", "p5"}, players)

	players, err = store.PopFromMatchQueue(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestRedisStore_Session(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	sess := &PlayerSessionData{
		PlayerID:       "p1",
		PlayerName:     "东",
		ReconnectToken: "tok",
		RoomCode:       "123456",
		DisconnectedAt: 1700000000,
	}
	require.NoError(t, store.SaveSession(ctx, sess))

	loaded, err := store.LoadSession(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, sess, loaded)

	require.NoError(t, store.DeleteSession(ctx, "p1"))
	loaded, err = store.LoadSession(ctx, "p1")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_SessionOverwrite(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, &PlayerSessionData{PlayerID: "p2", ReconnectToken: "a", DisconnectedAt: 5}))
	require.NoError(t, store.SaveSession(ctx, &PlayerSessionData{PlayerID: "p2", ReconnectToken: "b", IsOnline: true}))
	assert.Equal(t, "1", mr.HGet("session:p2", "is_online"))

	loaded, err := store.LoadSession(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "b", loaded.ReconnectToken)
	assert.True(t, loaded.IsOnline)
	assert.Zero(t, loaded.DisconnectedAt)
}

func TestRedisStore_Ping(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	assert.NoError(t, store.Ping(ctx))
	mr.Close()
	assert.Error(t, store.Ping(ctx))
}
