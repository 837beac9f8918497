package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTTL = time.Hour

func TestRedisSaveSessionWritesBothKeysInOneTransaction(t *testing.T) {
	client, mock := redismock.NewClientMock()
	r := NewRedisCacheWithClient(client, testTTL)
	ctx := context.Background()

	mock.ExpectTxPipeline()
	mock.ExpectSet("session:abc:token", "tok-1", testTTL).SetVal("OK")
	mock.ExpectSet("session:abc:user_info", `{"id":1}`, testTTL).SetVal("OK")
	mock.ExpectTxPipelineExec()

	require.NoError(t, r.SaveSession(ctx, "abc", "tok-1", `{"id":1}`))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLoadSession(t *testing.T) {
	client, mock := redismock.NewClientMock()
	r := NewRedisCacheWithClient(client, testTTL)
	ctx := context.Background()

	mock.ExpectMGet("session:abc:token", "session:abc:user_info").SetVal([]interface{}{"tok-1", `{"id":1}`})
	token, info, err := r.LoadSession(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, `{"id":1}`, info)

	mock.ExpectMGet("session:new:token", "session:new:user_info").SetVal([]interface{}{nil, nil})
	token, info, err = r.LoadSession(ctx, "new")
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, info)

	mock.ExpectMGet("session:bad:token", "session:bad:user_info").SetErr(errors.New("connection reset"))
	_, _, err = r.LoadSession(ctx, "bad")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisClearSessionDeletesBothKeys(t *testing.T) {
	client, mock := redismock.NewClientMock()
	r := NewRedisCacheWithClient(client, testTTL)

	mock.ExpectDel("session:abc:token", "session:abc:user_info").SetVal(2)
	require.NoError(t, r.ClearSession(context.Background(), "abc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionTokenMissing(t *testing.T) {
	client, mock := redismock.NewClientMock()
	r := NewRedisCacheWithClient(client, testTTL)

	mock.ExpectGet("session:gone:token").RedisNil()
	token, err := r.SessionToken(context.Background(), "gone")
	require.NoError(t, err)
	assert.Empty(t, token)

	mock.ExpectGet("session:abc:token").SetVal("tok-1")
	token, err = r.SessionToken(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryCacheLockstep(t *testing.T) {
	m := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, m.SaveSession(ctx, "s1", "tok", "info"))
	token, info, _ := m.LoadSession(ctx, "s1")
	assert.Equal(t, "tok", token)
	assert.Equal(t, "info", info)

	require.NoError(t, m.ClearSession(ctx, "s1"))
	token, info, _ = m.LoadSession(ctx, "s1")
	assert.Empty(t, token)
	assert.Empty(t, info)
	assert.Equal(t, 0, m.Len())
}
