package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "session:42", redisKey(42))
	assert.Equal(t, "session:-100123", redisKey(-100123))
}

func TestRedisStore_Get(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(mock redismock.ClientMock)
		wantValue string
		wantOK    bool
		wantErr   bool
	}{
		{
			name: "stored slot",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectHGet("session:42", "topic").SetVal("animals")
			},
			wantValue: "animals",
			wantOK:    true,
		},
		{
			name: "missing slot",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectHGet("session:42", "topic").RedisNil()
			},
			wantOK: false,
		},
		{
			name: "server error",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectHGet("session:42", "topic").SetErr(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			tt.setup(mock)

			s := NewRedisStore(db, time.Hour)
			v, ok, err := s.Get(context.Background(), 42, "topic")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantValue, v)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedisStore_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectTxPipeline()
	mock.ExpectHSet("session:42", "topic", "animals").SetVal(1)
	mock.ExpectExpire("session:42", 24*time.Hour).SetVal(true)
	mock.ExpectTxPipelineExec()

	s := NewRedisStore(db, 24*time.Hour)
	require.NoError(t, s.Set(context.Background(), 42, "topic", "animals"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Set_NoTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectTxPipeline()
	mock.ExpectHSet("session:42", "locale", "ru").SetVal(1)
	mock.ExpectTxPipelineExec()

	s := NewRedisStore(db, 0)
	require.NoError(t, s.Set(context.Background(), 42, "locale", "ru"))
	assert.NoError(t, mock.ExpectationsWereMet(), "no EXPIRE without a ttl")
}

func TestRedisStore_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectHDel("session:42", "pending").SetVal(1)
	mock.ExpectHDel("session:42", "pending").SetErr(errors.New("READONLY"))

	s := NewRedisStore(db, time.Hour)
	require.NoError(t, s.Delete(context.Background(), 42, "pending"))
	assert.Error(t, s.Delete(context.Background(), 42, "pending"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_UnreachableServer(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	s := NewRedisStore(rdb, time.Hour)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, 42, "topic")
	assert.Error(t, err)
	assert.False(t, ok)

	_, err = NewRedisClient(ctx, "127.0.0.1:1")
	assert.Error(t, err)
}
