package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrolog/macrolog/backend/config"
	"github.com/macrolog/macrolog/backend/internal/database"
	"github.com/macrolog/macrolog/backend/internal/testhelpers"
)

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		addr     string
		password string
		db       int
		wantErr  bool
	}{
		{
			name:     "host and port",
			cfg:      config.Config{RedisHost: "cache", RedisPort: "6380", RedisPassword: "s3cret", RedisDB: 1},
			addr:     "cache:6380",
			password: "s3cret",
			db:       1,
		},
		{
			name:     "url wins over host",
			cfg:      config.Config{RedisURL: "redis://:fromurl@redis.internal:6379/3", RedisHost: "cache", RedisPassword: "s3cret"},
			addr:     "redis.internal:6379",
			password: "fromurl",
			db:       3,
		},
		{
			name:     "url without password uses the configured one",
			cfg:      config.Config{RedisURL: "redis://redis.internal:6379/0", RedisPassword: "s3cret"},
			addr:     "redis.internal:6379",
			password: "s3cret",
		},
		{
			name:    "malformed url",
			cfg:     config.Config{RedisURL: "http://redis.internal"},
			wantErr: true,
		},
		{
			name:    "not configured",
			cfg:     config.Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := database.RedisOptions(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.addr, opts.Addr)
			assert.Equal(t, tt.password, opts.Password)
			assert.Equal(t, tt.db, opts.DB)
		})
	}
}

func TestNewRedisClient(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		_, err := database.NewRedisClient(&config.Config{RedisHost: "127.0.0.1", RedisPort: "1"})
		assert.Error(t, err)
	})

	t.Run("connects", func(t *testing.T) {
		addr := testhelpers.SetupRedis(t).Options().Addr

		client, err := database.NewRedisClient(&config.Config{RedisURL: "redis://" + addr + "/2"})
		require.NoError(t, err)
		t.Cleanup(func() { client.Close() })
		assert.Equal(t, 2, client.Options().DB)
	})
}
