package storage

import (
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
)

func TestUnavailable(t *testing.T) {
	assert.NoError(t, unavailable(nil))
	assert.Equal(t, redis.Nil, unavailable(redis.Nil))

	err := unavailable(errors.New("dial tcp: connection refused"))
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRedisClientPrefixesKeys(t *testing.T) {
	r := &redisClient{prefix: "silverlink:"}

	assert.Equal(t, "silverlink:session:abc", r.key("session:abc"))
	assert.Equal(t, []string{"silverlink:a", "silverlink:b"}, r.keys([]string{"a", "b"}))
}
