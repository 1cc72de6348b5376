package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigOptions_Defaults(t *testing.T) {
	opts := Config{Addr: "cache:6379"}.options()

	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, defaultPoolSize, opts.PoolSize)
	assert.Equal(t, defaultDialTimeout, opts.DialTimeout)
	assert.Equal(t, defaultDialTimeout, opts.ReadTimeout)
}

func TestConfigOptions_Explicit(t *testing.T) {
	opts := Config{Addr: "cache:6379", Password: "s3cret", DB: 2, PoolSize: 40, Timeout: time.Second}.options()

	assert.Equal(t, "s3cret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 40, opts.PoolSize)
	assert.Equal(t, time.Second, opts.DialTimeout)
	assert.Equal(t, time.Second, opts.WriteTimeout)
}
