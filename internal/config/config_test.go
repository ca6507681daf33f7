package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_ConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LINGO_HTTP_TIMEOUT", "2s")
	t.Setenv("CHAIN_RPC_999", "https://a.example,https://b.example")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.HTTPCall.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Blockchain.EndpointsFor(999))
}

func TestLoad_ConfigFallbacks(t *testing.T) {
	t.Setenv("LINGO_HTTP_TIMEOUT", "bad-duration")

	cfg := Load()
	assert.Equal(t, 5*time.Second, cfg.HTTPCall.Timeout)
	assert.NotEmpty(t, cfg.Blockchain.EndpointsFor(1))
}

func TestEndpointsFor_UnknownChain(t *testing.T) {
	cfg := Load()
	assert.Nil(t, cfg.Blockchain.EndpointsFor(0xdeadbeef))
}
