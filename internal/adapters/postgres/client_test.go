package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blackbox/internal/adapters/config"
	"blackbox/pkg/errors"
)

func TestNewClient_UnreachableHost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping connection test in short mode")
	}

	cfg := config.PostgresConfig{
		Host:     "localhost",
		Port:     1,
		User:     "nobody",
		Password: "nothing",
		Database: "missing",
		SSLMode:  "disable",
		MaxConns: 1,
	}

	_, err := NewClient(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStore))
}
