package database

import (
	"testing"
	"time"

	"github.com/srana86/frameX-sub004/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfig(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:            "db.internal",
		Port:            5432,
		User:            "orders",
		Password:        "secret",
		Database:        "framex_orders",
		MaxConnections:  25,
		MinConnections:  5,
		MaxConnLifetime: 300,
	}

	pc, err := poolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "framex-order-api", pc.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "db.internal", pc.ConnConfig.Host)
	assert.Equal(t, "framex_orders", pc.ConnConfig.Database)
	assert.Equal(t, int32(25), pc.MaxConns)
	assert.Equal(t, int32(5), pc.MinConns)
	assert.Equal(t, 300*time.Second, pc.MaxConnLifetime)
	assert.Equal(t, 30*time.Minute, pc.MaxConnIdleTime)
}

func TestPoolConfig_BadConnString(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host: "db.internal", Port: 5432,
		User: "or ders", Password: "se%ZZcret", Database: "framex_orders",
	}

	_, err := poolConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse database config")
}
