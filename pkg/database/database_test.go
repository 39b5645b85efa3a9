package database

import (
	"testing"

	"github.com/richxcame/review-guard/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPoolConfig(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "postgres",
		DBName:   "reviewguard",
		SSLMode:  "disable",
		MaxConns: 10,
		MinConns: 2,
	}

	poolConfig, err := BuildPoolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(10), poolConfig.MaxConns)
	assert.Equal(t, int32(2), poolConfig.MinConns)
	assert.Equal(t, "reviewguard", poolConfig.ConnConfig.Database)
	assert.Equal(t, uint16(5432), poolConfig.ConnConfig.Port)
}

func TestBuildPoolConfig_IgnoresMinAboveMax(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "localhost", Port: "5432", User: "u", DBName: "d", SSLMode: "disable", MaxConns: 2, MinConns: 5}

	poolConfig, err := BuildPoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(2), poolConfig.MaxConns)
	assert.NotEqual(t, int32(5), poolConfig.MinConns)
}

func TestBuildPoolConfig_InvalidPort(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "localhost", Port: "not-a-port", User: "u", DBName: "d", SSLMode: "disable"}

	_, err := BuildPoolConfig(cfg)
	assert.Error(t, err)
}

func TestClose_NilPool(t *testing.T) {
	assert.NotPanics(t, func() { Close(nil) })
}
