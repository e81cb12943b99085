package main

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vedran77/pulse-mirror/internal/config"
	"github.com/vedran77/pulse-mirror/internal/rtm"
	"github.com/vedran77/pulse-mirror/internal/transport/kafka"
	"github.com/vedran77/pulse-mirror/internal/transport/nats"
	"github.com/vedran77/pulse-mirror/internal/transport/ws"
)

func TestResolveIdentity(t *testing.T) {
	log := zaptest.NewLogger(t)
	cfg := &config.Config{}

	id, err := resolveIdentity(cfg, log)
	require.NoError(t, err)
	assert.Equal(t, rtm.Identity{}, id)

	cfg.Source.Token = "xoxb-not-a-jwt"
	id, err = resolveIdentity(cfg, log)
	require.NoError(t, err)
	assert.Equal(t, rtm.Identity{}, id)

	cfg.Source.JWTSecret = "s"
	_, err = resolveIdentity(cfg, log)
	assert.Error(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     "U0CJ5PC7L",
		"team_id": "T0CHZBU59",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s"))
	require.NoError(t, err)
	cfg.Source.Token = token
	id, err = resolveIdentity(cfg, log)
	require.NoError(t, err)
	assert.Equal(t, rtm.Identity{UserID: "U0CJ5PC7L", TeamID: "T0CHZBU59"}, id)
}

func TestNewSource(t *testing.T) {
	log := zaptest.NewLogger(t)
	cfg := &config.Config{}

	cfg.Source.Kind = config.SourceWS
	assert.IsType(t, &ws.Source{}, newSource(cfg, log))
	cfg.Source.Kind = config.SourceNATS
	assert.IsType(t, &nats.Source{}, newSource(cfg, log))
	cfg.Source.Kind = config.SourceKafka
	assert.IsType(t, &kafka.Source{}, newSource(cfg, log))
}
