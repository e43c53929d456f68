package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/event-rsvp/internal/constants"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ACTIVATION_TOKEN_TTL", "")
	t.Setenv("SMTP_PORT", "")

	cfg := Load()

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, constants.DefaultActivationTTL, cfg.ActivationTTL)
	assert.Equal(t, 587, cfg.Mail.Port)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("ACTIVATION_TOKEN_TTL", "1h")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("GIN_MODE", "release")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, time.Hour, cfg.ActivationTTL)
	assert.Equal(t, 2525, cfg.Mail.Port)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("ACTIVATION_TOKEN_TTL", "soon")
	t.Setenv("SMTP_PORT", "abc")

	cfg := Load()

	assert.Equal(t, constants.DefaultActivationTTL, cfg.ActivationTTL)
	assert.Equal(t, 587, cfg.Mail.Port)
}
