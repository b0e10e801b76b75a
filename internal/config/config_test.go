package config

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/portfolio-cms/internal/constants"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("CSRF_ENABLED", "")

	cfg := Load()

	require.Equal(t, "sqlite://portfolio.db", cfg.DatabaseURL)
	require.Equal(t, int64(constants.DefaultMaxUploadBytes), cfg.MaxUploadBytes)
	require.Equal(t, "cookie", cfg.SessionStore)
	require.True(t, cfg.CSRFEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("CSRF_ENABLED", "false")
	t.Setenv("GIN_MODE", "release")

	cfg := Load()

	require.Equal(t, 465, cfg.SMTPPort)
	require.Equal(t, "redis", cfg.SessionStore)
	require.False(t, cfg.CSRFEnabled)
	require.True(t, cfg.IsProduction())
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg := Load()

	require.Equal(t, 587, cfg.SMTPPort)
}
