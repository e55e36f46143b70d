package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 480*time.Minute, cfg.JWT.TokenTTL)
	assert.Equal(t, "@mergington.edu", cfg.Auth.EmailDomain)
	assert.Equal(t, "admin@mergington.edu", cfg.Seed.Admin.Email)
	assert.Nil(t, cfg.SeedActivities())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
jwt:
  secret_key: file-secret
  token_ttl: 1h
seed:
  activities:
    chess_club:
      description: Chess for everyone
      schedule: Fridays
      max_participants: 12
      participants: [a@mergington.edu]
    robotics:
      name: Robotics Lab
      description: Build robots
      schedule: Mondays
      max_participants: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "file-secret", cfg.JWT.SecretKey)
	assert.Equal(t, time.Hour, cfg.JWT.TokenTTL)

	activities := cfg.SeedActivities()
	require.Len(t, activities, 2)
	// Sorted by slug: chess_club, robotics. Display name derives from
	// the slug unless overridden.
	assert.Equal(t, "Chess Club", activities[0].Name)
	assert.Equal(t, []string{"a@mergington.edu"}, activities[0].Participants)
	assert.Equal(t, "Robotics Lab", activities[1].Name)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ACTIVITYHUB_SERVER__PORT", "7777")
	t.Setenv("ACTIVITYHUB_LOG__LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "7777", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverride_SnakeCaseKeys(t *testing.T) {
	// Keys with an underscore of their own must be reachable from the
	// environment; the secret key in particular is how production
	// replaces the dev default.
	t.Setenv("ACTIVITYHUB_JWT__SECRET_KEY", "env-secret")
	t.Setenv("ACTIVITYHUB_JWT__TOKEN_TTL", "90m")
	t.Setenv("ACTIVITYHUB_AUTH__EMAIL_DOMAIN", "@example.edu")
	t.Setenv("ACTIVITYHUB_SEED__ADMIN__EMAIL", "admin@example.edu")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.SecretKey)
	assert.Equal(t, 90*time.Minute, cfg.JWT.TokenTTL)
	assert.Equal(t, "@example.edu", cfg.Auth.EmailDomain)
	assert.Equal(t, "admin@example.edu", cfg.Seed.Admin.Email)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "empty secret",
			yaml: "jwt:\n  secret_key: \"\"\n",
		},
		{
			name: "nonpositive ttl",
			yaml: "jwt:\n  token_ttl: 0s\n",
		},
		{
			name: "domain without at sign",
			yaml: "auth:\n  email_domain: mergington.edu\n",
		},
		{
			name: "admin outside domain",
			yaml: "seed:\n  admin:\n    email: admin@elsewhere.edu\n",
		},
		{
			name: "overfull seed activity",
			yaml: `seed:
  activities:
    tiny:
      max_participants: 1
      participants: [a@mergington.edu, b@mergington.edu]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
